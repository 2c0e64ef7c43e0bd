package cmd

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		// Match the usual local setup where API_KEY lives in ./.env.
		if err := godotenv.Load(); err != nil {
			log.Printf("no env file specified and no .env found, using os.Environ only")
		}
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}
