package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agri-chat/cmd"
	"agri-chat/internal/api"
	"agri-chat/internal/chat"
	"agri-chat/internal/config"
	"agri-chat/internal/llm"
	"agri-chat/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func createRouter(cfg *config.Config, sessions *chat.SessionCache, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout
	r.Use(m.Middleware)

	chatHandler := api.NewChatService(sessions, m)
	chatHandler.AddRoutes(r)

	r.Get("/health", api.RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Handle("/metrics", m.Handler())

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		slog.Info("serving static files", "dir", cfg.StaticDir)
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	} else {
		slog.Warn("static dir not found, front-end will not be served", "dir", cfg.StaticDir)
	}

	return r
}

func main() {
	log.Println("Starting chat server...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	sessionOpts, err := cfg.SessionOptions()
	if err != nil {
		log.Fatalf("error loading prompt template: %v", err)
	}

	provider, err := llm.NewProvider(context.Background(), cfg.LLMConfig())
	if err != nil {
		log.Fatalf("Failed to create %s provider: %v", cfg.LLMProvider, err)
	}

	m := metrics.NewMetrics()
	sessions := chat.NewSessionCache(cfg.SessionCacheSize, llm.WithMetrics(provider, m), sessionOpts)

	slog.Info("chat provider ready", "provider", provider.Name(), "max_output_tokens", cfg.MaxOutputTokens, "max_history_turns", cfg.MaxHistoryTurns)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: createRouter(cfg, sessions, m),
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Server listening at http://localhost:%d", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	log.Println("Server stopped.")
}
