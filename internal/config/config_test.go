package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"agri-chat/internal/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 200, cfg.MaxOutputTokens)
	assert.Equal(t, 0, cfg.MaxHistoryTurns)
	assert.Equal(t, 1024, cfg.SessionCacheSize)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)

	opts, err := cfg.SessionOptions()
	require.NoError(t, err)
	assert.Equal(t, chat.DefaultPromptTemplate(), opts.Prompt)
	assert.Equal(t, 200, opts.MaxOutputTokens)
	assert.Equal(t, 0, opts.MaxTurns)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_MODEL", "mistral")
	t.Setenv("LLM_BASE_URL", "http://ollama:11434")
	t.Setenv("MAX_HISTORY_TURNS", "40")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://farm.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173", "https://farm.example.com"}, cfg.CORSAllowedOrigins)

	assert.Equal(t, 40, cfg.MaxHistoryTurns)

	llmCfg := cfg.LLMConfig()
	assert.Equal(t, "ollama", llmCfg.Provider)
	assert.Equal(t, "mistral", llmCfg.Model)
	assert.Equal(t, "http://ollama:11434", llmCfg.BaseURL)
}

func TestLoadConfigWarnsOnDefaultGeminiModel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	t.Setenv("API_KEY", "secret")
	_, err := LoadConfig()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "LLM_MODEL is not set")

	buf.Reset()
	t.Setenv("LLM_MODEL", "gemini-2.5-flash")
	_, err = LoadConfig()
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "LLM_MODEL is not set")
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Run("bad int", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("non positive output tokens", func(t *testing.T) {
		t.Setenv("MAX_OUTPUT_TOKENS", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("negative history", func(t *testing.T) {
		t.Setenv("MAX_HISTORY_TURNS", "-2")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestSessionOptionsPromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_prompt: You advise orchard growers.\n"), 0o644))

	t.Setenv("PROMPT_FILE", path)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	opts, err := cfg.SessionOptions()
	require.NoError(t, err)
	assert.Equal(t, "You advise orchard growers.", opts.Prompt.BasePrompt)
}
