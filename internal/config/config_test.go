package config

import (
	"flag"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParse_Defaults(t *testing.T) {
	t.Setenv("GEMINI_ENDPOINT", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Parse(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "ChatBot", cfg.BotName)
	assert.False(t, cfg.A2AEnabled)
	assert.Equal(t, 8000, cfg.A2APort)
	assert.Empty(t, cfg.GenAIBaseURL)
	assert.Empty(t, cfg.GenAISystemPrompt)
	assert.False(t, cfg.RelayConfigured())
}

func TestParse_Env(t *testing.T) {
	t.Setenv("GEMINI_ENDPOINT", "https://upstream.example.com/generate")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("A2A_ENABLED", "yes")
	t.Setenv("A2A_PORT", "not-a-number")

	cfg, err := Parse(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://upstream.example.com/generate", cfg.GeminiEndpoint)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.A2AEnabled)
	assert.Equal(t, 8000, cfg.A2APort)
	assert.True(t, cfg.RelayConfigured())
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")

	cfg, err := Parse(newFlagSet(), []string{"-listen-addr", ":7000", "-request-timeout", "3s"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestParse_GenAIOverrides(t *testing.T) {
	t.Setenv("GENAI_BASE_URL", "http://gemini.internal:9000")
	t.Setenv("GENAI_SYSTEM_PROMPT", "Answer in one sentence.")

	cfg, err := Parse(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "http://gemini.internal:9000", cfg.GenAIBaseURL)
	assert.Equal(t, "Answer in one sentence.", cfg.GenAISystemPrompt)

	cfg, err = Parse(newFlagSet(), []string{"-genai-base-url", "http://other:1", "-genai-system-prompt", "Be terse."})
	require.NoError(t, err)
	assert.Equal(t, "http://other:1", cfg.GenAIBaseURL)
	assert.Equal(t, "Be terse.", cfg.GenAISystemPrompt)
}

func TestParse_UnknownFlag(t *testing.T) {
	_, err := Parse(newFlagSet(), []string{"-nope"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	logger := cfg.NewLogger()
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	cfg = &Config{LogLevel: "bogus"}
	logger = cfg.NewLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelInfo))
}
