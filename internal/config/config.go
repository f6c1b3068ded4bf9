package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	// Relay upstream. Both must be set for /api/gemini to forward anything;
	// the handler checks them per request.
	GeminiEndpoint   string
	GeminiAPIKey     string
	UpstreamProxyURL string
	RequestTimeout   time.Duration
	// Chat backend
	BotName     string
	BotVersion  string
	GenAIAPIKey string
	GenAIModel  string
	// Optional overrides for the fallback responder.
	GenAIBaseURL      string
	GenAISystemPrompt string
	AllowedOrigins    []string
	// Logging
	LogLevel  string
	LogFormat string
	// A2A
	A2AEnabled bool
	A2APort    int
	AgentName  string
	AgentDesc  string
}

// Load reads .env (when present), then flags whose defaults come from the
// environment. It exits on a flag parse error.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse(flag.NewFlagSet(os.Args[0], flag.ExitOnError), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// Parse registers every option on fs and parses args.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	fs.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("LISTEN_ADDR", ":8080"), "HTTP listen address")
	fs.StringVar(&cfg.GeminiEndpoint, "gemini-endpoint", getEnv("GEMINI_ENDPOINT", ""), "Upstream endpoint the /api/gemini relay forwards to")
	fs.StringVar(&cfg.GeminiAPIKey, "gemini-api-key", getEnv("GEMINI_API_KEY", ""), "Bearer key sent to the relay upstream")
	fs.StringVar(&cfg.UpstreamProxyURL, "upstream-proxy-url", getEnv("UPSTREAM_PROXY_URL", ""), "HTTP/HTTPS proxy URL for upstream requests (e.g. http://proxy:8080)")

	timeoutStr := getEnv("REQUEST_TIMEOUT", "120s")
	defaultTimeout, _ := time.ParseDuration(timeoutStr)
	if defaultTimeout == 0 {
		defaultTimeout = 120 * time.Second
	}
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", defaultTimeout, "Upstream round-trip timeout")

	fs.StringVar(&cfg.BotName, "bot-name", getEnv("BOT_NAME", "ChatBot"), "Name the chatbot introduces itself with")
	fs.StringVar(&cfg.BotVersion, "bot-version", getEnv("BOT_VERSION", "2.0"), "Version reported by /api/chatbot-info")
	fs.StringVar(&cfg.GenAIAPIKey, "genai-api-key", getEnv("GOOGLE_API_KEY", ""), "Gemini API key for the chatbot fallback responder (optional)")
	fs.StringVar(&cfg.GenAIModel, "genai-model", getEnv("GENAI_MODEL", "gemini-2.5-flash"), "Gemini model for the chatbot fallback responder")
	fs.StringVar(&cfg.GenAIBaseURL, "genai-base-url", getEnv("GENAI_BASE_URL", ""), "Gemini API base URL override for the chatbot fallback responder")
	fs.StringVar(&cfg.GenAISystemPrompt, "genai-system-prompt", getEnv("GENAI_SYSTEM_PROMPT", ""), "System instruction sent with every fallback request")
	origins := fs.String("cors-allowed-origins", getEnv("CORS_ALLOWED_ORIGINS", "*"), "Comma-separated CORS origins")

	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")

	fs.BoolVar(&cfg.A2AEnabled, "a2a", getEnvBool("A2A_ENABLED", false), "Enable A2A server alongside the HTTP API")
	fs.IntVar(&cfg.A2APort, "a2a-port", getEnvInt("A2A_PORT", 8000), "A2A server listen port")
	fs.StringVar(&cfg.AgentName, "agent-name", getEnv("AGENT_NAME", "chatbot"), "A2A AgentCard name")
	fs.StringVar(&cfg.AgentDesc, "agent-desc", getEnv("AGENT_DESC", "Rule-based chatbot exposed via A2A protocol"), "A2A AgentCard description")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = splitList(*origins)
	return cfg, nil
}

// RelayConfigured reports whether the relay has both required values.
func (c *Config) RelayConfigured() bool {
	return c.GeminiEndpoint != "" && c.GeminiAPIKey != ""
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	switch v {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
