package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/volcengine/veadk-go/apps"
	"github.com/volcengine/veadk-go/apps/a2a_app"
	"google.golang.org/adk/agent"

	"github.com/zhengjr9/chat-relay/internal/a2a"
	"github.com/zhengjr9/chat-relay/internal/chatbot"
	"github.com/zhengjr9/chat-relay/internal/config"
	"github.com/zhengjr9/chat-relay/internal/httputil"
	"github.com/zhengjr9/chat-relay/internal/metrics"
	"github.com/zhengjr9/chat-relay/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	slog.SetDefault(cfg.NewLogger())

	slog.Info("starting chat-relay",
		"listen", cfg.ListenAddr,
		"relay_configured", cfg.RelayConfigured(),
		"gemini_fallback", cfg.GenAIAPIKey != "",
		"a2a_enabled", cfg.A2AEnabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot := newBot(ctx, cfg)

	srv := server.New(cfg, bot, metrics.New())
	httpErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	a2aErr := make(chan error, 1)
	if cfg.A2AEnabled {
		chatAgent, err := a2a.New(a2a.AgentConfig{
			Name:        cfg.AgentName,
			Description: cfg.AgentDesc,
			Responder:   bot,
		})
		if err != nil {
			slog.Error("failed to create A2A agent", "error", err)
			os.Exit(1)
		}

		slog.Info("starting A2A server", "port", cfg.A2APort, "agent_name", cfg.AgentName)

		inner := a2a_app.NewAgentkitA2AServerApp(
			apps.DefaultApiConfig().SetPort(cfg.A2APort),
		)
		wrapped := &loggingApp{BasicApp: inner}

		go func() {
			if err := wrapped.Run(ctx, &apps.RunConfig{
				AgentLoader: agent.NewSingleLoader(chatAgent),
			}); err != nil {
				a2aErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	case err := <-httpErr:
		slog.Error("http server error", "error", err)
		os.Exit(1)
	case err := <-a2aErr:
		slog.Error("A2A server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newBot builds the intent bot. With GOOGLE_API_KEY set, unmatched input is
// answered by Gemini.
func newBot(ctx context.Context, cfg *config.Config) *chatbot.Bot {
	var opts []chatbot.Option
	if cfg.GenAIAPIKey != "" {
		gemini, err := chatbot.NewGemini(ctx, chatbot.GeminiConfig{
			APIKey:       cfg.GenAIAPIKey,
			Model:        cfg.GenAIModel,
			BaseURL:      cfg.GenAIBaseURL,
			SystemPrompt: cfg.GenAISystemPrompt,
		})
		if err != nil {
			slog.Warn("gemini fallback disabled", "error", err)
		} else {
			opts = append(opts, chatbot.WithFallback(gemini))
		}
	}
	return chatbot.New(cfg.BotName, cfg.BotVersion, opts...)
}

// loggingApp wraps a BasicApp so A2A traffic goes through the same request
// logging as the HTTP server.
type loggingApp struct {
	apps.BasicApp
}

// Run passes w itself to apps.Run. The embedded Run would pass the inner app,
// and the SetupRouters override below would never be called.
func (w *loggingApp) Run(ctx context.Context, config *apps.RunConfig) error {
	return apps.Run(ctx, config, w)
}

func (w *loggingApp) SetupRouters(router *mux.Router, config *apps.RunConfig) error {
	if err := w.BasicApp.SetupRouters(router, config); err != nil {
		return err
	}
	router.Use(httputil.Logging, httputil.Recovery)
	return nil
}
