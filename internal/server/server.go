package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhengjr9/chat-relay/internal/backend"
	"github.com/zhengjr9/chat-relay/internal/config"
	"github.com/zhengjr9/chat-relay/internal/history"
	"github.com/zhengjr9/chat-relay/internal/httputil"
	"github.com/zhengjr9/chat-relay/internal/metrics"
	"github.com/zhengjr9/chat-relay/internal/relay"
)

// Server serves the relay endpoint and the chat backend on one listener.
type Server struct {
	httpServer *http.Server
}

// New constructs a Server from the given config. bot answers /api/chat.
func New(cfg *config.Config, bot backend.Bot, m *metrics.Metrics) *Server {
	client := relay.NewClient(cfg.RequestTimeout, cfg.UpstreamProxyURL)
	relayHandler := relay.NewHandler(client, cfg.GeminiEndpoint, cfg.GeminiAPIKey, m)
	chat := backend.NewHandler(bot, history.NewStore(), m)

	r := mux.NewRouter()

	// The relay answers every method itself so non-POST gets its 405 body.
	r.Handle("/api/gemini", relayHandler)

	r.HandleFunc("/api/health", chat.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/chat", chat.Chat).Methods(http.MethodPost)
	r.HandleFunc("/api/history", chat.History).Methods(http.MethodGet)
	r.HandleFunc("/api/clear", chat.Clear).Methods(http.MethodPost)
	r.HandleFunc("/api/suggestions", chat.Suggestions).Methods(http.MethodGet)
	r.HandleFunc("/api/chatbot-info", chat.Info).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", chat.Stats).Methods(http.MethodGet)

	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(chat.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(chat.MethodNotAllowed)

	var handler http.Handler = r
	handler = httputil.CORS(cfg.AllowedOrigins)(handler)
	handler = httputil.Logging(handler)
	handler = httputil.Recovery(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: cfg.RequestTimeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the underlying http.Handler (for use in tests with httptest.NewServer).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
