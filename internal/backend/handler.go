// Package backend serves the chat API the terminal and browser clients talk
// to: /api/chat, /api/suggestions, /api/clear, /api/health and friends.
package backend

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zhengjr9/chat-relay/internal/chatbot"
	apierrors "github.com/zhengjr9/chat-relay/internal/errors"
	"github.com/zhengjr9/chat-relay/internal/history"
	"github.com/zhengjr9/chat-relay/internal/httputil"
	"github.com/zhengjr9/chat-relay/internal/metrics"
)

const defaultHistoryLimit = 50

// Bot is what the backend needs from the chatbot.
type Bot interface {
	chatbot.Responder
	Name() string
	Version() string
	Conversations() int64
	ProblemsSolved() int64
}

// Handler implements the chat backend endpoints.
type Handler struct {
	bot     Bot
	store   *history.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(bot Bot, store *history.Store, m *metrics.Metrics) *Handler {
	return &Handler{bot: bot, store: store, metrics: m, now: time.Now}
}

// Health serves GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.write(w, HealthResponse{
		Status:    statusSuccess,
		Message:   "Chatbot API is running",
		Timestamp: h.now(),
	})
}

// Chat serves POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.WriteStatusError(w, http.StatusBadRequest, "Message field is required")
		return
	}
	if req.Message == nil {
		apierrors.WriteStatusError(w, http.StatusBadRequest, "Message field is required")
		return
	}
	message := strings.TrimSpace(*req.Message)
	if message == "" {
		apierrors.WriteStatusError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	reply, err := h.bot.Respond(r.Context(), message)
	if err != nil {
		slog.Error("chat responder failed", "error", err)
		apierrors.WriteStatusError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entry := h.store.Append(message, reply)
	h.metrics.ChatMessages.Inc()
	h.write(w, ChatResponse{
		Status:      statusSuccess,
		UserMessage: message,
		BotResponse: reply,
		Timestamp:   entry.Timestamp,
	})
}

// History serves GET /api/history?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	h.write(w, HistoryResponse{
		Status:  statusSuccess,
		History: h.store.Last(limit),
		Total:   h.store.Len(),
	})
}

// Clear serves POST /api/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	h.metrics.HistoryClears.Inc()
	slog.Info("conversation history cleared")
	h.write(w, MessageResponse{Status: statusSuccess, Message: "Conversation history cleared"})
}

// Suggestions serves GET /api/suggestions.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	h.write(w, SuggestionsResponse{Status: statusSuccess, Suggestions: chatbot.Suggestions})
}

// Info serves GET /api/chatbot-info.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	h.write(w, InfoResponse{
		Status: statusSuccess,
		Info: Info{
			Name:          h.bot.Name(),
			Version:       h.bot.Version(),
			Features:      chatbot.Features,
			Domains:       chatbot.Domains,
			TotalMessages: h.bot.Conversations(),
		},
		Timestamp: h.now(),
	})
}

// Stats serves GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.write(w, StatsResponse{
		Status: statusSuccess,
		Stats: Stats{
			ChatbotName:        h.bot.Name(),
			ChatbotVersion:     h.bot.Version(),
			TotalConversations: h.bot.Conversations(),
			ProblemsSolved:     h.bot.ProblemsSolved(),
			AvailableDomains:   chatbot.Domains,
			HistorySize:        h.store.Len(),
		},
		Timestamp: h.now(),
	})
}

// NotFound answers unknown paths in the backend's error shape.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteStatusError(w, http.StatusNotFound, "Endpoint not found")
}

// MethodNotAllowed answers known paths hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteStatusError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *Handler) write(w http.ResponseWriter, body any) {
	if err := httputil.WriteJSON(w, http.StatusOK, body); err != nil {
		slog.Warn("writing response", "error", err)
	}
}
