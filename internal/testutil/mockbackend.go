package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockBackend is an httptest.Server that simulates the chat backend's
// /api/chat, /api/suggestions, /api/clear and /api/health endpoints.
type MockBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	reply       string
	suggestions []string
	// failStatus maps a path to the HTTP status it fails with.
	failStatus map[string]int
	// errorMessage maps a path to a {"status":"error"} reply with that message.
	errorMessage map[string]string
	chatGate     chan struct{}
	messages     []string
	clears       int
}

// NewMockBackend creates and starts a mock backend answering every chat
// message with reply.
func NewMockBackend(reply string, suggestions []string) *MockBackend {
	m := &MockBackend{
		reply:        reply,
		suggestions:  suggestions,
		failStatus:   map[string]int{},
		errorMessage: map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", m.chat)
	mux.HandleFunc("GET /api/suggestions", m.suggest)
	mux.HandleFunc("POST /api/clear", m.clear)
	mux.HandleFunc("GET /api/health", m.health)
	m.Server = httptest.NewServer(m.guard(mux))
	return m
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.Server.Close()
}

// APIURL returns the base URL clients are configured with.
func (m *MockBackend) APIURL() string {
	return m.Server.URL + "/api"
}

// FailWith makes path answer with an HTTP error status.
func (m *MockBackend) FailWith(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStatus[path] = status
}

// RejectWith makes path answer 200 with {"status":"error","message":message}.
func (m *MockBackend) RejectWith(path, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMessage[path] = message
}

// SetSuggestions replaces the suggestions served from now on.
func (m *MockBackend) SetSuggestions(s []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestions = s
}

// HoldChat makes /api/chat block until the returned channel is closed.
func (m *MockBackend) HoldChat() chan struct{} {
	gate := make(chan struct{})
	m.mu.Lock()
	m.chatGate = gate
	m.mu.Unlock()
	return gate
}

// Messages returns every chat message received, in order.
func (m *MockBackend) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// Clears is the number of /api/clear calls that succeeded.
func (m *MockBackend) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

func (m *MockBackend) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		status, failing := m.failStatus[r.URL.Path]
		msg, rejecting := m.errorMessage[r.URL.Path]
		m.mu.Unlock()

		switch {
		case failing:
			writeJSON(w, status, map[string]any{"status": "error", "message": http.StatusText(status)})
		case rejecting:
			writeJSON(w, http.StatusOK, map[string]any{"status": "error", "message": msg})
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (m *MockBackend) chat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "Message field is required"})
		return
	}

	m.mu.Lock()
	m.messages = append(m.messages, body.Message)
	gate := m.chatGate
	reply := m.reply
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"user_message": body.Message,
		"bot_response": reply,
	})
}

func (m *MockBackend) suggest(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	s := m.suggestions
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "suggestions": s})
}

func (m *MockBackend) clear(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	m.clears++
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Conversation history cleared"})
}

func (m *MockBackend) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Chatbot API is running"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
