package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockUpstream is an httptest.Server that stands in for the generative-AI
// endpoint the relay forwards to. It replies with a fixed status and body.
type MockUpstream struct {
	Server *httptest.Server

	StatusCode  int
	Body        string
	ContentType string

	mu          sync.Mutex
	calls       int
	lastBody    map[string]any
	lastRawBody []byte
	lastHeader  http.Header
	lastMethod  string
}

// NewMockUpstream creates and starts a mock upstream replying with
// statusCode and body.
func NewMockUpstream(statusCode int, body string) *MockUpstream {
	m := &MockUpstream{StatusCode: statusCode, Body: body}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.Server.Close()
}

// URL returns the base URL of the mock server.
func (m *MockUpstream) URL() string {
	return m.Server.URL
}

// Calls is the number of requests received.
func (m *MockUpstream) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest is the most recent request body decoded as a JSON object,
// or nil if it was not one.
func (m *MockUpstream) LastRequest() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBody
}

// LastRawBody is the most recent request body as received.
func (m *MockUpstream) LastRawBody() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRawBody
}

// LastHeader is the header set of the most recent request.
func (m *MockUpstream) LastHeader() http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHeader
}

// LastMethod is the method of the most recent request.
func (m *MockUpstream) LastMethod() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMethod
}

func (m *MockUpstream) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		body = nil
	}

	m.mu.Lock()
	m.calls++
	m.lastRawBody = raw
	m.lastBody = body
	m.lastHeader = r.Header.Clone()
	m.lastMethod = r.Method
	m.mu.Unlock()

	if m.ContentType != "" {
		w.Header().Set("Content-Type", m.ContentType)
	}
	w.WriteHeader(m.StatusCode)
	_, _ = io.WriteString(w, m.Body)
}

// ClosedURL returns the URL of a server that has already been shut down, so
// connecting to it fails.
func ClosedURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
