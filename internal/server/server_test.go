package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengjr9/chat-relay/internal/chatbot"
	"github.com/zhengjr9/chat-relay/internal/config"
	"github.com/zhengjr9/chat-relay/internal/metrics"
	"github.com/zhengjr9/chat-relay/internal/testutil"
)

const testAPIKey = "test-api-key-12345"

func newTestServer(t *testing.T, upstreamURL string) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		ListenAddr:     ":0",
		GeminiEndpoint: upstreamURL,
		GeminiAPIKey:   testAPIKey,
		RequestTimeout: 10 * time.Second,
		AllowedOrigins: []string{"*"},
	}
	bot := chatbot.New("ChatBot", "2.0", chatbot.WithPicker(func(int) int { return 0 }))
	srv := New(cfg, bot, metrics.New())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func send(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestServer_RelayThroughRouter(t *testing.T) {
	mock := testutil.NewMockUpstream(http.StatusOK, `{"text":"hello"}`)
	defer mock.Close()
	ts := newTestServer(t, mock.URL())

	resp, body := send(t, http.MethodPost, ts.URL+"/api/gemini", `{"prompt":"Say hello"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"text":"hello"}`, body)
	assert.Equal(t, "Bearer "+testAPIKey, mock.LastHeader().Get("Authorization"))

	resp, body = send(t, http.MethodGet, ts.URL+"/api/gemini", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, body)
}

func TestServer_ChatRoundTrip(t *testing.T) {
	ts := newTestServer(t, "")

	resp, body := send(t, http.MethodPost, ts.URL+"/api/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var chat map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &chat))
	assert.Equal(t, "success", chat["status"])
	assert.Equal(t, "Hello! I'm ChatBot. How can I help you today?", chat["bot_response"])

	_, body = send(t, http.MethodGet, ts.URL+"/api/history", "")
	assert.Contains(t, body, `"total":1`)

	_, _ = send(t, http.MethodPost, ts.URL+"/api/clear", "")
	_, body = send(t, http.MethodGet, ts.URL+"/api/history", "")
	assert.Contains(t, body, `"total":0`)
}

func TestServer_RelayMisconfigured(t *testing.T) {
	ts := newTestServer(t, "")

	resp, body := send(t, http.MethodPost, ts.URL+"/api/gemini", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "not configured")
}

func TestServer_NotFoundAndMethodMismatch(t *testing.T) {
	ts := newTestServer(t, "")

	resp, body := send(t, http.MethodGet, ts.URL+"/api/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"status":"error","message":"Endpoint not found"}`, body)

	resp, _ = send(t, http.MethodGet, ts.URL+"/api/chat", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_CORS(t *testing.T) {
	ts := newTestServer(t, "")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	mock := testutil.NewMockUpstream(http.StatusOK, "plain text")
	defer mock.Close()
	ts := newTestServer(t, mock.URL())

	_, _ = send(t, http.MethodPost, ts.URL+"/api/gemini", `{"prompt":"hi"}`)
	_, _ = send(t, http.MethodPost, ts.URL+"/api/chat", `{"message":"hi"}`)

	resp, body := send(t, http.MethodGet, ts.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `relay_requests_total{outcome="relayed"} 1`)
	assert.Contains(t, body, `relay_upstream_bodies_total{kind="text"} 1`)
	assert.Contains(t, body, `chat_messages_total 1`)
}
