package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	apierrors "github.com/zhengjr9/chat-relay/internal/errors"
)

// Client sends prompts to the configured upstream endpoint.
type Client struct {
	httpClient *http.Client
}

// NewClient constructs a Client with the given timeout and optional proxy URL.
// An empty or unparsable proxyURL uses the environment proxy.
func NewClient(timeout time.Duration, proxyURL string) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			slog.Warn("ignoring invalid upstream proxy URL, using environment proxy", "proxy_url", proxyURL, "error", err)
		} else {
			transport.Proxy = http.ProxyURL(parsed)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Forward issues a single POST to endpoint with bearer auth and returns the
// upstream status and body whatever the status is. Only transport failures
// are errors; they are apierrors.ErrUpstream and carry the cause's text.
func (c *Client) Forward(ctx context.Context, endpoint, apiKey string, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apierrors.Wrap(apierrors.ErrUpstream, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.ErrUpstream, fmt.Errorf("read upstream body: %w", err))
	}
	return &Response{StatusCode: resp.StatusCode, Body: ClassifyBody(raw)}, nil
}
