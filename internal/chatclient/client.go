// Package chatclient is the chat front end: an API client for the chat
// backend, a Session that owns the conversation, and a terminal renderer.
package chatclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const statusSuccess = "success"

// API is the chat backend as the session sees it.
type API interface {
	Chat(ctx context.Context, message string) (string, error)
	Suggestions(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Health(ctx context.Context) error
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// APIError is a 2xx response whose status field is not "success".
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type envelope struct {
	Status      string   `json:"status"`
	Message     string   `json:"message,omitempty"`
	BotResponse string   `json:"bot_response,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Client talks to the chat backend over HTTP.
type Client struct {
	baseURL string
	r       *resty.Client
}

// NewClient builds a Client for baseURL, e.g. "http://localhost:8080/api".
// A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{baseURL: baseURL, r: r}
}

// BaseURL is the backend URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Chat posts the trimmed message and returns the bot's reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	out, err := c.do(ctx, c.r.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"message": strings.TrimSpace(message)}), resty.MethodPost, "/chat", "Failed to get response")
	if err != nil {
		return "", err
	}
	return out.BotResponse, nil
}

// Suggestions fetches the prefilled prompts.
func (c *Client) Suggestions(ctx context.Context) ([]string, error) {
	out, err := c.do(ctx, c.r.R(), resty.MethodGet, "/suggestions", "Failed to load suggestions")
	if err != nil {
		return nil, err
	}
	if out.Suggestions == nil {
		return nil, &APIError{Status: out.Status, Message: "no suggestions in response"}
	}
	return out.Suggestions, nil
}

// Clear asks the backend to drop its conversation history.
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.do(ctx, c.r.R().SetHeader("Content-Type", "application/json"), resty.MethodPost, "/clear", "Failed to clear history")
	return err
}

// Health reports nil when the backend answers with status "success".
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, c.r.R(), resty.MethodGet, "/health", "API is not healthy")
	return err
}

func (c *Client) do(ctx context.Context, req *resty.Request, method, path, fallback string) (*envelope, error) {
	var out envelope
	resp, err := req.SetContext(ctx).SetResult(&out).Execute(method, path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &HTTPError{StatusCode: resp.StatusCode()}
	}
	if out.Status != statusSuccess {
		msg := out.Message
		if msg == "" {
			msg = fallback
		}
		return nil, &APIError{Status: out.Status, Message: msg}
	}
	return &out, nil
}
