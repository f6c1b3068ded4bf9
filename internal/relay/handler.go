// Package relay implements POST /api/gemini: a stateless pass-through that
// forwards a prompt to the configured generative-AI endpoint and relays the
// upstream status and body back verbatim.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/zhengjr9/chat-relay/internal/errors"
	"github.com/zhengjr9/chat-relay/internal/metrics"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgMissingPrompt    = "Missing prompt in request body"
	msgInvalidJSON      = "Invalid JSON in request body"
	msgMisconfigured    = "GEMINI_ENDPOINT or GEMINI_API_KEY not configured"
)

// Handler serves the relay endpoint. It holds no per-request state.
type Handler struct {
	client   *Client
	endpoint string
	apiKey   string
	metrics  *metrics.Metrics
}

// NewHandler constructs a Handler. An empty endpoint or apiKey is allowed
// here; requests then fail as misconfigured.
func NewHandler(client *Client, endpoint, apiKey string, m *metrics.Metrics) *Handler {
	return &Handler{client: client, endpoint: endpoint, apiKey: apiKey, metrics: m}
}

// ServeHTTP handles /api/gemini for every method so non-POST requests get
// the relay's own 405 body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.validate(r)
	if err != nil {
		slog.Debug("rejecting relay request", "error", err)
		h.fail(w, err)
		return
	}

	start := time.Now()
	resp, err := h.client.Forward(r.Context(), h.endpoint, h.apiKey, req)
	h.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("error forwarding to upstream endpoint", "error", err)
		h.fail(w, err)
		return
	}

	h.metrics.RelayRequests.WithLabelValues(metrics.OutcomeRelayed).Inc()
	h.metrics.UpstreamBodies.WithLabelValues(resp.Body.Kind.String()).Inc()
	writeResponse(w, resp)
}

// validate checks the method, then the body, then the configuration.
func (h *Handler) validate(r *http.Request) (*Request, error) {
	if r.Method != http.MethodPost {
		return nil, apierrors.New(apierrors.ErrMethodNotAllowed, msgMethodNotAllowed)
	}
	req, err := decodeRequest(r.Body)
	if err != nil {
		return nil, err
	}
	if h.endpoint == "" || h.apiKey == "" {
		return nil, apierrors.New(apierrors.ErrMisconfigured, msgMisconfigured)
	}
	return req, nil
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.metrics.RelayRequests.WithLabelValues(outcomeOf(err)).Inc()
	apierrors.WriteJSONError(w, apierrors.StatusOf(err), apierrors.MessageOf(err))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, apierrors.ErrMethodNotAllowed):
		return metrics.OutcomeBadMethod
	case errors.Is(err, apierrors.ErrBadRequest):
		return metrics.OutcomeBadRequest
	case errors.Is(err, apierrors.ErrMisconfigured):
		return metrics.OutcomeMisconfig
	default:
		return metrics.OutcomeUpstreamFail
	}
}

// decodeRequest reads the body. An absent or empty body decodes to an empty
// Request. Only prompt is typed, so a type error always names it.
func decodeRequest(body io.Reader) (*Request, error) {
	var req Request
	if body != nil {
		err := json.NewDecoder(body).Decode(&req)
		var typeErr *json.UnmarshalTypeError
		switch {
		case err == nil, errors.Is(err, io.EOF):
		case errors.As(err, &typeErr):
			return nil, &apierrors.Error{
				Kind:    apierrors.ErrBadRequest,
				Message: fmt.Sprintf("Invalid %s in request body: expected a string", typeErr.Field),
				Cause:   err,
			}
		default:
			return nil, &apierrors.Error{Kind: apierrors.ErrBadRequest, Message: msgInvalidJSON, Cause: err}
		}
	}
	if req.Prompt == "" {
		return nil, apierrors.New(apierrors.ErrBadRequest, msgMissingPrompt)
	}
	return &req, nil
}

func writeResponse(w http.ResponseWriter, resp *Response) {
	w.Header().Set("Content-Type", resp.Body.ContentType())
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body.Bytes()); err != nil {
		slog.Warn("writing relayed body", "error", err)
	}
}
