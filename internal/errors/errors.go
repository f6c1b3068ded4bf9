package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrBadRequest       = errors.New("bad request")
	ErrMisconfigured    = errors.New("misconfigured")
	ErrUpstream         = errors.New("upstream error")
)

// Error is a classified failure. Message is what the caller is shown; Kind
// is one of the sentinels above and decides the status.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// New returns an Error of kind with a fixed caller-facing message.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies cause as kind and shows cause's own text to the caller.
func Wrap(kind, cause error) *Error {
	return &Error{Kind: kind, Message: cause.Error(), Cause: cause}
}

// MessageOf returns the caller-facing text of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// StatusOf maps an error kind to the HTTP status it is surfaced with.
// Unknown errors are internal errors.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type jsonError struct {
	Error string `json:"error"`
}

type statusError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteJSONError writes {"error": message} with the given status code.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, jsonError{Error: message})
}

// WriteStatusError writes {"status":"error","message": message}, the shape
// the chat backend uses for every failure.
func WriteStatusError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, statusError{Status: "error", Message: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
