package chatclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	Greeting         = "Hey! 👋 I'm ChatBot. How can I help you today?"
	ClearPrompt      = "Are you sure you want to clear the entire chat history?"
	clearFailedReply = "Failed to clear history. Please try again."
	apologyFormat    = "Sorry, I encountered an error: %s. Please try again later."
	healthWarning    = "⚠️ Unable to connect to the API. Please make sure the backend server is running on %s"
)

var (
	// ErrEmptyMessage is returned for input that is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy is returned when a submission is already awaiting its reply.
	ErrBusy = errors.New("a message is already being sent")
	// ErrStaleReply is returned when the reply arrived after the history was
	// cleared; it was dropped.
	ErrStaleReply = errors.New("reply discarded: conversation was cleared")
	// ErrNoSuggestion is returned by ChooseSuggestion for an index out of range.
	ErrNoSuggestion = errors.New("no such suggestion")
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one rendered chat bubble. Seq is the submission it belongs to.
type Message struct {
	ID   string
	Seq  uint64
	Role Role
	Text string
	At   time.Time
}

// View is a snapshot of everything the UI shows.
type View struct {
	Messages           []Message
	Suggestions        []string
	SuggestionsVisible bool
	Loading            bool
	InputEnabled       bool
	Input              string
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// SessionConfig holds a Session's collaborators.
type SessionConfig struct {
	// BackendURL is shown in the unreachable-backend warning.
	BackendURL string
	// Confirm gates ClearHistory. Nil confirms everything.
	Confirm Confirmer
	// OnChange, when set, receives a snapshot after every state change.
	OnChange func(View)
	Logger   *slog.Logger
	Now      func() time.Time
}

// Session owns one conversation. All methods are safe for concurrent use;
// at most one submission is in flight at a time.
type Session struct {
	api API
	cfg SessionConfig

	mu                 sync.Mutex
	messages           []Message
	suggestions        []string
	suggestionsVisible bool
	input              string
	loading            bool
	// seq is the latest submission number. Clearing also advances it so a
	// reply still in flight is recognised as stale.
	seq uint64
}

// NewSession starts a conversation holding only the greeting.
func NewSession(api API, cfg SessionConfig) *Session {
	if cfg.Confirm == nil {
		cfg.Confirm = ConfirmFunc(func(string) bool { return true })
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{api: api, cfg: cfg, suggestionsVisible: true}
	s.appendLocked(RoleBot, Greeting)
	return s
}

// Start runs the page-load sequence: health check, then suggestions.
func (s *Session) Start(ctx context.Context) {
	s.CheckAPIHealth(ctx)
	s.LoadSuggestions(ctx)
}

// SendMessage submits text and waits for the reply. Backend failures become
// an apology bubble and are not returned.
func (s *Session) SendMessage(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.seq++
	seq := s.seq
	s.suggestionsVisible = false
	s.input = ""
	s.appendLocked(RoleUser, text)
	s.loading = true
	s.mu.Unlock()
	s.notify()

	reply, err := s.api.Chat(ctx, text)
	if err != nil {
		s.cfg.Logger.Warn("chat request failed", "error", err)
		reply = fmt.Sprintf(apologyFormat, err.Error())
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return Message{}, ErrStaleReply
	}
	msg := s.appendLocked(RoleBot, reply)
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return msg, nil
}

// SetInput replaces the pending input text.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
	s.notify()
}

// ChooseSuggestion prefills the input with suggestion i and submits it.
func (s *Session) ChooseSuggestion(ctx context.Context, i int) (Message, error) {
	s.mu.Lock()
	if i < 0 || i >= len(s.suggestions) {
		s.mu.Unlock()
		return Message{}, ErrNoSuggestion
	}
	s.input = s.suggestions[i]
	text := s.input
	s.mu.Unlock()
	return s.SendMessage(ctx, text)
}

// LoadSuggestions replaces the suggestion set. Failures are only logged.
func (s *Session) LoadSuggestions(ctx context.Context) {
	suggestions, err := s.api.Suggestions(ctx)
	if err != nil {
		s.cfg.Logger.Warn("loading suggestions failed", "error", err)
		return
	}
	s.mu.Lock()
	s.suggestions = slices.Clone(suggestions)
	s.mu.Unlock()
	s.notify()
}

// ClearHistory asks for confirmation, clears the backend history and resets
// the conversation to the greeting. It reports whether the user confirmed.
func (s *Session) ClearHistory(ctx context.Context) bool {
	if !s.cfg.Confirm.Confirm(ClearPrompt) {
		return false
	}

	if err := s.api.Clear(ctx); err != nil {
		s.cfg.Logger.Warn("clearing history failed", "error", err)
		s.mu.Lock()
		s.appendLocked(RoleBot, clearFailedReply)
		s.mu.Unlock()
		s.notify()
		return true
	}

	s.mu.Lock()
	s.seq++
	s.messages = nil
	s.appendLocked(RoleBot, Greeting)
	s.loading = false
	s.suggestionsVisible = true
	s.mu.Unlock()
	s.notify()

	s.LoadSuggestions(ctx)
	return true
}

// CheckAPIHealth reports whether the backend is healthy, appending a warning
// when it is not.
func (s *Session) CheckAPIHealth(ctx context.Context) bool {
	if err := s.api.Health(ctx); err != nil {
		s.cfg.Logger.Warn("API health check failed", "error", err)
		s.mu.Lock()
		s.appendLocked(RoleBot, fmt.Sprintf(healthWarning, s.cfg.BackendURL))
		s.mu.Unlock()
		s.notify()
		return false
	}
	return true
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		Messages:           slices.Clone(s.messages),
		Suggestions:        slices.Clone(s.suggestions),
		SuggestionsVisible: s.suggestionsVisible,
		Loading:            s.loading,
		InputEnabled:       !s.loading,
		Input:              s.input,
	}
}

func (s *Session) appendLocked(role Role, text string) Message {
	m := Message{
		ID:   uuid.NewString(),
		Seq:  s.seq,
		Role: role,
		Text: text,
		At:   s.cfg.Now(),
	}
	s.messages = append(s.messages, m)
	return m
}

func (s *Session) notify() {
	if s.cfg.OnChange == nil {
		return
	}
	s.cfg.OnChange(s.View())
}
