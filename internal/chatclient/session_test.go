package chatclient

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengjr9/chat-relay/internal/testutil"
)

type fakeAPI struct {
	mu          sync.Mutex
	reply       string
	chatErr     error
	suggestions []string
	suggestErr  error
	clearErr    error
	healthErr   error
	gate        chan struct{}
	entered     chan struct{}
	sent        []string
	clears      int
}

func (f *fakeAPI) Chat(ctx context.Context, message string) (string, error) {
	f.mu.Lock()
	f.sent = append(f.sent, message)
	gate, entered := f.gate, f.entered
	reply, err := f.reply, f.chatErr
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}

func (f *fakeAPI) Suggestions(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.suggestions, f.suggestErr
}

func (f *fakeAPI) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return f.clearErr
}

func (f *fakeAPI) Health(context.Context) error {
	return f.healthErr
}

// hold makes the next Chat calls block until release is called.
func (f *fakeAPI) hold() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 4)
	gate := f.gate
	return f.entered, func() { close(gate) }
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

func newTestSession(api API, confirm bool) *Session {
	return NewSession(api, SessionConfig{
		BackendURL: "http://localhost:8080/api",
		Confirm:    ConfirmFunc(func(string) bool { return confirm }),
		Logger:     slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Now:        func() time.Time { return fixedNow },
	})
}

func texts(v View) []string {
	out := make([]string, len(v.Messages))
	for i, m := range v.Messages {
		out[i] = m.Text
	}
	return out
}

func TestSession_InitialState(t *testing.T) {
	s := newTestSession(&fakeAPI{}, true)
	v := s.View()

	require.Len(t, v.Messages, 1)
	assert.Equal(t, RoleBot, v.Messages[0].Role)
	assert.Equal(t, Greeting, v.Messages[0].Text)
	assert.True(t, v.SuggestionsVisible)
	assert.True(t, v.InputEnabled)
	assert.False(t, v.Loading)
}

func TestSession_SendMessageOrdering(t *testing.T) {
	api := &fakeAPI{reply: "Hello! I'm ChatBot."}
	s := newTestSession(api, true)
	entered, release := api.hold()

	done := make(chan Message, 1)
	go func() {
		msg, err := s.SendMessage(context.Background(), "  hi ")
		assert.NoError(t, err)
		done <- msg
	}()

	<-entered
	pending := s.View()
	assert.Equal(t, []string{Greeting, "hi"}, texts(pending))
	assert.Equal(t, RoleUser, pending.Messages[1].Role)
	assert.True(t, pending.Loading)
	assert.False(t, pending.InputEnabled)
	assert.False(t, pending.SuggestionsVisible)
	assert.Empty(t, pending.Input)

	release()
	msg := <-done
	assert.Equal(t, RoleBot, msg.Role)
	assert.Equal(t, "Hello! I'm ChatBot.", msg.Text)

	final := s.View()
	assert.Equal(t, []string{Greeting, "hi", "Hello! I'm ChatBot."}, texts(final))
	assert.Equal(t, final.Messages[1].Seq, final.Messages[2].Seq)
	assert.True(t, final.InputEnabled)
	assert.False(t, final.Loading)
	assert.Equal(t, []string{"hi"}, api.sent)
}

func TestSession_EmptyMessageIgnored(t *testing.T) {
	api := &fakeAPI{}
	s := newTestSession(api, true)

	_, err := s.SendMessage(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, s.View().Messages, 1)
	assert.Empty(t, api.sent)
}

func TestSession_BusyWhileAwaitingReply(t *testing.T) {
	api := &fakeAPI{reply: "first"}
	s := newTestSession(api, true)
	entered, release := api.hold()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.SendMessage(context.Background(), "one")
		assert.NoError(t, err)
	}()
	<-entered

	_, err := s.SendMessage(context.Background(), "two")
	assert.ErrorIs(t, err, ErrBusy)

	release()
	wg.Wait()
	assert.Equal(t, []string{Greeting, "one", "first"}, texts(s.View()))
	assert.Equal(t, []string{"one"}, api.sent)
}

func TestSession_ChatFailureApologises(t *testing.T) {
	api := &fakeAPI{chatErr: &HTTPError{StatusCode: 500}}
	s := newTestSession(api, true)

	msg, err := s.SendMessage(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I encountered an error: HTTP error! status: 500. Please try again later.", msg.Text)
	assert.True(t, s.View().InputEnabled)
}

func TestSession_ClearHistory(t *testing.T) {
	api := &fakeAPI{reply: "ok", suggestions: []string{"Hello!"}}
	s := newTestSession(api, true)
	ctx := context.Background()

	_, err := s.SendMessage(ctx, "hi")
	require.NoError(t, err)
	require.Len(t, s.View().Messages, 3)

	assert.True(t, s.ClearHistory(ctx))
	v := s.View()
	assert.Equal(t, []string{Greeting}, texts(v))
	assert.True(t, v.SuggestionsVisible)
	assert.Equal(t, []string{"Hello!"}, v.Suggestions)
	assert.Equal(t, 1, api.clears)
}

func TestSession_ClearDeclined(t *testing.T) {
	api := &fakeAPI{reply: "ok"}
	s := newTestSession(api, false)
	ctx := context.Background()

	_, err := s.SendMessage(ctx, "hi")
	require.NoError(t, err)
	before := s.View()

	assert.False(t, s.ClearHistory(ctx))
	assert.Equal(t, before, s.View())
	assert.Zero(t, api.clears)
}

func TestSession_ClearFailure(t *testing.T) {
	api := &fakeAPI{reply: "ok", clearErr: errors.New("boom")}
	s := newTestSession(api, true)
	ctx := context.Background()

	_, err := s.SendMessage(ctx, "hi")
	require.NoError(t, err)

	assert.True(t, s.ClearHistory(ctx))
	assert.Equal(t, []string{Greeting, "hi", "ok", clearFailedReply}, texts(s.View()))
}

func TestSession_ReplyAfterClearIsDropped(t *testing.T) {
	api := &fakeAPI{reply: "late"}
	s := newTestSession(api, true)
	entered, release := api.hold()

	errc := make(chan error, 1)
	go func() {
		_, err := s.SendMessage(context.Background(), "slow question")
		errc <- err
	}()
	<-entered

	require.True(t, s.ClearHistory(context.Background()))
	release()

	assert.ErrorIs(t, <-errc, ErrStaleReply)
	v := s.View()
	assert.Equal(t, []string{Greeting}, texts(v))
	assert.True(t, v.InputEnabled)
}

func TestSession_ChooseSuggestion(t *testing.T) {
	api := &fakeAPI{reply: "Why did the gopher cross the road?", suggestions: []string{"Hello!", "Tell me a joke"}}
	s := newTestSession(api, true)
	ctx := context.Background()

	s.LoadSuggestions(ctx)
	_, err := s.ChooseSuggestion(ctx, 5)
	assert.ErrorIs(t, err, ErrNoSuggestion)

	msg, err := s.ChooseSuggestion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Why did the gopher cross the road?", msg.Text)
	assert.Equal(t, []string{"Tell me a joke"}, api.sent)
	assert.False(t, s.View().SuggestionsVisible)
}

func TestSession_SuggestionsFailureIsSilent(t *testing.T) {
	api := &fakeAPI{suggestions: []string{"Hello!"}}
	s := newTestSession(api, true)
	ctx := context.Background()

	s.LoadSuggestions(ctx)
	api.suggestErr = errors.New("offline")
	s.LoadSuggestions(ctx)

	v := s.View()
	assert.Equal(t, []string{"Hello!"}, v.Suggestions)
	assert.Len(t, v.Messages, 1)
}

func TestSession_HealthWarning(t *testing.T) {
	s := newTestSession(&fakeAPI{healthErr: errors.New("connection refused")}, true)

	assert.False(t, s.CheckAPIHealth(context.Background()))
	v := s.View()
	require.Len(t, v.Messages, 2)
	assert.Equal(t,
		"⚠️ Unable to connect to the API. Please make sure the backend server is running on http://localhost:8080/api",
		v.Messages[1].Text)

	healthy := newTestSession(&fakeAPI{}, true)
	assert.True(t, healthy.CheckAPIHealth(context.Background()))
	assert.Len(t, healthy.View().Messages, 1)
}

func TestSession_OnChange(t *testing.T) {
	var views []View
	s := NewSession(&fakeAPI{reply: "ok"}, SessionConfig{
		OnChange: func(v View) { views = append(views, v) },
		Logger:   slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})

	s.SetInput("draft")
	_, err := s.SendMessage(context.Background(), "hi")
	require.NoError(t, err)

	require.Len(t, views, 3)
	assert.Equal(t, "draft", views[0].Input)
	assert.True(t, views[1].Loading)
	assert.False(t, views[2].Loading)
}

func TestSession_AgainstMockBackend(t *testing.T) {
	backend := testutil.NewMockBackend("Hi from the backend", []string{"Hello!", "What time is it?"})
	defer backend.Close()

	s := newTestSession(NewClient(backend.APIURL(), 5*time.Second), true)
	ctx := context.Background()
	s.Start(ctx)

	v := s.View()
	assert.Len(t, v.Messages, 1)
	assert.Equal(t, []string{"Hello!", "What time is it?"}, v.Suggestions)

	msg, err := s.SendMessage(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi from the backend", msg.Text)

	backend.FailWith("/api/chat", 503)
	msg, err = s.SendMessage(ctx, "again")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I encountered an error: HTTP error! status: 503. Please try again later.", msg.Text)
}
