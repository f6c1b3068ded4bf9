// Package chatbot produces replies for the chat backend and the A2A agent.
package chatbot

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"
)

// Responder turns one user message into a reply.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

const emptyInputReply = "I didn't catch that. Could you please rephrase?"

// Suggestions are the prompts offered before a conversation starts.
var Suggestions = []string{
	"Help with Python errors",
	"Analyze my code",
	"Learning resources for web development",
	"Show me a code example",
	"Debugging tips",
	"Performance optimization",
	"Tell me about your features",
}

// Features lists what /api/chatbot-info advertises.
var Features = []string{
	"Problem solving (Python, Debugging, Performance, Web, Database)",
	"Code analysis and feedback",
	"Learning resources and tutorials",
	"Code examples and best practices",
	"Performance optimization tips",
	"Error diagnosis and solutions",
	"Open-ended answers through Gemini when configured",
}

// Bot answers programming-help topics first, then small-talk intents. Input
// that matches neither goes to the fallback Responder when one is set.
type Bot struct {
	name     string
	version  string
	fallback Responder
	now      func() time.Time
	pick     func(n int) int

	conversations  atomic.Int64
	problemsSolved atomic.Int64
}

type Option func(*Bot)

// WithFallback answers unmatched input with r instead of a canned reply.
func WithFallback(r Responder) Option {
	return func(b *Bot) { b.fallback = r }
}

// WithClock overrides the time source used by the time and date intents.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// WithPicker overrides how one reply is chosen among candidates.
func WithPicker(pick func(n int) int) Option {
	return func(b *Bot) { b.pick = pick }
}

func New(name, version string, opts ...Option) *Bot {
	b := &Bot{
		name:    name,
		version: version,
		now:     time.Now,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bot) Name() string    { return b.name }
func (b *Bot) Version() string { return b.version }

// Conversations counts non-empty messages answered since start.
func (b *Bot) Conversations() int64 { return b.conversations.Load() }

// ProblemsSolved counts messages answered by the problem solver.
func (b *Bot) ProblemsSolved() int64 { return b.problemsSolved.Load() }

// Respond never fails for the bot itself; a failing fallback degrades to a
// canned reply.
func (b *Bot) Respond(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyInputReply, nil
	}
	b.conversations.Add(1)

	if reply, ok := b.route(text); ok {
		return reply, nil
	}

	if in, ok := matchIntent(text); ok {
		return b.choose(in.responses(b)), nil
	}

	if b.fallback != nil {
		reply, err := b.fallback.Respond(ctx, text)
		if err == nil {
			return reply, nil
		}
		slog.Warn("fallback responder failed", "error", err)
	}
	return b.choose(defaultResponses), nil
}

func (b *Bot) choose(candidates []string) string {
	return candidates[b.pick(len(candidates))]
}
