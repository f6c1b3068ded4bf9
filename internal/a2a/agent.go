package a2a

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/zhengjr9/chat-relay/internal/chatbot"
)

const emptyInputReply = "(empty input)"

// AgentConfig holds the configuration for the chatbot-backed A2A agent.
type AgentConfig struct {
	// Name is the agent name exposed via A2A AgentCard.
	Name string
	// Description is exposed via A2A AgentCard.
	Description string
	// Responder produces the reply for each incoming message.
	Responder chatbot.Responder
}

// New returns an agent.Agent that answers each A2A message with one reply
// from the configured Responder.
func New(cfg AgentConfig) (agent.Agent, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("a2a agent: Name must not be empty")
	}
	if cfg.Responder == nil {
		return nil, fmt.Errorf("a2a agent: Responder must not be nil")
	}

	return agent.New(agent.Config{
		Name:        cfg.Name,
		Description: cfg.Description,
		Run:         runFunc(cfg),
	})
}

func runFunc(cfg AgentConfig) func(agent.InvocationContext) iter.Seq2[*session.Event, error] {
	return func(ctx agent.InvocationContext) iter.Seq2[*session.Event, error] {
		return func(yield func(*session.Event, error) bool) {
			text, err := reply(ctx, cfg.Responder, ctx.UserContent())
			if err != nil {
				yield(nil, err)
				return
			}

			// A single non-partial event makes IsFinalResponse() true so the
			// runner closes the invocation.
			ev := session.NewEvent(ctx.InvocationID())
			ev.Author = cfg.Name
			ev.Branch = ctx.Branch()
			ev.LLMResponse = model.LLMResponse{
				Content: textContent(text),
			}
			yield(ev, nil)
		}
	}
}

func reply(ctx context.Context, r chatbot.Responder, content *genai.Content) (string, error) {
	query := extractQuery(content)
	if query == "" {
		return emptyInputReply, nil
	}
	text, err := r.Respond(ctx, query)
	if err != nil {
		return "", fmt.Errorf("chatbot reply failed: %w", err)
	}
	slog.Debug("a2a reply", "query_len", len(query), "reply_len", len(text))
	return text, nil
}

// extractQuery pulls the plain-text content from the genai.Content that ADK
// puts in the InvocationContext when the caller sends a message.
func extractQuery(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

func textContent(text string) *genai.Content {
	return &genai.Content{
		Role:  genai.RoleModel,
		Parts: []*genai.Part{{Text: text}},
	}
}
