package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini responder.
type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API host. Empty uses the SDK default.
	BaseURL string
	// SystemPrompt is sent as the system instruction when non-empty.
	SystemPrompt string
}

// Gemini answers through the Gemini generateContent API.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini responder: APIKey must not be empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini responder: Model must not be empty")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	var genCfg *genai.GenerateContentConfig
	if cfg.SystemPrompt != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(cfg.SystemPrompt, genai.RoleUser),
		}
	}
	return &Gemini{client: client, model: cfg.Model, config: genCfg}, nil
}

func (g *Gemini) Respond(ctx context.Context, text string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), g.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errors.New("gemini generate: empty response")
	}
	return out, nil
}
