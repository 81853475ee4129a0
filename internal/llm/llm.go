// Package llm provides interfaces and implementations for interacting with
// different completion-provider backends.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/walletwise/walletwise/internal/config"
)

// Message roles understood by the completion providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer generates a reply for an ordered list of conversation messages.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Transcriber converts raw audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Client is the full completion-provider surface used by the application.
// The client and its credentials are constructed once at startup and are
// read-only afterwards, so a single instance is safe for concurrent use.
type Client interface {
	Completer
	Transcriber
}

// NewClient creates and returns a Client based on the provided configuration.
// It acts as a factory, selecting either the OpenAI-compatible or the Gemini
// implementation.
func NewClient(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (Client, error) {
	log.Info("Initializing LLM client", "backend", cfg.Backend, "model", cfg.Model)

	switch cfg.Backend {
	case "openai":
		client, err := newOpenAIClient(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, nil
	case "gemini":
		client, err := newGeminiClient(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM backend specified: %s", cfg.Backend)
	}
}
