// Package advisor orchestrates assistant conversations: first-contact
// greetings, intent classification, context assembly, model completion, and
// extraction of delimiter-fenced structured payloads from the reply.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/walletwise/walletwise/internal/intent"
	"github.com/walletwise/walletwise/internal/llm"
)

// ErrNoUserMessage indicates a non-first request whose history contains no
// user-authored message to respond to.
var ErrNoUserMessage = errors.New("no user message in conversation history")

// Request is one conversation turn from the client.
type Request struct {
	Messages       []llm.Message `json:"messages"`
	IsFirstMessage bool          `json:"isFirstMessage"`
}

// Result is the assistant's answer to one turn.
type Result struct {
	Reply    string
	Category intent.Category
	Payload  map[string]any
}

// Pipeline runs conversation turns for one assistant variant.
type Pipeline struct {
	classifier *intent.Classifier
	completer  llm.Completer
	variant    *Variant
	log        *slog.Logger
}

// NewPipeline creates a Pipeline for the given variant.
func NewPipeline(classifier *intent.Classifier, completer llm.Completer, variant *Variant, log *slog.Logger) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		completer:  completer,
		variant:    variant,
		log:        log.With("variant", variant.Name),
	}
}

// Respond handles one conversation turn. First contact (flagged by the
// client or an empty history) returns the variant greeting without touching
// the model. Otherwise the last user message is classified, any extra
// context for its category is assembled, and the full history is completed;
// the reply is scanned for a fenced structured payload.
func (p *Pipeline) Respond(ctx context.Context, req Request) (*Result, error) {
	if req.IsFirstMessage || len(req.Messages) == 0 {
		p.log.InfoContext(ctx, "First contact, returning greeting")
		return &Result{Reply: p.variant.Greeting(ctx)}, nil
	}

	userText, ok := LastUserMessage(req.Messages)
	if !ok {
		return nil, ErrNoUserMessage
	}

	start := time.Now()
	category := p.classifier.Classify(ctx, userText, p.variant.Set)

	messages := []llm.Message{{Role: llm.RoleSystem, Content: p.variant.SystemPrompt}}
	if extra := p.variant.ExtraContext(ctx, category, userText); extra != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: extra})
	}
	messages = append(messages, conversationHistory(req.Messages)...)

	raw, err := p.completer.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	reply, payload := raw, map[string]any(nil)
	if p.variant.Delimiter != "" {
		reply, payload = Extract(raw, p.variant.Delimiter)
	}

	p.log.InfoContext(ctx, "Turn completed",
		"category", string(category),
		"has_payload", payload != nil,
		"duration", time.Since(start).Round(time.Millisecond).String())

	return &Result{Reply: reply, Category: category, Payload: payload}, nil
}

// LastUserMessage returns the content of the most recent user-role message.
func LastUserMessage(messages []llm.Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}

// conversationHistory filters the client history to user and assistant
// messages, dropping any client-supplied system entries.
func conversationHistory(messages []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == llm.RoleUser || m.Role == llm.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}
