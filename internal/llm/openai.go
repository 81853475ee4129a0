package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/walletwise/walletwise/internal/config"
)

// openAIClient implements Client against any OpenAI-compatible chat
// completions endpoint. The configured base URL may point at a gateway
// rather than OpenAI itself.
type openAIClient struct {
	client          *gopenai.Client
	model           string
	transcribeModel string
	temperature     float32
	timeout         time.Duration
	log             *slog.Logger
}

// apiKeyTransport injects the gateway's api-key header into every request.
// Some OpenAI-compatible gateways authenticate with this header instead of
// (or in addition to) the standard bearer token.
type apiKeyTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("api-key", t.apiKey)
	return t.base.RoundTrip(clone)
}

func newOpenAIClient(cfg config.LLMConfig, log *slog.Logger) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("LLM API key is required")
	}

	clientConfig := gopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &apiKeyTransport{apiKey: cfg.APIKey, base: http.DefaultTransport},
	}

	return &openAIClient{
		client:          gopenai.NewClientWithConfig(clientConfig),
		model:           cfg.Model,
		transcribeModel: cfg.TranscribeModel,
		temperature:     cfg.Temperature,
		timeout:         cfg.Timeout,
		log:             log.With("component", "openai_client"),
	}, nil
}

// Complete sends the messages to the chat completions endpoint and returns
// the generated reply text.
func (c *openAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	startTime := time.Now()
	c.log.DebugContext(ctx, "Sending chat completion request", "message_count", len(messages))

	chatMessages := make([]gopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, gopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(timeoutCtx, gopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}

	c.log.DebugContext(ctx, "Chat completion received",
		"duration_ms", time.Since(startTime).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)

	return resp.Choices[0].Message.Content, nil
}

// Transcribe sends the audio to the transcription endpoint. The bytes are
// handed over as an in-memory webm file, matching what browser recorders
// produce.
func (c *openAIClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio payload")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateTranscription(timeoutCtx, gopenai.AudioRequest{
		Model:    c.transcribeModel,
		FilePath: "audio.webm",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return resp.Text, nil
}
