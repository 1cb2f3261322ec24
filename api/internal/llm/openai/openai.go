package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"docugenius/api/internal/llm"
)

const (
	DefaultModel       = "gpt-4o"
	DefaultMaxTokens   = 4000
	DefaultTemperature = 0.7
)

type Engine struct {
	Model       string
	MaxTokens   int
	Temperature float32

	client *goopenai.Client
}

type Option func(*goopenai.ClientConfig)

// WithBaseURL points the client at a compatible endpoint (proxies, tests).
func WithBaseURL(u string) Option {
	return func(c *goopenai.ClientConfig) {
		if u = strings.TrimSpace(u); u != "" {
			c.BaseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *goopenai.ClientConfig) {
		if h != nil {
			c.HTTPClient = h
		}
	}
}

func New(key, model string, opts ...Option) *Engine {
	cfg := goopenai.DefaultConfig(strings.TrimSpace(key))
	// no overall timeout: the request context bounds the call
	cfg.HTTPClient = &http.Client{Timeout: 0, Transport: http.DefaultTransport}
	for _, o := range opts {
		o(&cfg)
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Engine{
		Model:       strings.TrimSpace(model),
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		client:      goopenai.NewClientWithConfig(cfg),
	}
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Explain(ctx context.Context, req llm.Request) (string, error) {
	started := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   e.MaxTokens,
		Temperature: e.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai explain (%s): %w", time.Since(started).Round(time.Millisecond), err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai explain: %w", llm.ErrEmptyResponse)
	}
	// an empty answer is still structured (all fallbacks)
	return resp.Choices[0].Message.Content, nil
}
