package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"docugenius/api/internal/llm"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultMaxTokens   = 4000
	DefaultTemperature = 0.7

	maxAttempts = 3
	retryBase   = 300 * time.Millisecond
)

type Engine struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32

	opts      []option.ClientOption
	retryBase time.Duration
}

// New builds an engine. Extra client options are appended after the API key,
// so an endpoint override can be passed in.
func New(apiKey, model string, opts ...option.ClientOption) *Engine {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Engine{
		APIKey:      strings.TrimSpace(apiKey),
		Model:       strings.TrimSpace(model),
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		opts:        opts,
		retryBase:   retryBase,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Explain(ctx context.Context, req llm.Request) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.opts...)...)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(e.Temperature),
		MaxOutputTokens: ptrInt32(e.MaxTokens),
	}
	if s := strings.TrimSpace(req.System); s != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(s)}}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := m.GenerateContent(ctx, genai.Text(req.User))
		if err == nil {
			if resp == nil || len(resp.Candidates) == 0 {
				return "", fmt.Errorf("gemini explain: %w", llm.ErrEmptyResponse)
			}
			return firstText(resp), nil
		}
		lastErr = err
		if attempt == maxAttempts || !retryable(err) || ctx.Err() != nil {
			break
		}
		t := time.NewTimer(time.Duration(attempt) * e.retryBase)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", fmt.Errorf("gemini explain: %w", lastErr)
		case <-t.C:
		}
	}
	return "", fmt.Errorf("gemini explain: %w", lastErr)
}

// retryable reports 5xx, 429 and transport failures. Other API errors
// (auth, invalid argument) fail the same way on every attempt.
func retryable(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code >= 500 || gerr.Code == http.StatusTooManyRequests
	}
	return true
}

// firstText concatenates the text parts of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
