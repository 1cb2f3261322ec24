package engines

import (
	"math"

	"docugenius/api/internal/config"
	"docugenius/api/internal/llm"
	"docugenius/api/internal/llm/gemini"
	"docugenius/api/internal/llm/openai"
)

// Build wires the providers that have credentials. Providers without a key
// stay nil so callers can report them as not configured.
func Build(cfg *config.Config) *llm.Engines {
	engs := &llm.Engines{Default: cfg.LLMProvider}

	if cfg.OpenAIAPIKey != "" {
		e := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, openai.WithBaseURL(cfg.OpenAIBaseURL))
		if cfg.OpenAIMaxTokens > 0 {
			e.MaxTokens = cfg.OpenAIMaxTokens
		}
		e.Temperature = cfg.OpenAITemperature
		engs.OpenAI = e
	}
	if cfg.GeminiAPIKey != "" {
		e := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
		if cfg.GeminiMaxTokens > 0 {
			e.MaxTokens = int32(min(cfg.GeminiMaxTokens, math.MaxInt32))
		}
		e.Temperature = cfg.GeminiTemperature
		engs.Gemini = e
	}
	return engs
}

// Default picks the engine new chats start with, or nil when none is set up.
func Default(engs *llm.Engines) llm.Engine {
	e, err := engs.GetEngine("")
	if err == nil {
		return e
	}
	if engs.OpenAI != nil {
		return engs.OpenAI
	}
	if engs.Gemini != nil {
		return engs.Gemini
	}
	return nil
}
