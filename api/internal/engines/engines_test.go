package engines

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docugenius/api/internal/config"
	"docugenius/api/internal/llm/gemini"
	"docugenius/api/internal/llm/openai"
)

func TestBuildOnlyKeyedProviders(t *testing.T) {
	engs := Build(&config.Config{LLMProvider: "gpt", GeminiAPIKey: "g", GeminiModel: "gemini-x", GeminiMaxTokens: 1000, GeminiTemperature: 0.2, OpenAIMaxTokens: 9, OpenAITemperature: 0.9})

	assert.Nil(t, engs.OpenAI)
	require.NotNil(t, engs.Gemini)
	g := engs.Gemini.(*gemini.Engine)
	assert.Equal(t, "gemini-x", g.Model)
	assert.Equal(t, int32(1000), g.MaxTokens)
	assert.Equal(t, float32(0.2), g.Temperature)
	assert.Equal(t, []string{"gemini"}, engs.Available())

	// default provider has no key, so the other one is used
	assert.Same(t, g, Default(engs).(*gemini.Engine))
}

func TestBuildOpenAI(t *testing.T) {
	engs := Build(&config.Config{LLMProvider: "gemini", OpenAIAPIKey: "k", OpenAIModel: "gpt-4o-mini", OpenAIMaxTokens: 256, OpenAITemperature: 0.7})

	require.NotNil(t, engs.OpenAI)
	o := engs.OpenAI.(*openai.Engine)
	assert.Equal(t, "gpt-4o-mini", o.Model)
	assert.Equal(t, 256, o.MaxTokens)
	assert.Nil(t, engs.Gemini)
	assert.Equal(t, engs.OpenAI, Default(engs))
}

func TestDefaultWithoutProviders(t *testing.T) {
	assert.Nil(t, Default(Build(&config.Config{LLMProvider: "gpt"})))
}

func TestBuildGeminiMaxTokensClamped(t *testing.T) {
	engs := Build(&config.Config{GeminiAPIKey: "g", GeminiMaxTokens: int(^uint(0) >> 1)})

	g := engs.Gemini.(*gemini.Engine)
	assert.Equal(t, int32(math.MaxInt32), g.MaxTokens)
}
