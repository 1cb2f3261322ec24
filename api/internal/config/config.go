package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrNoProvider = errors.New("no LLM provider configured: set OPENAI_API_KEY or GEMINI_API_KEY")

var defaultCORSOrigins = []string{
	"http://localhost:8501",
	"http://localhost:8502",
	"http://127.0.0.1:8501",
	"http://127.0.0.1:8502",
}

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	LLMProvider string
	LLMTimeout  time.Duration

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	OpenAIMaxTokens   int
	OpenAITemperature float32

	GeminiAPIKey      string
	GeminiModel       string
	GeminiMaxTokens   int
	GeminiTemperature float32

	CORSOrigins []string

	TelegramBotToken string
	WebhookURL       string
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if n, err := strconv.Atoi(getEnv(k, "")); err == nil && n > 0 {
		return n
	}
	return def
}

func getFloat32(k string, def float32) float32 {
	if f, err := strconv.ParseFloat(getEnv(k, ""), 32); err == nil && f >= 0 {
		return float32(f)
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(k, "")); err == nil && d > 0 {
		return d
	}
	return def
}

func getList(k string, def []string) []string {
	v := getEnv(k, "")
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the environment. A .env file in the working directory is applied
// first, without overriding variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", "gpt")),
		LLMTimeout:  getDuration("LLM_TIMEOUT", 70*time.Second),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIMaxTokens:   getInt("OPENAI_MAX_TOKENS", 4000),
		OpenAITemperature: getFloat32("OPENAI_TEMPERATURE", 0.7),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiMaxTokens:   getInt("GEMINI_MAX_TOKENS", 4000),
		GeminiTemperature: getFloat32("GEMINI_TEMPERATURE", 0.7),

		CORSOrigins: getList("CORS_ORIGINS", defaultCORSOrigins),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
}

// Validate reports configuration the services cannot start without.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
		return ErrNoProvider
	}
	return nil
}
