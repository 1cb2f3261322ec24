package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrUnknownEngine = errors.New("unknown llm_name; use 'gpt' or 'gemini'")
	ErrNotConfigured = errors.New("llm engine is not configured")
	ErrEmptyResponse = errors.New("llm returned an empty response")
)

// Request is one prompt pair sent to a model.
type Request struct {
	System string
	User   string
}

type Engine interface {
	Name() string
	GetModel() string
	Explain(ctx context.Context, req Request) (string, error)
}

// Label is how an engine is named in user-facing messages.
func Label(e Engine) string {
	if m := strings.TrimSpace(e.GetModel()); m != "" {
		return e.Name() + " " + m
	}
	return e.Name()
}

// Engines holds the configured providers. A nil field means the provider has
// no credentials.
type Engines struct {
	OpenAI  Engine
	Gemini  Engine
	Default string
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(llmName))
	if name == "" {
		name = strings.ToLower(e.Default)
	}
	var eng Engine
	switch name {
	case "gpt", "openai":
		eng = e.OpenAI
	case "gemini":
		eng = e.Gemini
	case "":
		// no default configured: take whatever is available
		if e.OpenAI != nil {
			return e.OpenAI, nil
		}
		eng = e.Gemini
	default:
		return nil, ErrUnknownEngine
	}
	if eng == nil {
		return nil, ErrNotConfigured
	}
	return eng, nil
}

// Available lists the names of configured engines.
func (e *Engines) Available() []string {
	var out []string
	if e.OpenAI != nil {
		out = append(out, e.OpenAI.Name())
	}
	if e.Gemini != nil {
		out = append(out, e.Gemini.Name())
	}
	return out
}

// Manager keeps a per-chat engine choice on top of a default.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
