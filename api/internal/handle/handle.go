package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"docugenius/api/internal/llm"
	"docugenius/api/internal/metrics"
	"docugenius/api/internal/structure"
)

const (
	Version     = "2.0.0"
	ServiceName = "DocuGenius API"
	Description = "AI-Powered Technical Documentation Generator"

	defaultTimeout = 70 * time.Second
	maxBodyBytes   = 1 << 20
)

type Handle struct {
	engs     *llm.Engines
	asm      *structure.Assembler
	log      *zap.Logger
	metrics  *metrics.Ask
	validate *validator.Validate
	timeout  time.Duration
}

type Option func(*Handle)

func WithLogger(l *zap.Logger) Option {
	return func(h *Handle) {
		if l != nil {
			h.log = l
		}
	}
}

func WithMetrics(m *metrics.Ask) Option {
	return func(h *Handle) { h.metrics = m }
}

// WithTimeout bounds each upstream LLM call.
func WithTimeout(d time.Duration) Option {
	return func(h *Handle) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func New(engs *llm.Engines, asm *structure.Assembler, opts ...Option) *Handle {
	h := &Handle{
		engs:     engs,
		asm:      asm,
		log:      zap.NewNop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		timeout:  defaultTimeout,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Root describes the service and its endpoints.
func (h *Handle) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     ServiceName,
		"version":     Version,
		"description": Description,
		"endpoints": map[string]string{
			"health":   "/health/",
			"modes":    "/ask/modes",
			"generate": "/ask/",
			"metrics":  "/metrics",
		},
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
