package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docugenius/api/internal/llm"
	"docugenius/api/internal/logging"
	"docugenius/api/internal/prompt"
)

type AskRequest struct {
	Query      string `json:"query" validate:"required,max=20000"`
	Mode       string `json:"mode" validate:"omitempty,max=64"`
	Audience   string `json:"audience" validate:"omitempty,max=64"`
	VerifyCode bool   `json:"verifyCode"`
	LLMName    string `json:"llm_name" validate:"omitempty,max=32"`
}

// Ask explains the query with the selected engine and returns a
// structure.Result. Upstream failures are reported in the body with
// success=false, not through the status code.
func (h *Handle) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Mode == "" {
		req.Mode = prompt.ModeExplainCode
	}
	if req.Audience == "" {
		req.Audience = prompt.AudienceBeginner
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "invalid request: "+validationMessage(err), http.StatusUnprocessableEntity)
		return
	}

	reqID := uuid.NewString()
	w.Header().Set("X-Request-ID", reqID)
	log := h.log.With(
		zap.String("request_id", reqID),
		zap.String("mode", req.Mode),
		zap.String("audience", req.Audience),
		zap.Int("query_len", len(req.Query)),
	)

	engine, err := h.engs.GetEngine(req.LLMName)
	switch {
	case errors.Is(err, llm.ErrUnknownEngine):
		http.Error(w, "engine error: "+err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Warn("no engine for request", zap.String("llm_name", req.LLMName), zap.Error(err))
		res := h.asm.Failure(err, h.asm.Now())
		h.metrics.Observe("none", res)
		writeJSON(w, http.StatusOK, res)
		return
	}
	log = log.With(zap.String("engine", engine.Name()), zap.String("model", engine.GetModel()))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.asm.Run(ctx, req.Query, llm.Label(engine), func(ctx context.Context) (string, error) {
		out, err := engine.Explain(ctx, llm.Request{
			System: prompt.System(req.Mode, req.Audience),
			User:   prompt.User(req.Query),
		})
		if err == nil {
			log.Debug("llm answer",
				zap.Int("content_len", len(out)),
				zap.String("preview", logging.Preview(out, 500)))
		}
		return out, err
	})
	if err != nil {
		log.Info("request cancelled by client", zap.Error(err))
		return
	}
	h.metrics.Observe(engine.Name(), res)

	if res.Success {
		log.Info("explanation generated",
			zap.Float64("generation_time", res.GenerationTime),
			zap.Int("breakdown", len(res.Breakdown)),
			zap.Int("code_blocks", len(res.CodeAnalysis)),
			zap.Int("resources", len(res.ExternalResources)))
	} else {
		log.Warn("explanation failed", zap.String("message", res.Message), zap.Float64("generation_time", res.GenerationTime))
	}
	writeJSON(w, http.StatusOK, res)
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
