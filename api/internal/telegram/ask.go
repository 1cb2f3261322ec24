package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docugenius/api/internal/llm"
	"docugenius/api/internal/prompt"
)

const defaultTimeout = 70 * time.Second

func (r *Router) answer(chatID int64, query string) {
	eng := r.EngManager.Get(chatID)
	if eng == nil {
		r.send(chatID, "⚠️ No LLM engine configured")
		return
	}
	p := r.getPrefs(chatID)
	r.send(chatID, "Got it, thinking…")

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := r.Assembler.Run(ctx, query, llm.Label(eng), func(ctx context.Context) (string, error) {
		return eng.Explain(ctx, llm.Request{
			System: prompt.System(p.Mode, p.Audience),
			User:   prompt.User(query),
		})
	})
	if err != nil {
		return
	}
	r.Metrics.Observe(eng.Name(), res)
	r.logger().Info("telegram answer",
		zap.Int64("chat_id", chatID),
		zap.String("engine", eng.Name()),
		zap.Bool("success", res.Success),
		zap.Float64("generation_time", res.GenerationTime))

	for _, chunk := range splitMessage(formatResult(res), maxMessageRunes) {
		r.send(chatID, chunk)
	}
}
