package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	cbMode     = "mode:"
	cbAudience = "aud:"
)

func (r *Router) handleCallback(cq tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		r.logger().Debug("callback ack failed", zap.Error(err))
	}
	if cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	cid := cq.Message.Chat.ID

	switch {
	case strings.HasPrefix(cq.Data, cbMode):
		r.setMode(cid, strings.TrimPrefix(cq.Data, cbMode))
	case strings.HasPrefix(cq.Data, cbAudience):
		r.setAudience(cid, strings.TrimPrefix(cq.Data, cbAudience))
	}
}
