package telegram

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"docugenius/api/internal/llm"
	"docugenius/api/internal/metrics"
	"docugenius/api/internal/prompt"
	"docugenius/api/internal/structure"
)

// Sender is the part of *tgbotapi.BotAPI the router needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Router struct {
	Bot        Sender
	Engines    *llm.Engines
	EngManager *llm.Manager
	Assembler  *structure.Assembler
	Metrics    *metrics.Ask
	Log        *zap.Logger
	Timeout    time.Duration

	prefsMu sync.Mutex
	prefs   map[int64]chatPrefs
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.HandleCommand(upd.Message)
		return
	}
	if q := strings.TrimSpace(upd.Message.Text); q != "" {
		r.answer(upd.Message.Chat.ID, q)
	}
}

func (r *Router) HandleCommand(m *tgbotapi.Message) {
	cid := m.Chat.ID
	args := strings.Fields(m.CommandArguments())

	switch m.Command() {
	case "start", "help":
		r.send(cid, helpText)

	case "health":
		avail := r.Engines.Available()
		if len(avail) == 0 {
			r.send(cid, "⚠️ No LLM engine configured")
			return
		}
		r.send(cid, "✅ OK: "+strings.Join(avail, ", "))

	case "mode":
		if len(args) == 0 {
			p := r.getPrefs(cid)
			msg := tgbotapi.NewMessage(cid, "Current mode: "+p.Mode+"\nPick one:")
			msg.ReplyMarkup = makeModeKeyboard()
			r.sendMsg(msg)
			return
		}
		r.setMode(cid, args[0])

	case "audience":
		if len(args) == 0 {
			p := r.getPrefs(cid)
			msg := tgbotapi.NewMessage(cid, "Current audience: "+p.Audience+"\nPick one:")
			msg.ReplyMarkup = makeAudienceKeyboard()
			r.sendMsg(msg)
			return
		}
		r.setAudience(cid, args[0])

	case "engine":
		if len(args) == 0 {
			cur := "none"
			if e := r.EngManager.Get(cid); e != nil {
				cur = llm.Label(e)
			}
			r.send(cid, "Current engine: "+cur+"\nUsage: /engine gpt | /engine gemini")
			return
		}
		eng, err := r.Engines.GetEngine(args[0])
		if err != nil {
			r.send(cid, "❌ "+err.Error())
			return
		}
		r.EngManager.Set(cid, eng)
		r.send(cid, "✅ Engine: "+llm.Label(eng))

	default:
		r.send(cid, "Unknown command. Try /help")
	}
}

func (r *Router) setMode(cid int64, raw string) {
	id := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range prompt.Modes {
		if m.ID == id {
			r.updatePrefs(cid, func(p *chatPrefs) { p.Mode = id })
			r.send(cid, "✅ Mode: "+m.Name)
			return
		}
	}
	r.send(cid, fmt.Sprintf("Unknown mode %q. Available: %s, %s", raw, prompt.ModeExplainCode, prompt.ModeExplainConcept))
}

func (r *Router) setAudience(cid int64, raw string) {
	lvl := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range prompt.Audiences {
		if a == lvl {
			r.updatePrefs(cid, func(p *chatPrefs) { p.Audience = lvl })
			r.send(cid, "✅ Audience: "+lvl)
			return
		}
	}
	r.send(cid, fmt.Sprintf("Unknown audience %q. Available: %s", raw, strings.Join(prompt.Audiences, ", ")))
}

func (r *Router) send(chatID int64, text string) {
	r.sendMsg(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendMsg(msg tgbotapi.MessageConfig) {
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send failed", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

const helpText = `Send me a piece of code or a concept and I will explain it.

Commands:
/mode [explain_code|explain_concept]
/audience [beginner|intermediate|expert]
/engine [gpt|gemini]
/health`
