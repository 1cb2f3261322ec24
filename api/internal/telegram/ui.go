package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docugenius/api/internal/prompt"
	"docugenius/api/internal/structure"
)

const maxMessageRunes = 4096

func makeModeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range prompt.Modes {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(m.Name, cbMode+m.ID))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func makeAudienceKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, a := range prompt.Audiences {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(a, cbAudience+a))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// formatResult renders a result as plain text.
func formatResult(res structure.Result) string {
	var b strings.Builder
	if !res.Success {
		b.WriteString("⚠️ " + res.Message + "\n")
		for _, s := range res.Breakdown {
			b.WriteString(s + "\n")
		}
		fmt.Fprintf(&b, "\n⏱ %.1fs", res.GenerationTime)
		return b.String()
	}

	b.WriteString("📘 Explanation\n")
	b.WriteString(res.Explanation + "\n")

	if len(res.Breakdown) > 0 {
		b.WriteString("\n🪜 Breakdown\n")
		for _, s := range res.Breakdown {
			b.WriteString("• " + s + "\n")
		}
	}
	if len(res.CodeAnalysis) > 0 {
		b.WriteString("\n💻 Code analysis\n")
		for i, c := range res.CodeAnalysis {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(c + "\n")
		}
	}
	if len(res.ExternalResources) > 0 {
		b.WriteString("\n🔗 Resources\n")
		for _, r := range res.ExternalResources {
			b.WriteString("• " + r.Name + " — " + r.URL + "\n")
		}
	}
	fmt.Fprintf(&b, "\nConfidence: %.0f%% · ⏱ %.1fs", res.Confidence*100, res.GenerationTime)
	return b.String()
}

// splitMessage cuts text into chunks of at most limit runes, preferring
// line boundaries.
func splitMessage(text string, limit int) []string {
	var out []string
	r := []rune(text)
	for len(r) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if r[i-1] == '\n' {
				cut = i
				break
			}
		}
		out = append(out, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}
