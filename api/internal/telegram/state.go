package telegram

import "docugenius/api/internal/prompt"

type chatPrefs struct {
	Mode     string
	Audience string
}

func defaultPrefs() chatPrefs {
	return chatPrefs{Mode: prompt.ModeExplainCode, Audience: prompt.AudienceBeginner}
}

func (r *Router) getPrefs(chatID int64) chatPrefs {
	r.prefsMu.Lock()
	defer r.prefsMu.Unlock()
	if p, ok := r.prefs[chatID]; ok {
		return p
	}
	return defaultPrefs()
}

// updatePrefs applies fn to the chat's prefs under the lock, so concurrent
// mode and audience changes in one chat do not overwrite each other.
func (r *Router) updatePrefs(chatID int64, fn func(*chatPrefs)) {
	r.prefsMu.Lock()
	defer r.prefsMu.Unlock()
	if r.prefs == nil {
		r.prefs = make(map[int64]chatPrefs)
	}
	p, ok := r.prefs[chatID]
	if !ok {
		p = defaultPrefs()
	}
	fn(&p)
	r.prefs[chatID] = p
}
