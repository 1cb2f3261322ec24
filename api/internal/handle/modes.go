package handle

import (
	"net/http"

	"docugenius/api/internal/prompt"
)

func (h *Handle) Modes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"modes":     prompt.Modes,
		"audiences": prompt.Audiences,
	})
}
