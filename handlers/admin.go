package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"Marquee/middleware"
)

// TriggerSync refreshes the catalog. With force=true it syncs even when the
// catalog is fresh; only configured admins may force.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	if !force {
		if err := h.syncer.EnsureFresh(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Catalog is fresh"})
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok || !h.isAdmin(user.ID) {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	slog.InfoContext(r.Context(), "Forced catalog sync requested", "user_id", user.ID)
	result, err := h.syncer.Sync(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Catalog synced", "result": result})
}
