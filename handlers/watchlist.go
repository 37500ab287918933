package handlers

import (
	"net/http"

	"Marquee/middleware"
	"Marquee/models"
	"Marquee/recommend"
	"Marquee/services"
)

func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	}
	return user, ok
}

func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	movies, err := h.watchlist.Watchlist(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movies": movies})
}

type toggleRequest struct {
	MovieID int64 `json:"movieId"`
}

func (h *Handler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.MovieID <= 0 {
		writeError(w, r, errInvalidID)
		return
	}

	inWatchlist, err := h.watchlist.Toggle(r.Context(), user.ID, req.MovieID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Removed from watchlist"
	if inWatchlist {
		message = "Added to watchlist"
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": message, "inWatchlist": inWatchlist})
}

func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	movieID, err := movieIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.watchlist.Add(r.Context(), user.ID, movieID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Added to watchlist", "inWatchlist": true})
}

func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	movieID, err := movieIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.watchlist.Remove(r.Context(), user.ID, movieID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Removed from watchlist", "inWatchlist": false})
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	mode, err := recommend.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, &services.ValidationError{Field: "mode", Message: err.Error()})
		return
	}

	movies, err := h.watchlist.Recommendations(r.Context(), user.ID, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "recommendations": movies})
}
