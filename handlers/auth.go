package handlers

import (
	"log/slog"
	"net/http"

	"Marquee/middleware"
	"Marquee/models"
	"Marquee/services"
)

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		slog.WarnContext(r.Context(), "Registration failed", "username", req.Username, "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    viewOf(user),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed", "email", req.Email, "error", err)
		writeError(w, r, err)
		return
	}

	if err := services.SetUserSession(w, r, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed to setup session", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.InfoContext(r.Context(), "User authenticated successfully", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    viewOf(user),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := services.ClearSession(w, r); err != nil {
		slog.WarnContext(r.Context(), "Failed to clear session", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
