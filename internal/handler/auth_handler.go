package handler

import (
	"net/http"

	"autopartes/internal/middleware"
	"autopartes/internal/model"
	"autopartes/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles account and session requests.
type AuthHandler struct {
	service service.AuthService
	auth    *middleware.Auth
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, auth *middleware.Auth, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		auth:    auth,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register and signs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.auth.SignIn(w, r, resp.User); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.auth.SignIn(w, r, resp.User); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(w, r); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Me(r.Context(), actor(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateMe handles PUT /api/auth/me.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), actor(r), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Token handles POST /api/auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.IssueToken(r.Context(), actor(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// RequestPasswordReset handles POST /api/auth/password-reset.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "Si el correo está registrado recibirás un enlace de recuperación",
	})
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordResetConfirm
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.service.ConfirmPasswordReset(r.Context(), &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
