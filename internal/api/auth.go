package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB           *sql.DB
	JWTSecret    string
	SignupSecret string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token      string            `json:"token"`
	Registrant *model.Registrant `json:"registrant,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// VerifySignupKey handles POST /api/verify-signup-key. A malformed body is
// simply not ok.
func (h *AuthHandler) VerifySignupKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonResponse(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"ok": auth.VerifySignupKey(req.Key, h.SignupSecret)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	token, acct, err := auth.Login(r.Context(), h.DB, h.JWTSecret, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrNotRegistrant):
		slog.Warn("login rejected, not a registrant", "email", model.NormalizeEmail(req.Email), "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, auth.MsgNotRegistrant)
		return
	case errors.Is(err, auth.ErrBadCredentials):
		slog.Warn("login failed", "email", model.NormalizeEmail(req.Email), "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, auth.MsgBadCredentials)
		return
	case err != nil:
		storeError(w, "login", err)
		return
	}

	reg, err := store.GetRegistrantByEmail(r.Context(), h.DB, acct.Email)
	if err != nil {
		storeError(w, "login", err)
		return
	}

	slog.Info("user logged in", "email", acct.Email)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Registrant: reg})
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := auth.SignUp(r.Context(), h.DB, h.SignupSecret, req)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) && ve.Message == auth.MsgAccountExists {
			jsonError(w, http.StatusConflict, ve.Message)
			return
		}
		storeError(w, "signup", err)
		return
	}

	acct, err := store.GetAccount(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, "signup", err)
		return
	}

	slog.Info("account created", "email", acct.Email)
	jsonResponse(w, http.StatusCreated, acct)
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		jsonError(w, http.StatusBadRequest, "current and new password required")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		storeError(w, "change password", err)
		return
	}

	acct, err := store.GetAccount(r.Context(), h.DB, claims.AccountID)
	if err != nil || acct == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !auth.CheckPassword(acct.PasswordHash, req.CurrentPassword) {
		jsonError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateAccountPassword(r.Context(), h.DB, acct.ID, hash); err != nil {
		storeError(w, "change password", err)
		return
	}

	slog.Info("user changed own password", "email", acct.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.Logout(r.Context(), h.DB, h.JWTSecret, GetToken(r.Context())); err != nil {
		storeError(w, "logout", err)
		return
	}
	if claims := GetClaims(r.Context()); claims != nil {
		slog.Info("user logged out", "email", claims.Email)
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
