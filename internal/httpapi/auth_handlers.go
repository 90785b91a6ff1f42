package httpapi

import (
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cayden0207/ctg-talents/internal/auth"
	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type AuthHandler struct {
	Deps
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if h.LoginLimiter != nil && !h.LoginLimiter.Allow(host) {
		WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many login attempts")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		WriteError(w, r, http.StatusBadRequest, "invalid_credentials", "invalid email or password")
		return
	}
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}

	ttl := time.Duration(h.cfg().Auth.TokenTTLHours) * time.Hour
	token, err := auth.Sign(h.SigningKey, user, ttl)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	user, err := store.GetUserByID(r.Context(), h.DB, actor.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeJSON(w, user)
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
		return
	}

	user, err := store.GetUserByID(r.Context(), h.DB, actor.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if err := store.UpdateUserProfile(r.Context(), h.DB, user.ID, user.Name, user.Email); err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeJSON(w, user)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "password must be at least 6 characters")
		return
	}

	user, err := store.GetUserByID(r.Context(), h.DB, actor.UserID)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		WriteError(w, r, http.StatusBadRequest, "invalid_credentials", "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, user.ID, hash); err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"message": "password updated"})
}
