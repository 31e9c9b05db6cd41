// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"mizan/internal/middleware"
	"mizan/internal/session"
	"mizan/internal/store"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "Mizan"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// Login validates email and password and opens a session. The session
// starts with 2FA pending; the response tells the client whether the
// operator still needs to enroll an authenticator.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Same response for unknown email and wrong password.
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   false,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"display_name":        user.DisplayName,
		"role":                user.Role,
		"two_fa_setup_needed": user.Needs2FASetup(),
	})
}

// TwoFASetup generates a fresh TOTP secret for the logged-in operator
// and returns it with a QR code PNG for authenticator enrollment.
// Calling it again before verification replaces the pending secret.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// An enrolled authenticator can only be replaced through an admin
	// reset; otherwise a hijacked session could silently swap it.
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "two-factor authentication is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := a.userStore.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_png":  base64.StdEncoding.EncodeToString(qrPNG),
		"otp_url": key.URL(),
	})
}

// TwoFAVerify validates a TOTP code and completes authentication. On a
// first-time enrollment the secret becomes permanent.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "two-factor setup required")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(r.Context(), user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"display_name": user.DisplayName,
		"role":         user.Role,
	})
}

// Me reports the logged-in operator and 2FA state, for client-side
// session restore on page load.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      sess.UserID,
		"email":        sess.Email,
		"display_name": sess.DisplayName,
		"role":         sess.Role,
		"two_fa_done":  sess.TwoFADone,
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
