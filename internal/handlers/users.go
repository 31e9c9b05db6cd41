// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"mizan/internal/middleware"
	"mizan/internal/models"
)

// minPasswordLen is the minimum accepted password length for new
// operator accounts.
const minPasswordLen = 10

// userRequest carries the fields for creating an operator account.
type userRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func (req *userRequest) validate() string {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return "A valid email address is required."
	}
	if len(req.Password) < minPasswordLen {
		return "Password must be at least 10 characters."
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return "Display name is required."
	}
	if req.Role != string(models.RoleAdmin) && req.Role != string(models.RoleEditor) {
		return "Role must be admin or editor."
	}
	return ""
}

// UsersList returns all operator accounts. Password hashes and TOTP
// secrets never serialize.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UserCreate adds a new operator account. The account starts without
// 2FA; enrollment happens on first login.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if existing, err := a.users.FindByEmail(r.Context(), req.Email); err != nil {
		writeStoreError(w, err, "user")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "an account with this email already exists")
		return
	}

	created, err := a.users.Create(r.Context(), req.Email, req.Password, req.DisplayName, models.Role(req.Role))
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UserResetTOTP clears an operator's 2FA enrollment so they can set up
// a new authenticator on next login.
func (a *Admin) UserResetTOTP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := a.users.ResetTOTP(r.Context(), id); err != nil {
		writeStoreError(w, err, "user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UserDelete removes an operator account. Operators cannot delete
// themselves — losing the last admin mid-session is an easy way to
// lock the console.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.UserID == id {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	user, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := a.users.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
