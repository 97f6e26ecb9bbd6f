// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rezepta/internal/middleware"
	"rezepta/internal/models"
	"rezepta/internal/store"
)

// Users groups the account administration endpoints. All routes sit
// behind RequireAdmin; sub-admins additionally need the user-management
// permission, checked here with the full user record.
type Users struct {
	userStore *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(userStore *store.UserStore) *Users {
	return &Users{userStore: userStore}
}

// List returns all accounts in creation order.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireManager(w, r); !ok {
		return
	}

	users, err := h.userStore.List(r.Context())
	if err != nil {
		respondInternal(w, "list users failed", err)
		return
	}
	respondOK(w, users)
}

type createUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// Create adds an account.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireManager(w, r); !ok {
		return
	}

	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondErr(w, http.StatusBadRequest, "A valid email address is required.")
		return
	}
	if len(req.Password) < 8 {
		respondErr(w, http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondErr(w, http.StatusBadRequest, "Name is required.")
		return
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleSubAdmin, models.RoleWorker, models.RoleGuest:
	default:
		respondErr(w, http.StatusBadRequest, "invalid role")
		return
	}

	existing, err := h.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		respondInternal(w, "email lookup failed", err)
		return
	}
	if existing != nil {
		respondErr(w, http.StatusConflict, "An account with this email already exists.")
		return
	}

	created, err := h.userStore.Create(r.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		respondInternal(w, "create user failed", err)
		return
	}
	respondCreated(w, created)
}

type updateAccessRequest struct {
	Role        models.Role       `json:"role"`
	Status      models.UserStatus `json:"status"`
	Permissions []string          `json:"permissions"`
}

// UpdateAccess changes an account's role, active status, and sub-admin
// permission list. Admins cannot deactivate themselves; a locked-out
// system would have nobody left to unlock it.
func (h *Users) UpdateAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateAccessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch req.Role {
	case models.RoleAdmin, models.RoleSubAdmin, models.RoleWorker, models.RoleGuest:
	default:
		respondErr(w, http.StatusBadRequest, "invalid role")
		return
	}
	switch req.Status {
	case models.UserStatusActive, models.UserStatusInactive:
	default:
		respondErr(w, http.StatusBadRequest, "invalid status")
		return
	}
	for _, p := range req.Permissions {
		switch p {
		case models.PermApproveRecipes, models.PermManageUsers, models.PermManageFolders:
		default:
			respondErr(w, http.StatusBadRequest, "invalid permission")
			return
		}
	}

	if id == actor.ID && req.Status == models.UserStatusInactive {
		respondErr(w, http.StatusBadRequest, "You cannot deactivate your own account.")
		return
	}

	target, err := h.userStore.FindByID(r.Context(), id)
	if err != nil {
		respondInternal(w, "user lookup failed", err)
		return
	}
	if target == nil {
		respondErr(w, http.StatusNotFound, "User not found.")
		return
	}

	if err := h.userStore.UpdateAccess(r.Context(), id, req.Role, req.Status, req.Permissions); err != nil {
		respondInternal(w, "update access failed", err)
		return
	}

	updated, err := h.userStore.FindByID(r.Context(), id)
	if err != nil || updated == nil {
		respondInternal(w, "reload user failed", err)
		return
	}
	respondOK(w, updated)
}

// ResetTOTP clears an account's 2FA enrollment so the user can enroll a
// new device on their next login.
func (h *Users) ResetTOTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireManager(w, r); !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	target, err := h.userStore.FindByID(r.Context(), id)
	if err != nil {
		respondInternal(w, "user lookup failed", err)
		return
	}
	if target == nil {
		respondErr(w, http.StatusNotFound, "User not found.")
		return
	}

	if err := h.userStore.ResetTOTP(r.Context(), id); err != nil {
		respondInternal(w, "reset totp failed", err)
		return
	}
	respondOK(w, nil)
}

// requireManager ensures the session user may manage accounts.
func (h *Users) requireManager(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	user, err := h.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		respondInternal(w, "user lookup failed", err)
		return nil, false
	}
	if !user.Can(models.PermManageUsers) {
		respondErr(w, http.StatusForbidden, "You are not allowed to manage users.")
		return nil, false
	}
	return user, true
}
