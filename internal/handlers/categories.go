// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"rezepta/internal/cache"
	"rezepta/internal/middleware"
	"rezepta/internal/models"
	"rezepta/internal/store"
	"rezepta/internal/tree"
)

// Categories groups the folder tree endpoints. Structural mutations are
// confirmed by the database before anything is reported back, so the
// client never shows a folder the backend refused.
type Categories struct {
	categoryStore *store.CategoryStore
	userStore     *store.UserStore
	cache         *cache.CategoryCache
}

// NewCategories creates a new Categories handler group.
func NewCategories(categoryStore *store.CategoryStore, userStore *store.UserStore, categoryCache *cache.CategoryCache) *Categories {
	return &Categories{
		categoryStore: categoryStore,
		userStore:     userStore,
		cache:         categoryCache,
	}
}

// load returns the current category rows, serving from Valkey when the
// snapshot is warm.
func (h *Categories) load(r *http.Request) ([]models.Category, error) {
	if h.cache != nil {
		if items, ok := h.cache.Get(r.Context()); ok {
			return items, nil
		}
	}

	items, err := h.categoryStore.List(r.Context())
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), items)
	}
	return items, nil
}

// invalidate drops the Valkey snapshot after a folder mutation.
func (h *Categories) invalidate(r *http.Request) {
	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
}

// List returns the two-level folder tree: top-level folders with their
// subfolders attached as children. Duplicate names within one level are
// collapsed, keeping the oldest entry.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.load(r)
	if err != nil {
		respondInternal(w, "list categories failed", err)
		return
	}

	tr := tree.New(items)
	mains := tr.MainCategories()
	result := make([]models.Category, 0, len(mains))
	for _, main := range mains {
		main.Children = tr.Subcategories(main.ID)
		result = append(result, main)
	}

	respondOK(w, result)
}

type categoryRequest struct {
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// Create adds a folder. Subfolders of subfolders are rejected; the tree
// is two levels deep by design of the archive.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	if !h.canManage(w, r) {
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// Trim before the uniqueness check so " Cakes" and "Cakes" collide.
	req.Name = strings.TrimSpace(req.Name)
	req.Color = strings.TrimSpace(req.Color)
	if msg := validateCategory(req.Name, req.Color); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	if req.ParentID != nil {
		parent, err := h.categoryStore.FindByID(r.Context(), *req.ParentID)
		if err != nil {
			respondInternal(w, "parent lookup failed", err)
			return
		}
		if parent == nil {
			respondErr(w, http.StatusNotFound, "Parent folder not found.")
			return
		}
		if !parent.IsTopLevel() {
			respondErr(w, http.StatusBadRequest, "Folders can only be nested one level deep.")
			return
		}
	}

	created, err := h.categoryStore.Create(r.Context(), req.Name, req.Color, req.ParentID)
	if err != nil {
		if isUniqueViolation(err) {
			respondErr(w, http.StatusConflict, "A folder with this name already exists here.")
			return
		}
		respondInternal(w, "create category failed", err)
		return
	}

	h.invalidate(r)
	respondCreated(w, created)
}

// Rename updates a folder's name and color.
func (h *Categories) Rename(w http.ResponseWriter, r *http.Request) {
	if !h.canManage(w, r) {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid folder id")
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Color = strings.TrimSpace(req.Color)
	if msg := validateCategory(req.Name, req.Color); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.categoryStore.FindByID(r.Context(), id)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if existing == nil {
		respondErr(w, http.StatusNotFound, "Folder not found.")
		return
	}

	if err := h.categoryStore.Rename(r.Context(), id, req.Name, req.Color); err != nil {
		if isUniqueViolation(err) {
			respondErr(w, http.StatusConflict, "A folder with this name already exists here.")
			return
		}
		respondInternal(w, "rename category failed", err)
		return
	}

	h.invalidate(r)
	existing.Name = req.Name
	existing.Color = req.Color
	respondOK(w, existing)
}

// Delete removes a folder and its subfolders. Every recipe in the
// subtree is moved to uncategorized first; recipes are never deleted by
// a folder operation.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.canManage(w, r) {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid folder id")
		return
	}

	items, err := h.categoryStore.List(r.Context())
	if err != nil {
		respondInternal(w, "list categories failed", err)
		return
	}

	tr := tree.New(items)
	if _, ok := tr.Get(id); !ok {
		respondErr(w, http.StatusNotFound, "Folder not found.")
		return
	}

	subtree := tr.SubtreeIDs(id)
	if err := h.categoryStore.Delete(r.Context(), id, subtree); err != nil {
		respondInternal(w, "delete category failed", err)
		return
	}

	h.invalidate(r)
	respondOK(w, map[string]any{"deleted": len(subtree)})
}

// canManage enforces the folder-management permission for sub-admins.
// Full admins always pass. Writes the error envelope on refusal.
func (h *Categories) canManage(w http.ResponseWriter, r *http.Request) bool {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, http.StatusUnauthorized, "authentication required")
		return false
	}

	user, err := h.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		respondInternal(w, "user lookup failed", err)
		return false
	}
	if !user.Can(models.PermManageFolders) {
		respondErr(w, http.StatusForbidden, "You are not allowed to manage folders.")
		return false
	}
	return true
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
