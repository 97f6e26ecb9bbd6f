// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rezepta/internal/cache"
	"rezepta/internal/filter"
	"rezepta/internal/markdown"
	"rezepta/internal/middleware"
	"rezepta/internal/models"
	"rezepta/internal/recipetext"
	"rezepta/internal/storage"
	"rezepta/internal/store"
	"rezepta/internal/tree"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxUploadBytes  = 10 << 20 // 10 MiB per image
)

// Recipes groups the recipe archive endpoints.
type Recipes struct {
	recipeStore   *store.RecipeStore
	categoryStore *store.CategoryStore
	userStore     *store.UserStore
	imageStore    *store.ImageStore
	commentStore  *store.CommentStore
	storage       *storage.Client
	cache         *cache.CategoryCache
}

// NewRecipes creates a new Recipes handler group. storage may be nil;
// image endpoints then refuse with 503.
func NewRecipes(
	recipeStore *store.RecipeStore,
	categoryStore *store.CategoryStore,
	userStore *store.UserStore,
	imageStore *store.ImageStore,
	commentStore *store.CommentStore,
	s3 *storage.Client,
	categoryCache *cache.CategoryCache,
) *Recipes {
	return &Recipes{
		recipeStore:   recipeStore,
		categoryStore: categoryStore,
		userStore:     userStore,
		imageStore:    imageStore,
		commentStore:  commentStore,
		storage:       s3,
		cache:         categoryCache,
	}
}

// viewerID returns the session user's id, or uuid.Nil for anonymous.
func viewerID(r *http.Request) uuid.UUID {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.UserID
	}
	return uuid.Nil
}

// canViewRecipe reports whether the request's viewer may see the recipe.
// Approved recipes are public; pending and rejected ones are visible only
// to their owner and to reviewers holding the approval permission.
func canViewRecipe(r *http.Request, userStore *store.UserStore, recipe *models.Recipe) bool {
	if recipe.IsApproved() {
		return true
	}
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return false
	}
	if sess.UserID == recipe.UserID {
		return true
	}
	user, err := userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		return false
	}
	return user.Can(models.PermApproveRecipes)
}

// List serves the archive. A search query overrides any folder filter;
// the remaining narrowing steps (author, favorites) stack on top. Rows
// keep the store's newest-first order; no implicit re-sort happens here.
func (h *Recipes) List(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	q := r.URL.Query()

	// Admins may list a non-approved workflow state.
	status := models.RecipeStatusApproved
	if s := q.Get("status"); s != "" {
		sess := middleware.SessionFromCtx(r.Context())
		if sess == nil || (sess.Role != models.RoleAdmin && sess.Role != models.RoleSubAdmin) {
			respondErr(w, http.StatusForbidden, "Only admins can list unapproved recipes.")
			return
		}
		switch models.RecipeStatus(s) {
		case models.RecipeStatusPending, models.RecipeStatusApproved, models.RecipeStatusRejected:
			status = models.RecipeStatus(s)
		default:
			respondErr(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	recipes, err := h.recipeStore.ListByStatus(r.Context(), status, viewer)
	if err != nil {
		respondInternal(w, "list recipes failed", err)
		return
	}

	params := filter.Params{Query: q.Get("q")}
	if c := q.Get("category"); c != "" {
		id, err := uuid.Parse(c)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid folder id")
			return
		}
		params.CategoryID = &id
	}
	if u := q.Get("user"); u != "" {
		var id uuid.UUID
		if u == "me" {
			if viewer == uuid.Nil {
				respondErr(w, http.StatusUnauthorized, "authentication required")
				return
			}
			id = viewer
		} else {
			id, err = uuid.Parse(u)
			if err != nil {
				respondErr(w, http.StatusBadRequest, "invalid user id")
				return
			}
		}
		params.UserID = &id
	}
	if q.Get("favorites") == "true" {
		if viewer == uuid.Nil {
			respondErr(w, http.StatusUnauthorized, "authentication required")
			return
		}
		params.FavoritesOnly = true
	}

	var subtree filter.SubtreeFunc
	if params.CategoryID != nil {
		categories, err := h.loadCategories(r)
		if err != nil {
			respondInternal(w, "list categories failed", err)
			return
		}
		tr := tree.New(categories)
		subtree = tr.SubtreeIDs
	}

	visible := filter.Visible(recipes, params, subtree)

	page, limit := pagination(r)
	total := len(visible)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	respondOK(w, map[string]any{
		"recipes": visible[start:end],
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Get serves a recipe detail: the row, its parsed text sections, the
// rendered HTML body, additional images, and the comment thread. The key
// may be the canonical numeric id or a legacy import key.
func (h *Recipes) Get(w http.ResponseWriter, r *http.Request) {
	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}

	// Unapproved recipes don't exist for the public archive.
	if !canViewRecipe(r, h.userStore, recipe) {
		respondErr(w, http.StatusNotFound, "Recipe not found.")
		return
	}

	images, err := h.imageStore.ListByRecipe(r.Context(), recipe.ID)
	if err != nil {
		respondInternal(w, "list recipe images failed", err)
		return
	}
	recipe.AdditionalImages = images

	comments, err := h.commentStore.ListByRecipe(r.Context(), recipe.ID)
	if err != nil {
		respondInternal(w, "list comments failed", err)
		return
	}

	sections := recipetext.Split(recipe.Body)
	bodyHTML, err := markdown.ToHTML(recipe.Body)
	if err != nil {
		respondInternal(w, "render recipe body failed", err)
		return
	}

	respondOK(w, map[string]any{
		"recipe":    recipe,
		"sections":  sections,
		"body_html": bodyHTML,
		"comments":  comments,
	})
}

type recipeRequest struct {
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// Create adds a recipe. Worker submissions start pending; users holding
// the approval permission publish directly. An empty title is derived
// from the first meaningful body line.
func (h *Recipes) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	if user.Role == models.RoleGuest {
		respondErr(w, http.StatusForbidden, "Guests cannot create recipes.")
		return
	}

	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateRecipe(req.Title, req.Body); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	title := req.Title
	if title == "" {
		title = recipetext.TitleFromBody(req.Body)
	}

	kind := models.RecipeKindDigitized
	if recipetext.IsManual(req.Body) {
		kind = models.RecipeKindManual
	}

	status := models.RecipeStatusPending
	if user.Can(models.PermApproveRecipes) {
		status = models.RecipeStatusApproved
	}

	created, err := h.recipeStore.Create(r.Context(), &models.Recipe{
		Title:      title,
		Body:       req.Body,
		Kind:       kind,
		CategoryID: req.CategoryID,
		UserID:     user.ID,
		Status:     status,
	})
	if err != nil {
		respondInternal(w, "create recipe failed", err)
		return
	}

	respondCreated(w, created)
}

// Update modifies a recipe's text. Only the owner (while editable) or an
// admin may update; rejected recipes stay frozen.
func (h *Recipes) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if !recipe.EditableBy(user) {
		respondErr(w, http.StatusForbidden, "You are not allowed to edit this recipe.")
		return
	}

	// Rejection freezes the recipe for its owner; only an admin can
	// still touch it (and set it back to pending for another review).
	if recipe.Status == models.RecipeStatusRejected && !user.IsAdmin() {
		respondErr(w, http.StatusForbidden, "Rejected recipes can no longer be edited.")
		return
	}

	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateRecipe(req.Title, req.Body); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	recipe.Title = req.Title
	if recipe.Title == "" {
		recipe.Title = recipetext.TitleFromBody(req.Body)
	}
	recipe.Body = req.Body
	recipe.Kind = models.RecipeKindDigitized
	if recipetext.IsManual(req.Body) {
		recipe.Kind = models.RecipeKindManual
	}

	if err := h.recipeStore.Update(r.Context(), recipe); err != nil {
		respondInternal(w, "update recipe failed", err)
		return
	}
	respondOK(w, recipe)
}

type moveRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
}

// Move assigns a recipe to a folder (or uncategorized for null). The
// target folder is verified before the recipe row changes.
func (h *Recipes) Move(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if !recipe.EditableBy(user) && !user.Can(models.PermManageFolders) {
		respondErr(w, http.StatusForbidden, "You are not allowed to move this recipe.")
		return
	}

	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.CategoryID != nil {
		target, err := h.categoryStore.FindByID(r.Context(), *req.CategoryID)
		if err != nil {
			respondInternal(w, "folder lookup failed", err)
			return
		}
		if target == nil {
			respondErr(w, http.StatusNotFound, "Target folder not found.")
			return
		}
	}

	if err := h.recipeStore.Move(r.Context(), recipe.ID, req.CategoryID); err != nil {
		respondInternal(w, "move recipe failed", err)
		return
	}

	recipe.CategoryID = req.CategoryID
	respondOK(w, recipe)
}

// Delete removes a recipe and its stored images. Object storage cleanup
// happens after the row is gone; an orphaned object is preferable to a
// recipe pointing at a deleted image.
func (h *Recipes) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if !recipe.EditableBy(user) {
		respondErr(w, http.StatusForbidden, "You are not allowed to delete this recipe.")
		return
	}

	images, err := h.imageStore.ListByRecipe(r.Context(), recipe.ID)
	if err != nil {
		respondInternal(w, "list recipe images failed", err)
		return
	}

	if err := h.recipeStore.Delete(r.Context(), recipe.ID); err != nil {
		respondInternal(w, "delete recipe failed", err)
		return
	}

	if h.storage != nil {
		if recipe.ImageURL != nil {
			if key, ok := h.storage.ExtractS3Key(*recipe.ImageURL); ok {
				h.storage.Delete(r.Context(), key)
			}
		}
		for _, img := range images {
			h.storage.Delete(r.Context(), img.S3Key)
		}
	}

	respondOK(w, nil)
}

// Approve publishes a pending recipe.
func (h *Recipes) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.RecipeStatusApproved)
}

// Reject declines a pending recipe. Rejection is final; the recipe can
// neither be edited nor resubmitted afterwards.
func (h *Recipes) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.RecipeStatusRejected)
}

// transition applies a reviewer workflow change.
func (h *Recipes) transition(w http.ResponseWriter, r *http.Request, to models.RecipeStatus) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	if !user.Can(models.PermApproveRecipes) {
		respondErr(w, http.StatusForbidden, "You are not allowed to review recipes.")
		return
	}

	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if !recipe.CanTransition(to) {
		respondErr(w, http.StatusConflict, "This recipe cannot change to that state.")
		return
	}

	if err := h.recipeStore.SetStatus(r.Context(), recipe.ID, to); err != nil {
		respondInternal(w, "set recipe status failed", err)
		return
	}

	recipe.Status = to
	respondOK(w, recipe)
}

// Resubmit pulls an approved recipe of the owner back to pending, e.g.
// after a substantial edit that should be reviewed again.
func (h *Recipes) Resubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if recipe.UserID != user.ID && !user.IsAdmin() {
		respondErr(w, http.StatusForbidden, "Only the author can resubmit a recipe.")
		return
	}
	if !recipe.CanTransition(models.RecipeStatusPending) {
		respondErr(w, http.StatusConflict, "This recipe cannot be resubmitted.")
		return
	}

	if err := h.recipeStore.SetStatus(r.Context(), recipe.ID, models.RecipeStatusPending); err != nil {
		respondInternal(w, "resubmit recipe failed", err)
		return
	}

	recipe.Status = models.RecipeStatusPending
	respondOK(w, recipe)
}

// UploadImage stores a multipart image for a recipe. The first uploaded
// image becomes the recipe's primary image; later ones are additional.
func (h *Recipes) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondErr(w, http.StatusServiceUnavailable, "Image storage is not configured.")
		return
	}

	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if !recipe.EditableBy(user) {
		respondErr(w, http.StatusForbidden, "You are not allowed to edit this recipe.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondErr(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		respondErr(w, http.StatusBadRequest, "only JPEG, PNG, and WebP images are accepted")
		return
	}

	key := storage.RecipeKey(recipe.ID, header.Filename)
	if err := h.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		respondInternal(w, "image upload failed", err)
		return
	}
	url := h.storage.FileURL(key)

	if recipe.ImageURL == nil {
		recipe.ImageURL = &url
		if err := h.recipeStore.Update(r.Context(), recipe); err != nil {
			respondInternal(w, "save primary image failed", err)
			return
		}
		respondCreated(w, map[string]any{"url": url, "primary": true})
		return
	}

	img, err := h.imageStore.Add(r.Context(), recipe.ID, url, key)
	if err != nil {
		respondInternal(w, "save recipe image failed", err)
		return
	}
	respondCreated(w, img)
}

// DeleteImage removes an additional image row and its stored object.
func (h *Recipes) DeleteImage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	recipe, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if !recipe.EditableBy(user) {
		respondErr(w, http.StatusForbidden, "You are not allowed to edit this recipe.")
		return
	}

	imageID, err := uuid.Parse(chi.URLParam(r, "imageID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid image id")
		return
	}

	img, err := h.imageStore.FindByID(r.Context(), imageID)
	if err != nil {
		respondInternal(w, "image lookup failed", err)
		return
	}
	if img == nil || img.RecipeID != recipe.ID {
		respondErr(w, http.StatusNotFound, "Image not found.")
		return
	}

	if err := h.imageStore.Delete(r.Context(), imageID); err != nil {
		respondInternal(w, "delete image failed", err)
		return
	}
	if h.storage != nil {
		h.storage.Delete(r.Context(), img.S3Key)
	}

	respondOK(w, nil)
}

// resolve loads the recipe addressed by the {key} URL parameter. Writes
// the error envelope and returns false when it cannot.
func (h *Recipes) resolve(w http.ResponseWriter, r *http.Request) (*models.Recipe, bool) {
	key := chi.URLParam(r, "key")
	recipe, err := h.recipeStore.FindByAnyID(r.Context(), key, viewerID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "Recipe not found.")
			return nil, false
		}
		respondInternal(w, "recipe lookup failed", err)
		return nil, false
	}
	return recipe, true
}

// sessionUser loads the full user record for the session. Writes the
// error envelope and returns false when there is no valid user.
func (h *Recipes) sessionUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	user, err := h.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil {
		respondInternal(w, "user lookup failed", err)
		return nil, false
	}
	if user == nil || !user.IsActive() {
		respondErr(w, http.StatusForbidden, "This account is deactivated.")
		return nil, false
	}
	return user, true
}

// loadCategories mirrors Categories.load for the archive's subtree filter.
func (h *Recipes) loadCategories(r *http.Request) ([]models.Category, error) {
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

// pagination parses page/limit query params with sane bounds.
func pagination(r *http.Request) (page, limit int) {
	page = 1
	limit = defaultPageSize
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	return page, limit
}
