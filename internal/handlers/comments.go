package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rezepta/internal/middleware"
	"rezepta/internal/models"
	"rezepta/internal/store"
)

// Comments groups the recipe comment endpoints. Guests can read the
// thread but never write to it.
type Comments struct {
	commentStore *store.CommentStore
	recipeStore  *store.RecipeStore
	userStore    *store.UserStore
}

// NewComments creates a new Comments handler group.
func NewComments(commentStore *store.CommentStore, recipeStore *store.RecipeStore, userStore *store.UserStore) *Comments {
	return &Comments{
		commentStore: commentStore,
		recipeStore:  recipeStore,
		userStore:    userStore,
	}
}

// List returns a recipe's comment thread, oldest first, with author
// names and like sets attached.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	recipe, ok := h.resolveRecipe(w, r)
	if !ok {
		return
	}

	comments, err := h.commentStore.ListByRecipe(r.Context(), recipe.ID)
	if err != nil {
		respondInternal(w, "list comments failed", err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondOK(w, comments)
}

type commentRequest struct {
	Content string `json:"content"`
}

// Create posts a comment. Guest accounts are refused.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	if user.Role == models.RoleGuest {
		respondErr(w, http.StatusForbidden, "Guests cannot write comments.")
		return
	}

	recipe, ok := h.resolveRecipe(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateComment(req.Content); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.commentStore.Create(r.Context(), recipe.ID, user.ID, req.Content)
	if err != nil {
		respondInternal(w, "create comment failed", err)
		return
	}
	respondCreated(w, created)
}

// Update edits a comment's text and marks it edited. Only the author or
// an admin may edit.
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	comment, ok := h.resolveComment(w, r)
	if !ok {
		return
	}

	if !comment.ManagedBy(user) {
		respondErr(w, http.StatusForbidden, "You are not allowed to edit this comment.")
		return
	}

	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateComment(req.Content); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.commentStore.Update(r.Context(), comment.ID, req.Content); err != nil {
		respondInternal(w, "update comment failed", err)
		return
	}

	updated, err := h.commentStore.FindByID(r.Context(), comment.ID)
	if err != nil || updated == nil {
		respondInternal(w, "reload comment failed", err)
		return
	}
	respondOK(w, updated)
}

// Delete removes a comment. Only the author or an admin may delete.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	comment, ok := h.resolveComment(w, r)
	if !ok {
		return
	}

	if !comment.ManagedBy(user) {
		respondErr(w, http.StatusForbidden, "You are not allowed to delete this comment.")
		return
	}

	if err := h.commentStore.Delete(r.Context(), comment.ID); err != nil {
		respondInternal(w, "delete comment failed", err)
		return
	}
	respondOK(w, nil)
}

// ToggleLike flips the session user's like on a comment and returns the
// resulting state and count.
func (h *Comments) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	if user.Role == models.RoleGuest {
		respondErr(w, http.StatusForbidden, "Guests cannot like comments.")
		return
	}

	comment, ok := h.resolveComment(w, r)
	if !ok {
		return
	}

	liked, count, err := h.commentStore.ToggleLike(r.Context(), comment.ID, user.ID)
	if err != nil {
		respondInternal(w, "toggle comment like failed", err)
		return
	}

	respondOK(w, map[string]any{
		"comment_id": comment.ID,
		"liked":      liked,
		"likes":      count,
	})
}

// resolveRecipe loads the recipe addressed by {key}. The thread of an
// unapproved recipe is as hidden as the recipe itself.
func (h *Comments) resolveRecipe(w http.ResponseWriter, r *http.Request) (*models.Recipe, bool) {
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
	if !canViewRecipe(r, h.userStore, recipe) {
		respondErr(w, http.StatusNotFound, "Recipe not found.")
		return nil, false
	}
	return recipe, true
}

// resolveComment loads the comment addressed by {commentID}.
func (h *Comments) resolveComment(w http.ResponseWriter, r *http.Request) (*models.Comment, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid comment id")
		return nil, false
	}

	comment, err := h.commentStore.FindByID(r.Context(), id)
	if err != nil {
		respondInternal(w, "comment lookup failed", err)
		return nil, false
	}
	if comment == nil {
		respondErr(w, http.StatusNotFound, "Comment not found.")
		return nil, false
	}
	return comment, true
}

// sessionUser loads the full user record for the session.
func (h *Comments) sessionUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
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
