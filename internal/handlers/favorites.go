package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rezepta/internal/middleware"
	"rezepta/internal/store"
)

// Favorites groups the per-user favorite endpoints. The favorites table
// is authoritative: the toggle response reports the state the database
// now holds, not what the client guessed.
type Favorites struct {
	favoriteStore *store.FavoriteStore
	recipeStore   *store.RecipeStore
	userStore     *store.UserStore
}

// NewFavorites creates a new Favorites handler group.
func NewFavorites(favoriteStore *store.FavoriteStore, recipeStore *store.RecipeStore, userStore *store.UserStore) *Favorites {
	return &Favorites{
		favoriteStore: favoriteStore,
		recipeStore:   recipeStore,
		userStore:     userStore,
	}
}

// Toggle flips the favorite state for the session user and the addressed
// recipe, returning the new state and total count. Recipes the viewer may
// not see cannot be favorited either.
func (h *Favorites) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, http.StatusUnauthorized, "authentication required")
		return
	}

	key := chi.URLParam(r, "key")
	recipe, err := h.recipeStore.FindByAnyID(r.Context(), key, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "Recipe not found.")
			return
		}
		respondInternal(w, "recipe lookup failed", err)
		return
	}
	if !canViewRecipe(r, h.userStore, recipe) {
		respondErr(w, http.StatusNotFound, "Recipe not found.")
		return
	}

	favorited, err := h.favoriteStore.Toggle(r.Context(), sess.UserID, recipe.ID)
	if err != nil {
		respondInternal(w, "toggle favorite failed", err)
		return
	}

	count, err := h.favoriteStore.Count(r.Context(), recipe.ID)
	if err != nil {
		respondInternal(w, "count favorites failed", err)
		return
	}

	respondOK(w, map[string]any{
		"recipe_id":      recipe.ID,
		"is_favorite":    favorited,
		"favorite_count": count,
	})
}

// List returns the ids of the session user's favorite recipes, newest
// favorite first.
func (h *Favorites) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ids, err := h.favoriteStore.ListRecipeIDs(r.Context(), sess.UserID)
	if err != nil {
		respondInternal(w, "list favorites failed", err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	respondOK(w, ids)
}
