package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"rezepta/internal/models"
)

func TestFavoriteToggle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	favorites := NewFavoriteStore(db)
	recipes := NewRecipeStore(db)

	user := newTestUser(t, db, models.RoleWorker)
	r := newTestRecipe(t, db, user.ID, nil, "test-fav-"+uuid.NewString())

	// First toggle favorites.
	on, err := favorites.Toggle(ctx, user.ID, r.ID)
	if err != nil {
		t.Fatalf("toggle favorite: %v", err)
	}
	if !on {
		t.Error("expected first toggle to favorite")
	}

	found, err := recipes.FindByID(ctx, r.ID, user.ID)
	if err != nil || found == nil {
		t.Fatalf("find recipe: %v", err)
	}
	if !found.IsFavorite {
		t.Error("expected is_favorite for toggling user")
	}
	if found.FavoriteCount != 1 {
		t.Errorf("expected favorite count 1, got %d", found.FavoriteCount)
	}

	// A different viewer sees the count but not the flag.
	other := newTestUser(t, db, models.RoleWorker)
	found, err = recipes.FindByID(ctx, r.ID, other.ID)
	if err != nil || found == nil {
		t.Fatalf("find recipe as other user: %v", err)
	}
	if found.IsFavorite {
		t.Error("expected is_favorite false for other user")
	}
	if found.FavoriteCount != 1 {
		t.Errorf("expected favorite count 1, got %d", found.FavoriteCount)
	}

	// Second toggle restores the original state.
	on, err = favorites.Toggle(ctx, user.ID, r.ID)
	if err != nil {
		t.Fatalf("toggle favorite again: %v", err)
	}
	if on {
		t.Error("expected second toggle to unfavorite")
	}
	count, err := favorites.Count(ctx, r.ID)
	if err != nil {
		t.Fatalf("count favorites: %v", err)
	}
	if count != 0 {
		t.Errorf("expected favorite count 0, got %d", count)
	}
}

func TestFavoriteListRecipeIDs(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	favorites := NewFavoriteStore(db)

	user := newTestUser(t, db, models.RoleWorker)
	r1 := newTestRecipe(t, db, user.ID, nil, "test-favlist-"+uuid.NewString())
	r2 := newTestRecipe(t, db, user.ID, nil, "test-favlist-"+uuid.NewString())

	for _, id := range []int64{r1.ID, r2.ID} {
		if _, err := favorites.Toggle(ctx, user.ID, id); err != nil {
			t.Fatalf("toggle favorite: %v", err)
		}
	}

	ids, err := favorites.ListRecipeIDs(ctx, user.ID)
	if err != nil {
		t.Fatalf("list favorite ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(ids))
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[r1.ID] || !seen[r2.ID] {
		t.Error("expected both recipes in favorites list")
	}
}
