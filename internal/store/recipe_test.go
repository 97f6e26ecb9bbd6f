package store

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"rezepta/internal/models"
)

func TestRecipeCreateAssignsNumericID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recipes := NewRecipeStore(db)

	user := newTestUser(t, db, models.RoleWorker)
	r := newTestRecipe(t, db, user.ID, nil, "test-id-"+uuid.NewString())

	if r.ID <= 0 {
		t.Fatalf("expected positive numeric id, got %d", r.ID)
	}

	found, err := recipes.FindByID(ctx, r.ID, uuid.Nil)
	if err != nil || found == nil {
		t.Fatalf("find recipe after create: %v", err)
	}
	if found.Title != r.Title {
		t.Errorf("expected title %q, got %q", r.Title, found.Title)
	}
	if found.Kind != models.RecipeKindManual {
		t.Errorf("expected kind manual, got %q", found.Kind)
	}
}

func TestRecipeFindByAnyID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recipes := NewRecipeStore(db)

	user := newTestUser(t, db, models.RoleWorker)
	legacy := "legacy-" + uuid.NewString()
	r, err := recipes.Create(ctx, &models.Recipe{
		LegacyID: &legacy,
		Title:    "test-any-" + uuid.NewString(),
		Body:     "body",
		Kind:     models.RecipeKindDigitized,
		UserID:   user.ID,
		Status:   models.RecipeStatusApproved,
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	t.Cleanup(func() { recipes.Delete(context.Background(), r.ID) })

	// Canonical numeric id.
	byNum, err := recipes.FindByAnyID(ctx, strconv.FormatInt(r.ID, 10), uuid.Nil)
	if err != nil {
		t.Fatalf("resolve by numeric id: %v", err)
	}
	if byNum.ID != r.ID {
		t.Errorf("expected recipe %d, got %d", r.ID, byNum.ID)
	}

	// Legacy string key.
	byLegacy, err := recipes.FindByAnyID(ctx, legacy, uuid.Nil)
	if err != nil {
		t.Fatalf("resolve by legacy id: %v", err)
	}
	if byLegacy.ID != r.ID {
		t.Errorf("expected recipe %d, got %d", r.ID, byLegacy.ID)
	}

	// Unknown keys surface ErrNotFound.
	_, err = recipes.FindByAnyID(ctx, "no-such-key-"+uuid.NewString(), uuid.Nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecipeUpdate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recipes := NewRecipeStore(db)

	user := newTestUser(t, db, models.RoleWorker)
	r := newTestRecipe(t, db, user.ID, nil, "test-update-"+uuid.NewString())

	r.Title = "test-updated-" + uuid.NewString()
	r.Body = "Zutaten:\nZucker\n\nZubereitung:\nVerrühren."
	if err := recipes.Update(ctx, r); err != nil {
		t.Fatalf("update recipe: %v", err)
	}

	found, err := recipes.FindByID(ctx, r.ID, uuid.Nil)
	if err != nil || found == nil {
		t.Fatalf("find recipe after update: %v", err)
	}
	if found.Title != r.Title {
		t.Errorf("expected title %q, got %q", r.Title, found.Title)
	}
	if found.Body != r.Body {
		t.Error("expected body to be updated")
	}
}

func TestRecipeMove(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recipes := NewRecipeStore(db)

	user := newTestUser(t, db, models.RoleWorker)
	from := newTestCategory(t, db, nil)
	to := newTestCategory(t, db, nil)
	r := newTestRecipe(t, db, user.ID, &from.ID, "test-move-"+uuid.NewString())

	if err := recipes.Move(ctx, r.ID, &to.ID); err != nil {
		t.Fatalf("move recipe: %v", err)
	}
	found, err := recipes.FindByID(ctx, r.ID, uuid.Nil)
	if err != nil || found == nil {
		t.Fatalf("find recipe after move: %v", err)
	}
	if found.CategoryID == nil || *found.CategoryID != to.ID {
		t.Error("expected recipe in target category")
	}

	// Moving to nil uncategorizes.
	if err := recipes.Move(ctx, r.ID, nil); err != nil {
		t.Fatalf("move recipe to uncategorized: %v", err)
	}
	found, err = recipes.FindByID(ctx, r.ID, uuid.Nil)
	if err != nil || found == nil {
		t.Fatalf("find recipe after uncategorize: %v", err)
	}
	if found.CategoryID != nil {
		t.Error("expected recipe to be uncategorized")
	}
}

func TestRecipeStatusWorkflow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recipes := NewRecipeStore(db)

	user := newTestUser(t, db, models.RoleWorker)
	r, err := recipes.Create(ctx, &models.Recipe{
		Title:  "test-workflow-" + uuid.NewString(),
		Body:   "body",
		Kind:   models.RecipeKindDigitized,
		UserID: user.ID,
		Status: models.RecipeStatusPending,
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	t.Cleanup(func() { recipes.Delete(context.Background(), r.ID) })

	if err := recipes.SetStatus(ctx, r.ID, models.RecipeStatusApproved); err != nil {
		t.Fatalf("approve recipe: %v", err)
	}

	found, err := recipes.FindByID(ctx, r.ID, uuid.Nil)
	if err != nil || found == nil {
		t.Fatalf("find recipe after approve: %v", err)
	}
	if found.Status != models.RecipeStatusApproved {
		t.Errorf("expected status approved, got %q", found.Status)
	}
}

func TestRecipeCountByStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	recipes := NewRecipeStore(db)

	before, err := recipes.CountByStatus(ctx, models.RecipeStatusPending)
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}

	user := newTestUser(t, db, models.RoleWorker)
	r, err := recipes.Create(ctx, &models.Recipe{
		Title:  "test-count-" + uuid.NewString(),
		Body:   "body",
		Kind:   models.RecipeKindDigitized,
		UserID: user.ID,
		Status: models.RecipeStatusPending,
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	t.Cleanup(func() { recipes.Delete(context.Background(), r.ID) })

	after, err := recipes.CountByStatus(ctx, models.RecipeStatusPending)
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if after != before+1 {
		t.Errorf("expected pending count %d, got %d", before+1, after)
	}
}
