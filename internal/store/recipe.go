// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"rezepta/internal/models"
)

// RecipeStore handles all recipe-related database operations.
type RecipeStore struct {
	db *sql.DB
}

// NewRecipeStore creates a new RecipeStore with the given database connection.
func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// recipeSelect returns recipe rows enriched with the viewing user's
// favorite flag and the total favorite count. The favorites table is the
// single source of truth for both.
const recipeSelect = `
	SELECT r.id, r.legacy_id, r.title, r.body, r.kind, r.image_url,
	       r.category_id, r.user_id, r.status, r.created_at, r.updated_at,
	       EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $1) AS is_favorite,
	       (SELECT COUNT(*) FROM favorites f WHERE f.recipe_id = r.id) AS favorite_count
	FROM recipes r`

func scanRecipe(scanner interface{ Scan(...any) error }) (*models.Recipe, error) {
	var r models.Recipe
	err := scanner.Scan(
		&r.ID, &r.LegacyID, &r.Title, &r.Body, &r.Kind, &r.ImageURL,
		&r.CategoryID, &r.UserID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
		&r.IsFavorite, &r.FavoriteCount,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns all recipes, newest first. viewerID scopes the favorite
// flag; pass uuid.Nil for anonymous viewers.
func (s *RecipeStore) List(ctx context.Context, viewerID uuid.UUID) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, recipeSelect+`
		ORDER BY r.created_at DESC, r.id DESC
	`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return collectRecipes(rows)
}

// ListByStatus returns recipes in the given workflow state, newest first.
func (s *RecipeStore) ListByStatus(ctx context.Context, status models.RecipeStatus, viewerID uuid.UUID) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, recipeSelect+`
		WHERE r.status = $2
		ORDER BY r.created_at DESC, r.id DESC
	`, viewerID, status)
	if err != nil {
		return nil, fmt.Errorf("list recipes by status: %w", err)
	}
	return collectRecipes(rows)
}

func collectRecipes(rows *sql.Rows) ([]models.Recipe, error) {
	defer rows.Close()
	var items []models.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// FindByID retrieves a recipe by its numeric id. Returns nil if not found.
func (s *RecipeStore) FindByID(ctx context.Context, id int64, viewerID uuid.UUID) (*models.Recipe, error) {
	row := s.db.QueryRowContext(ctx, recipeSelect+` WHERE r.id = $2`, viewerID, id)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe by id: %w", err)
	}
	return r, nil
}

// FindByAnyID resolves a recipe from either its canonical numeric id or
// the legacy string key older imports still carry. A failed resolution
// returns ErrNotFound so callers can surface a data-consistency error
// distinct from transport failures.
func (s *RecipeStore) FindByAnyID(ctx context.Context, key string, viewerID uuid.UUID) (*models.Recipe, error) {
	if n, err := strconv.ParseInt(key, 10, 64); err == nil {
		r, err := s.FindByID(ctx, n, viewerID)
		if err != nil {
			return nil, err
		}
		if r != nil {
			return r, nil
		}
		// Fall through: a purely numeric legacy key is possible.
	}

	row := s.db.QueryRowContext(ctx, recipeSelect+` WHERE r.legacy_id = $2`, viewerID, key)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resolve recipe %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe by legacy id: %w", err)
	}
	return r, nil
}

// Create inserts a new recipe and returns it with the assigned numeric id.
func (s *RecipeStore) Create(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO recipes (legacy_id, title, body, kind, image_url, category_id, user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, legacy_id, title, body, kind, image_url,
		          category_id, user_id, status, created_at, updated_at,
		          FALSE, 0
	`, r.LegacyID, r.Title, r.Body, r.Kind, r.ImageURL, r.CategoryID, r.UserID, r.Status)
	result, err := scanRecipe(row)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return result, nil
}

// Update modifies a recipe's content fields. Category and status are
// changed through Move and SetStatus, never here.
func (s *RecipeStore) Update(ctx context.Context, r *models.Recipe) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET
			title = $1, body = $2, kind = $3, image_url = $4, updated_at = NOW()
		WHERE id = $5
	`, r.Title, r.Body, r.Kind, r.ImageURL, r.ID)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	return nil
}

// Move changes a recipe's category. nil means uncategorized.
func (s *RecipeStore) Move(ctx context.Context, id int64, categoryID *uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET category_id = $1, updated_at = NOW() WHERE id = $2
	`, categoryID, id)
	if err != nil {
		return fmt.Errorf("move recipe: %w", err)
	}
	return nil
}

// SetStatus records a workflow transition. Legality of the transition is
// checked by the caller via models.Recipe.CanTransition.
func (s *RecipeStore) SetStatus(ctx context.Context, id int64, status models.RecipeStatus) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set recipe status: %w", err)
	}
	return nil
}

// Delete removes a recipe. Comments, favorites, and image rows cascade
// via foreign keys; S3 objects are the caller's responsibility.
func (s *RecipeStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// CountByStatus returns the number of recipes in a workflow state.
func (s *RecipeStore) CountByStatus(ctx context.Context, status models.RecipeStatus) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}
