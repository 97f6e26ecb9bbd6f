// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// FavoriteStore manages the per-user recipe favorite association.
// The favorites table is the single source of truth for favorite flags
// and counts; nothing is derived client-side.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore returns a new FavoriteStore.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Toggle flips the favorite state for (user, recipe) and returns the new
// state. Implemented as delete-then-insert in a transaction so two rapid
// toggles serialize on the row instead of racing.
func (s *FavoriteStore) Toggle(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite delete: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle favorite rows: %w", err)
	}

	favorited := false
	if removed == 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)
		`, userID, recipeID); err != nil {
			return false, fmt.Errorf("toggle favorite insert: %w", err)
		}
		favorited = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("toggle favorite commit: %w", err)
	}
	return favorited, nil
}

// ListRecipeIDs returns the ids of all recipes the user has favorited,
// newest favorite first.
func (s *FavoriteStore) ListRecipeIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns how many users have favorited the recipe.
func (s *FavoriteStore) Count(ctx context.Context, recipeID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorites WHERE recipe_id = $1
	`, recipeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}
