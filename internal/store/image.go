// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rezepta/internal/models"
)

// ImageStore tracks additional recipe images. Each row backs an object
// in S3 storage; the recipe's primary image lives on the recipe row.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore returns a new ImageStore.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

const imageColumns = `id, recipe_id, url, s3_key, created_at`

// Add records an uploaded image for a recipe.
func (s *ImageStore) Add(ctx context.Context, recipeID int64, url, s3Key string) (*models.RecipeImage, error) {
	var img models.RecipeImage
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO recipe_images (recipe_id, url, s3_key)
		VALUES ($1, $2, $3)
		RETURNING `+imageColumns,
		recipeID, url, s3Key,
	).Scan(&img.ID, &img.RecipeID, &img.URL, &img.S3Key, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add recipe image: %w", err)
	}
	return &img, nil
}

// ListByRecipe returns a recipe's additional images in upload order.
func (s *ImageStore) ListByRecipe(ctx context.Context, recipeID int64) ([]models.RecipeImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+imageColumns+` FROM recipe_images
		WHERE recipe_id = $1 ORDER BY created_at, id
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe images: %w", err)
	}
	defer rows.Close()

	var items []models.RecipeImage
	for rows.Next() {
		var img models.RecipeImage
		if err := rows.Scan(&img.ID, &img.RecipeID, &img.URL, &img.S3Key, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe image: %w", err)
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

// FindByID retrieves an image row. Returns nil if not found.
func (s *ImageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RecipeImage, error) {
	var img models.RecipeImage
	err := s.db.QueryRowContext(ctx, `
		SELECT `+imageColumns+` FROM recipe_images WHERE id = $1
	`, id).Scan(&img.ID, &img.RecipeID, &img.URL, &img.S3Key, &img.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe image: %w", err)
	}
	return &img, nil
}

// Delete removes an image row.
func (s *ImageStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipe_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe image: %w", err)
	}
	return nil
}
