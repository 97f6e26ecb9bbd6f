// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rezepta/internal/models"
)

// CategoryStore manages recipe folders in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, color, parent_id, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Color, &c.ParentID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories in creation order, with recipe counts.
// The count covers recipes directly in the category, not its subtree.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.color, c.parent_id, c.created_at,
		       COUNT(r.id) AS recipe_count
		FROM categories c
		LEFT JOIN recipes r ON r.category_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.ParentID, &c.CreatedAt, &c.RecipeCount)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, name, color string, parentID *uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, color, parent_id)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		name, color, parentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Rename updates a category's name and color.
func (s *CategoryStore) Rename(ctx context.Context, id uuid.UUID, name, color string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, color = $2 WHERE id = $3
	`, name, color, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

// Delete removes a category and reassigns every recipe in its subtree to
// uncategorized first, in one transaction. Subcategory rows themselves
// are cascade-deleted by the parent_id foreign key. subtreeIDs must
// include the category's own id (tree.SubtreeIDs provides it).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID, subtreeIDs []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if len(subtreeIDs) > 0 {
		placeholders := make([]string, len(subtreeIDs))
		args := make([]any, len(subtreeIDs))
		for i, sid := range subtreeIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = sid
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE recipes SET category_id = NULL, updated_at = NOW()
			WHERE category_id IN (`+strings.Join(placeholders, ", ")+`)`, args...)
		if err != nil {
			return fmt.Errorf("reassign recipes: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return tx.Commit()
}
