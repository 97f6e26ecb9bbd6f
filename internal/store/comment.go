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

// CommentStore handles recipe comments and their likes.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `c.id, c.recipe_id, c.author_id, c.content, c.is_edited, c.created_at, c.updated_at, u.name, u.role`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.RecipeID, &c.AuthorID, &c.Content, &c.IsEdited,
		&c.CreatedAt, &c.UpdatedAt, &c.Author, &c.Role,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByRecipe returns a recipe's comments oldest first, with author
// display data and like sets attached.
func (s *CommentStore) ListByRecipe(ctx context.Context, recipeID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.recipe_id = $1
		ORDER BY c.created_at ASC, c.id
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		index[c.ID] = len(items)
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	// One query for all like rows of this recipe's comments.
	likeRows, err := s.db.QueryContext(ctx, `
		SELECT cl.comment_id, cl.user_id
		FROM comment_likes cl
		JOIN comments c ON c.id = cl.comment_id
		WHERE c.recipe_id = $1
		ORDER BY cl.created_at
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list comment likes: %w", err)
	}
	defer likeRows.Close()

	for likeRows.Next() {
		var commentID, userID uuid.UUID
		if err := likeRows.Scan(&commentID, &userID); err != nil {
			return nil, fmt.Errorf("scan comment like: %w", err)
		}
		if i, ok := index[commentID]; ok {
			items[i].LikedBy = append(items[i].LikedBy, userID)
			items[i].Likes++
		}
	}
	return items, likeRows.Err()
}

// FindByID retrieves a comment by id. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment and returns it with author data attached.
func (s *CommentStore) Create(ctx context.Context, recipeID int64, authorID uuid.UUID, content string) (*models.Comment, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (recipe_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`, recipeID, authorID, content).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update replaces a comment's content and marks it edited.
func (s *CommentStore) Update(ctx context.Context, id uuid.UUID, content string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE comments SET content = $1, is_edited = TRUE, updated_at = NOW()
		WHERE id = $2
	`, content, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment; its likes cascade.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ToggleLike flips the like state for (comment, user) and returns the
// new state plus the resulting like count.
func (s *CommentStore) ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2
	`, commentID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like delete: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("toggle like rows: %w", err)
	}

	liked := false
	if removed == 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)
		`, commentID, userID); err != nil {
			return false, 0, fmt.Errorf("toggle like insert: %w", err)
		}
		liked = true
	}

	var count int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1
	`, commentID).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("toggle like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("toggle like commit: %w", err)
	}
	return liked, count, nil
}
