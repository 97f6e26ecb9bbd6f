// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is attached to a recipe and owned by its author. Editable and
// deletable only by the author or an admin.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	RecipeID  int64     `json:"recipe_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	IsEdited  bool      `json:"is_edited"`
	CreatedAt time.Time `json:"timestamp"`
	UpdatedAt time.Time `json:"updated_at"`

	// Virtual fields populated by store methods.
	Author  string      `json:"author"` // Display name at read time
	Role    Role        `json:"role"`
	Likes   int         `json:"likes"`
	LikedBy []uuid.UUID `json:"liked_by,omitempty"`
}

// ManagedBy reports whether the given user may edit or delete the comment.
func (c *Comment) ManagedBy(u *User) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || c.AuthorID == u.ID
}
