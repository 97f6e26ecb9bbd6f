// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a recipe folder. The hierarchy is at most two
// levels deep: a subcategory's ParentID must reference a top-level
// category. Recipes can have at most one category assigned.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"` // Display hint, e.g. "#ff8800"
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`

	// Virtual fields populated by store methods.
	Children    []Category `json:"children,omitempty"`
	Depth       int        `json:"depth"`
	RecipeCount int        `json:"recipe_count"`
}

// IsTopLevel returns true for categories without a parent.
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}
