// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// RecipeKind distinguishes how a recipe body was produced.
type RecipeKind string

const (
	// RecipeKindDigitized bodies are unstructured paragraphs from the
	// digitization service.
	RecipeKindDigitized RecipeKind = "digitized"
	// RecipeKindManual bodies carry the literal "Zutaten:" and
	// "Zubereitung:" section markers.
	RecipeKindManual RecipeKind = "manual"
)

// RecipeStatus represents the admin-controlled workflow state of a
// user-submitted recipe.
type RecipeStatus string

const (
	RecipeStatusPending  RecipeStatus = "pending"
	RecipeStatusApproved RecipeStatus = "approved"
	RecipeStatusRejected RecipeStatus = "rejected"
)

// Recipe represents a cooking instruction record. The numeric ID is the
// canonical identifier; LegacyID is an alternate string key still used
// by older imports.
type Recipe struct {
	ID       int64      `json:"id"`
	LegacyID *string    `json:"recipe_id,omitempty"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Kind     RecipeKind `json:"kind"`
	ImageURL *string    `json:"image,omitempty"`

	CategoryID *uuid.UUID   `json:"category_id"` // nil = uncategorized
	UserID     uuid.UUID    `json:"user_id"`
	Status     RecipeStatus `json:"status"`
	CreatedAt  time.Time    `json:"date"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Virtual fields populated by store methods.
	AdditionalImages []RecipeImage `json:"additional_images,omitempty"`
	IsFavorite       bool          `json:"is_favorite"` // Scoped to the viewing user
	FavoriteCount    int           `json:"favorite_count"`
}

// IsApproved returns true if the recipe is visible in the public archive.
func (r *Recipe) IsApproved() bool {
	return r.Status == RecipeStatusApproved
}

// EditableBy reports whether the given user may edit or delete the
// recipe. Admins may edit any recipe, workers only their own, guests none.
func (r *Recipe) EditableBy(u *User) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleSubAdmin:
		return u.Can(PermApproveRecipes) || r.UserID == u.ID
	case RoleWorker:
		return r.UserID == u.ID
	default:
		return false
	}
}

// CanTransition reports whether a status change is a legal workflow
// step. Pending recipes are approved or rejected by an admin; approved
// recipes may be resubmitted by their owner. Rejected is terminal.
func (r *Recipe) CanTransition(to RecipeStatus) bool {
	switch r.Status {
	case RecipeStatusPending:
		return to == RecipeStatusApproved || to == RecipeStatusRejected
	case RecipeStatusApproved:
		return to == RecipeStatusPending
	default:
		return false
	}
}

// RecipeImage is an additional image attached to a recipe, backed by an
// object in S3 storage. Deleted together with its recipe.
type RecipeImage struct {
	ID        uuid.UUID `json:"id"`
	RecipeID  int64     `json:"recipe_id"`
	URL       string    `json:"url"`
	S3Key     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
