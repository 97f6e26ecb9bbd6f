// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package filter computes the visible recipe list from four independent
// axes: category (with subtree expansion), free-text search, owning user,
// and a favorites-only toggle. Visible is a pure function; the axes apply
// in a fixed order because search is defined over the entire collection
// regardless of category selection. That override is a product decision:
// users search the whole archive without first clearing their folder.
package filter

import (
	"strings"

	"github.com/google/uuid"

	"rezepta/internal/models"
)

// Params are the filter axes selected by the caller. Zero values mean
// "axis not applied".
type Params struct {
	CategoryID    *uuid.UUID
	Query         string
	UserID        *uuid.UUID
	FavoritesOnly bool
}

// SubtreeFunc expands a category id into the id set of its subtree.
// Typically tree.(*Tree).SubtreeIDs.
type SubtreeFunc func(uuid.UUID) []uuid.UUID

// Visible returns the recipes matching the given params. The input order
// is preserved; no implicit sort is applied. Callers wanting newest-first
// must pass an already-sorted slice.
func Visible(recipes []models.Recipe, p Params, subtree SubtreeFunc) []models.Recipe {
	base := recipes

	switch {
	case strings.TrimSpace(p.Query) != "":
		// Search overrides category selection.
		base = searchAll(recipes, p.Query)
	case p.CategoryID != nil:
		base = inSubtree(recipes, *p.CategoryID, subtree)
	}

	if p.UserID != nil {
		base = keep(base, func(r models.Recipe) bool { return r.UserID == *p.UserID })
	}

	if p.FavoritesOnly {
		base = keep(base, func(r models.Recipe) bool { return r.IsFavorite })
	}

	return base
}

// searchAll matches the case-insensitive query as a substring of the
// title or body, over the entire collection.
func searchAll(recipes []models.Recipe, query string) []models.Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	return keep(recipes, func(r models.Recipe) bool {
		return strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Body), q)
	})
}

// inSubtree keeps recipes whose category is inside the selected subtree.
// Uncategorized recipes never match. Matching is by id only; two
// categories sharing a name are distinct entities.
func inSubtree(recipes []models.Recipe, categoryID uuid.UUID, subtree SubtreeFunc) []models.Recipe {
	members := make(map[uuid.UUID]bool)
	if subtree != nil {
		for _, id := range subtree(categoryID) {
			members[id] = true
		}
	} else {
		members[categoryID] = true
	}
	return keep(recipes, func(r models.Recipe) bool {
		return r.CategoryID != nil && members[*r.CategoryID]
	})
}

func keep(recipes []models.Recipe, pred func(models.Recipe) bool) []models.Recipe {
	var result []models.Recipe
	for _, r := range recipes {
		if pred(r) {
			result = append(result, r)
		}
	}
	return result
}
