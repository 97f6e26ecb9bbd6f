// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree holds an in-memory snapshot of the category hierarchy and
// answers subtree-membership queries. The product supports at most one
// level of nesting (category -> subcategory), but the walk is written
// recursively with a visited set so a malformed parent reference coming
// out of the database cannot loop it forever.
package tree

import (
	"github.com/google/uuid"

	"rezepta/internal/models"
)

// Tree is an immutable index over a flat category list. Build one per
// request from a store or cache snapshot; it is cheap.
type Tree struct {
	ordered []models.Category
	byID    map[uuid.UUID]models.Category
}

// New builds a Tree from a flat snapshot. Rows with a duplicate id keep
// the first occurrence.
func New(categories []models.Category) *Tree {
	t := &Tree{
		byID: make(map[uuid.UUID]models.Category, len(categories)),
	}
	for _, c := range categories {
		if _, seen := t.byID[c.ID]; seen {
			continue
		}
		t.byID[c.ID] = c
		t.ordered = append(t.ordered, c)
	}
	return t
}

// Len returns the number of distinct categories in the snapshot.
func (t *Tree) Len() int {
	return len(t.ordered)
}

// Get returns the category with the given id, or false if unknown.
func (t *Tree) Get(id uuid.UUID) (models.Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// MainCategories returns all top-level categories in snapshot order.
// Rows sharing a name are collapsed to the first occurrence; older data
// sets contain duplicate rows for the same logical category.
func (t *Tree) MainCategories() []models.Category {
	return dedupeByName(t.childrenOf(nil))
}

// Subcategories returns the direct children of the given category,
// deduplicated by name within the parent.
func (t *Tree) Subcategories(parentID uuid.UUID) []models.Category {
	return dedupeByName(t.childrenOf(&parentID))
}

// SubtreeIDs returns the category's own id plus the ids of all its
// descendants, depth-first. An unknown id yields just that id, so
// filtering by a stale category silently matches nothing rather than
// erroring. The visited set makes the walk terminate even if parent
// references form a cycle.
func (t *Tree) SubtreeIDs(id uuid.UUID) []uuid.UUID {
	visited := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	t.collect(id, visited, &ids)
	return ids
}

// Contains reports whether candidate is inside the subtree rooted at root.
func (t *Tree) Contains(root, candidate uuid.UUID) bool {
	for _, id := range t.SubtreeIDs(root) {
		if id == candidate {
			return true
		}
	}
	return false
}

func (t *Tree) collect(id uuid.UUID, visited map[uuid.UUID]bool, ids *[]uuid.UUID) {
	if visited[id] {
		return
	}
	visited[id] = true
	*ids = append(*ids, id)
	for _, c := range t.ordered {
		if c.ParentID != nil && *c.ParentID == id {
			t.collect(c.ID, visited, ids)
		}
	}
}

func (t *Tree) childrenOf(parentID *uuid.UUID) []models.Category {
	var result []models.Category
	for _, c := range t.ordered {
		if ptrEqual(c.ParentID, parentID) {
			result = append(result, c)
		}
	}
	return result
}

// dedupeByName keeps the first category for each name.
func dedupeByName(cats []models.Category) []models.Category {
	seen := make(map[string]bool, len(cats))
	var result []models.Category
	for _, c := range cats {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		result = append(result, c)
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
