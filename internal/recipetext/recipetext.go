// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package recipetext parses free-text recipe bodies. Manually entered
// recipes carry the literal German section markers "Zutaten:"
// (ingredients) and "Zubereitung:" (preparation); digitized bodies are
// unstructured paragraphs and pass through unchanged.
package recipetext

import (
	"strings"
	"unicode/utf8"
)

const (
	// MarkerIngredients starts the ingredients section of a manual recipe.
	MarkerIngredients = "Zutaten:"
	// MarkerPreparation starts the preparation section of a manual recipe.
	MarkerPreparation = "Zubereitung:"

	// maxTitleLen caps titles extracted from a body.
	maxTitleLen = 120
)

// Sections is the result of splitting a manual recipe body.
type Sections struct {
	// Intro is any text before the first marker, often a short headline.
	Intro string `json:"intro"`
	// Ingredients is the text between "Zutaten:" and "Zubereitung:".
	Ingredients string `json:"ingredients"`
	// Preparation is the text after "Zubereitung:".
	Preparation string `json:"preparation"`
}

// IsManual reports whether a body carries both section markers.
func IsManual(body string) bool {
	return strings.Contains(body, MarkerIngredients) && strings.Contains(body, MarkerPreparation)
}

// Split divides a manual body into its sections. For digitized bodies
// (no markers) everything lands in Intro. A body with only one marker is
// split on that marker; the missing section stays empty.
func Split(body string) Sections {
	var s Sections

	rest := body
	if idx := strings.Index(rest, MarkerIngredients); idx >= 0 {
		s.Intro = strings.TrimSpace(rest[:idx])
		rest = rest[idx+len(MarkerIngredients):]
	} else {
		if idx := strings.Index(rest, MarkerPreparation); idx >= 0 {
			s.Intro = strings.TrimSpace(rest[:idx])
			s.Preparation = strings.TrimSpace(rest[idx+len(MarkerPreparation):])
		} else {
			s.Intro = strings.TrimSpace(rest)
		}
		return s
	}

	if idx := strings.Index(rest, MarkerPreparation); idx >= 0 {
		s.Ingredients = strings.TrimSpace(rest[:idx])
		s.Preparation = strings.TrimSpace(rest[idx+len(MarkerPreparation):])
	} else {
		s.Ingredients = strings.TrimSpace(rest)
	}
	return s
}

// TitleFromBody extracts a display title when no stored title exists:
// the first non-empty line that is not a section marker, capped at
// maxTitleLen runes.
func TitleFromBody(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == MarkerIngredients || line == MarkerPreparation {
			continue
		}
		// Lines that begin with a marker carry content, not a headline.
		if strings.HasPrefix(line, MarkerIngredients) || strings.HasPrefix(line, MarkerPreparation) {
			continue
		}
		return truncate(line, maxTitleLen)
	}
	return ""
}

// truncate caps a string at n runes, appending an ellipsis if cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
