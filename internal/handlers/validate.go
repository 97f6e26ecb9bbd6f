package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for user-supplied fields.
const (
	maxNameLen    = 100
	maxTitleLen   = 300
	maxBodyLen    = 100_000
	maxCommentLen = 2_000
	maxColorLen   = 20
)

// validateCategory checks folder form inputs and returns the first error found.
func validateCategory(name, color string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(color) > maxColorLen {
		return "Color is too long (max 20 characters)."
	}
	return ""
}

// validateRecipe checks recipe inputs. The title may be empty; it is then
// derived from the body text.
func validateRecipe(title, body string) string {
	if strings.TrimSpace(body) == "" {
		return "Recipe text is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Recipe text is too long (max 100,000 characters)."
	}
	return ""
}

// validateComment checks comment content.
func validateComment(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Comment text is required."
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "Comment is too long (max 2,000 characters)."
	}
	return ""
}
