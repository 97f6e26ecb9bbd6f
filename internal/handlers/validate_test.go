package handlers

import (
	"strings"
	"testing"
)

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name    string
		catName string
		color   string
		wantErr bool
	}{
		{"valid", "Desserts", "#f59e0b", false},
		{"empty name", "", "#fff", true},
		{"whitespace name", "   ", "#fff", true},
		{"name too long", strings.Repeat("a", 101), "#fff", true},
		{"color too long", "Desserts", strings.Repeat("x", 21), true},
		{"empty color ok", "Desserts", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateCategory(tt.catName, tt.color)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateCategory: got %q, wantErr=%v", msg, tt.wantErr)
			}
		})
	}
}

func TestValidateRecipe(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		body    string
		wantErr bool
	}{
		{"valid", "Apfelkuchen", "Zutaten:\nÄpfel", false},
		{"empty title ok", "", "Zutaten:\nÄpfel", false},
		{"empty body", "Apfelkuchen", "", true},
		{"whitespace body", "Apfelkuchen", "  \n ", true},
		{"title too long", strings.Repeat("t", 301), "body", true},
		{"body too long", "t", strings.Repeat("b", 100_001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateRecipe(tt.title, tt.body)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateRecipe: got %q, wantErr=%v", msg, tt.wantErr)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "Sehr lecker!", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("c", 2_001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateComment(tt.content)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateComment: got %q, wantErr=%v", msg, tt.wantErr)
			}
		})
	}
}
