package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin user plus a small category tree and two
// sample recipes if no users exist yet. The admin will be prompted to
// set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, status, totp_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, "admin@rezepta.local", string(hash), "Admin", "admin", "active", false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A small starter hierarchy so the archive isn't empty in dev.
	var dessertsID string
	err = db.QueryRow(`
		INSERT INTO categories (name, color) VALUES ($1, $2) RETURNING id
	`, "Desserts", "#f59e0b").Scan(&dessertsID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	var cakesID string
	err = db.QueryRow(`
		INSERT INTO categories (name, color, parent_id) VALUES ($1, $2, $3) RETURNING id
	`, "Cakes", "#f97316", dessertsID).Scan(&cakesID)
	if err != nil {
		return fmt.Errorf("seed insert subcategory: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO recipes (title, body, kind, category_id, user_id, status)
		VALUES
			($1, $2, 'manual', $3, $4, 'approved'),
			($5, $6, 'digitized', NULL, $4, 'approved')
	`,
		"Omas Apfelkuchen",
		"Omas Apfelkuchen\n\nZutaten:\n500g Mehl\n3 Äpfel\n200g Zucker\n\nZubereitung:\nTeig kneten, Äpfel einarbeiten, 45 Minuten backen.",
		cakesID, adminID,
		"Gulasch",
		"Ein deftiges Gulasch für kalte Tage. Zwiebeln anbraten, Fleisch zugeben und zwei Stunden schmoren.",
	)
	if err != nil {
		return fmt.Errorf("seed insert recipes: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@rezepta.local",
		"password", "admin",
	)

	return nil
}
