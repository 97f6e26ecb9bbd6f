// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"rezepta/internal/database"
	"rezepta/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "rezepta")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "rezepta")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// newTestUser creates a user with a unique email and registers cleanup.
// Deleting the user cascades to their recipes, favorites, and comments.
func newTestUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	ctx := context.Background()
	users := NewUserStore(db)
	email := "test-" + uuid.NewString() + "@rezepta.test"
	u, err := users.Create(ctx, email, "test-password", "Test User", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { users.Delete(context.Background(), u.ID) })
	return u
}

// newTestCategory creates a category with a unique name and registers cleanup.
func newTestCategory(t *testing.T, db *sql.DB, parentID *uuid.UUID) *models.Category {
	t.Helper()

	ctx := context.Background()
	cats := NewCategoryStore(db)
	c, err := cats.Create(ctx, "test-cat-"+uuid.NewString(), "#123456", parentID)
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// newTestRecipe creates a recipe owned by the given user.
func newTestRecipe(t *testing.T, db *sql.DB, userID uuid.UUID, categoryID *uuid.UUID, title string) *models.Recipe {
	t.Helper()

	ctx := context.Background()
	recipes := NewRecipeStore(db)
	r, err := recipes.Create(ctx, &models.Recipe{
		Title:      title,
		Body:       "Zutaten:\nMehl\n\nZubereitung:\nMischen.",
		Kind:       models.RecipeKindManual,
		CategoryID: categoryID,
		UserID:     userID,
		Status:     models.RecipeStatusApproved,
	})
	if err != nil {
		t.Fatalf("create test recipe: %v", err)
	}
	t.Cleanup(func() { recipes.Delete(context.Background(), r.ID) })
	return r
}
