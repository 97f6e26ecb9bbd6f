// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"rezepta/internal/cache"
	"rezepta/internal/database"
	"rezepta/internal/middleware"
	"rezepta/internal/models"
	"rezepta/internal/session"
	"rezepta/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "rezepta")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "rezepta")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "categories:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Sessions      *session.Store
	Cache         *cache.CategoryCache
	UserStore     *store.UserStore
	CategoryStore *store.CategoryStore
	RecipeStore   *store.RecipeStore
	FavoriteStore *store.FavoriteStore
	CommentStore  *store.CommentStore
	ImageStore    *store.ImageStore
	Auth          *Auth
	Categories    *Categories
	Recipes       *Recipes
	Favorites     *Favorites
	Comments      *Comments
	Users         *Users
}

// newTestEnv creates a complete test environment with all handler dependencies.
// Object storage is nil; image endpoints respond 503 in tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	categoryCache := cache.NewCategoryCache(vk, 1*time.Minute)

	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	recipeStore := store.NewRecipeStore(db)
	favoriteStore := store.NewFavoriteStore(db)
	commentStore := store.NewCommentStore(db)
	imageStore := store.NewImageStore(db)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Sessions:      sessions,
		Cache:         categoryCache,
		UserStore:     userStore,
		CategoryStore: categoryStore,
		RecipeStore:   recipeStore,
		FavoriteStore: favoriteStore,
		CommentStore:  commentStore,
		ImageStore:    imageStore,
		Auth:          NewAuth(sessions, userStore),
		Categories:    NewCategories(categoryStore, userStore, categoryCache),
		Recipes:       NewRecipes(recipeStore, categoryStore, userStore, imageStore, commentStore, nil, categoryCache),
		Favorites:     NewFavorites(favoriteStore, recipeStore, userStore),
		Comments:      NewComments(commentStore, recipeStore, userStore),
		Users:         NewUsers(userStore),
	}
}

// newTestUser creates a user with a unique email and registers cleanup.
func (env *testEnv) newTestUser(t *testing.T, role models.Role) *models.User {
	t.Helper()

	email := "test-" + uuid.NewString() + "@rezepta.test"
	u, err := env.UserStore.Create(context.Background(), email, "test-password", "Test User", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { env.UserStore.Delete(context.Background(), u.ID) })
	return u
}

// newTestRecipe creates a recipe owned by the given user and registers cleanup.
func (env *testEnv) newTestRecipe(t *testing.T, userID uuid.UUID, status models.RecipeStatus) *models.Recipe {
	t.Helper()

	r, err := env.RecipeStore.Create(context.Background(), &models.Recipe{
		Title:  "test-recipe-" + uuid.NewString(),
		Body:   "Zutaten:\nMehl, Zucker\n\nZubereitung:\nAlles verrühren und backen.",
		Kind:   models.RecipeKindManual,
		UserID: userID,
		Status: status,
	})
	if err != nil {
		t.Fatalf("create test recipe: %v", err)
	}
	t.Cleanup(func() { env.RecipeStore.Delete(context.Background(), r.ID) })
	return r
}

// sessionFor builds session data for a user, 2FA complete.
func sessionFor(u *models.User) *session.Data {
	return &session.Data{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.Name,
		Role:        u.Role,
		TwoFADone:   true,
	}
}

// withSession adds session data to a request context using the middleware key.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both a chi URL param and session data.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}
