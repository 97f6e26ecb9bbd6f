// Package router sets up all HTTP routes and middleware chains for the
// recipe archive API. Routes are organized into public, authenticated,
// and admin groups with matching middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rezepta/internal/handlers"
	"rezepta/internal/middleware"
	"rezepta/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth       *handlers.Auth
	Categories *handlers.Categories
	Recipes    *handlers.Recipes
	Favorites  *handlers.Favorites
	Comments   *handlers.Comments
	Users      *handlers.Users
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned rate limiter guards the login
// endpoint; callers should Stop it on shutdown.
func New(sessionStore *session.Store, h Handlers) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Brute-force guard for credential endpoints.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Authentication.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)

			// 2FA — requires a session but NOT completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
				r.With(loginLimiter.Middleware).Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})

		// Public reads: the archive is browsable without an account.
		r.Get("/categories", h.Categories.List)
		r.Get("/recipes", h.Recipes.List)
		r.Get("/recipes/{key}", h.Recipes.Get)
		r.Get("/recipes/{key}/comments", h.Comments.List)

		// Authenticated area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			// Recipes.
			r.Post("/recipes", h.Recipes.Create)
			r.Put("/recipes/{key}", h.Recipes.Update)
			r.Post("/recipes/{key}/move", h.Recipes.Move)
			r.Post("/recipes/{key}/resubmit", h.Recipes.Resubmit)
			r.Delete("/recipes/{key}", h.Recipes.Delete)

			// Images.
			r.Post("/recipes/{key}/images", h.Recipes.UploadImage)
			r.Delete("/recipes/{key}/images/{imageID}", h.Recipes.DeleteImage)

			// Favorites.
			r.Post("/recipes/{key}/favorite", h.Favorites.Toggle)
			r.Get("/favorites", h.Favorites.List)

			// Comments.
			r.Post("/recipes/{key}/comments", h.Comments.Create)
			r.Put("/recipes/{key}/comments/{commentID}", h.Comments.Update)
			r.Delete("/recipes/{key}/comments/{commentID}", h.Comments.Delete)
			r.Post("/recipes/{key}/comments/{commentID}/like", h.Comments.ToggleLike)
		})

		// Admin area — 2FA-verified admins and sub-admins. Fine-grained
		// sub-admin permissions are enforced inside the handlers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)

			// Folder management.
			r.Post("/categories", h.Categories.Create)
			r.Put("/categories/{id}", h.Categories.Rename)
			r.Delete("/categories/{id}", h.Categories.Delete)

			// Recipe review workflow.
			r.Post("/recipes/{key}/approve", h.Recipes.Approve)
			r.Post("/recipes/{key}/reject", h.Recipes.Reject)

			// User management.
			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users.List)
				r.Post("/", h.Users.Create)
				r.Put("/{id}", h.Users.UpdateAccess)
				r.Post("/{id}/reset-2fa", h.Users.ResetTOTP)
			})
		})
	})

	return r, loginLimiter
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
