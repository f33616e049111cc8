package auth

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /api/admin.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(20, 5)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Post("/register", RegisterHandler)
		r.Post("/login", LoginHandler)
	})
	r.Post("/logout", LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(Tokens))
		r.Get("/me", MeHandler)

		r.With(middleware.RequireRole(RoleAdmin)).Post("/send-password", SendPasswordHandler)
	})

	return r
}

// SetupVerifyRoutes serves /auth.
func SetupVerifyRoutes() http.Handler {
	r := chi.NewRouter()
	r.With(middleware.RequireAuth(Tokens)).Get("/verify", VerifyHandler)
	return r
}
