package users

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /api/users. Creation stays public so the enrollment form
// works without a session.
func SetupRoutes(verifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	r.Post("/", CreateUserHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(verifier))
		r.Get("/", ListUsersHandler)
		r.Get("/{id}", GetUserHandler)
		r.Put("/{id}", UpdateUserHandler)
		r.Delete("/{id}", DeleteUserHandler)
	})

	return r
}
