package catalog

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /api/catalog.
func SetupRoutes(client *Client, verifier middleware.TokenVerifier) http.Handler {
	h := handlers{client: client}

	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(verifier))
	r.Get("/products", h.products)
	r.Get("/categories", h.categories)
	r.Get("/top-rated", h.topRated)
	return r
}
