package products

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /api/products. Every route needs a session.
func SetupRoutes(verifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(verifier))

	r.Get("/", ListProductsHandler)
	r.Post("/", CreateProductHandler)
	r.Get("/categories", CategoriesHandler)
	r.Post("/import", ImportHandler)
	r.Get("/{id}", GetProductHandler)
	r.Put("/{id}", UpdateProductHandler)
	r.Delete("/{id}", DeleteProductHandler)

	return r
}
