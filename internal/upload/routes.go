package upload

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/EmpoweredVote/EV-Dashboard/internal/storage"
	"github.com/go-chi/chi/v5"
)

// ObjectStore receives uploads. Nil means every upload is stored inline.
var ObjectStore storage.ObjectStore

func Init(store storage.ObjectStore) {
	ObjectStore = store
}

// SetupRoutes serves /api/upload.
func SetupRoutes(verifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(verifier))
	r.Post("/profile-picture", ProfilePictureHandler)
	return r
}
