package dashboard

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/go-chi/chi/v5"
)

func StatsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := Compute(r.Context())
	if err != nil {
		apierror.Write(w, r, apierror.Internal(err))
		return
	}
	utils.JSON(w, r, http.StatusOK, map[string]any{"success": true, "stats": s})
}

// SetupRoutes serves /api/dashboard.
func SetupRoutes(verifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(verifier))
	r.Get("/stats", StatsHandler)
	return r
}
