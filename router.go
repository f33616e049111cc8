package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/auth"
	"github.com/EmpoweredVote/EV-Dashboard/internal/catalog"
	"github.com/EmpoweredVote/EV-Dashboard/internal/config"
	"github.com/EmpoweredVote/EV-Dashboard/internal/contact"
	"github.com/EmpoweredVote/EV-Dashboard/internal/dashboard"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/EmpoweredVote/EV-Dashboard/internal/products"
	"github.com/EmpoweredVote/EV-Dashboard/internal/upload"
	"github.com/EmpoweredVote/EV-Dashboard/internal/users"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		zap.L().Warn("health check failed", zap.Error(err))
		utils.JSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "down"})
		return
	}
	utils.JSON(w, r, http.StatusOK, map[string]string{"status": "ok", "db": "up"})
}

func newRouter(cfg config.Config, lg *zap.Logger, tokens middleware.TokenVerifier, catalogClient *catalog.Client) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(lg))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.ClientOrigins))

	r.NotFound(apierror.NotFoundHandler)
	r.MethodNotAllowed(apierror.MethodNotAllowedHandler)

	r.Get("/", RootHandler)
	r.Get("/healthz", HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Mount("/api/admin", auth.SetupRoutes())
		r.Mount("/auth", auth.SetupVerifyRoutes())
		r.Mount("/api/users", users.SetupRoutes(tokens))
		r.Mount("/api/products", products.SetupRoutes(tokens))
		r.Mount("/api/upload", upload.SetupRoutes(tokens))
		r.Mount("/api/catalog", catalog.SetupRoutes(catalogClient, tokens))
		r.Mount("/api/dashboard", dashboard.SetupRoutes(tokens))
		r.Mount("/api/contact", contact.SetupRoutes())
	})

	return r
}
