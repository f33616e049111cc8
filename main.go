package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/auth"
	"github.com/EmpoweredVote/EV-Dashboard/internal/catalog"
	"github.com/EmpoweredVote/EV-Dashboard/internal/config"
	"github.com/EmpoweredVote/EV-Dashboard/internal/contact"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/logging"
	"github.com/EmpoweredVote/EV-Dashboard/internal/mailer"
	"github.com/EmpoweredVote/EV-Dashboard/internal/products"
	"github.com/EmpoweredVote/EV-Dashboard/internal/storage"
	"github.com/EmpoweredVote/EV-Dashboard/internal/upload"
	"github.com/EmpoweredVote/EV-Dashboard/internal/users"
	"go.uber.org/zap"
)

const shutdownGrace = 10 * time.Second

func main() {
	config.LoadEnvFiles()
	cfg := config.Load()

	lg, flush, err := logging.Install(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer flush()

	if err := cfg.Validate(); err != nil {
		lg.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db.Connect(cfg.DatabaseURL)

	sender := mailer.Shared(cfg.Email)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	auth.Init(tokens, sender, cfg.CookieSecure)
	users.Init()
	products.Init()
	contact.Init(cfg.ContactEmail, sender)
	upload.Init(objectStore(ctx, cfg.AWS))

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, catalogCache(ctx, cfg.RedisURL), cfg.CatalogCacheTTL)
	defer catalogClient.Close()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           newRouter(cfg, lg, tokens, catalogClient),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// objectStore returns nil when S3 is not configured or unusable; uploads then
// fall back to inline data URLs.
func objectStore(ctx context.Context, cfg config.AWSConfig) storage.ObjectStore {
	if !cfg.Enabled() {
		zap.L().Warn("AWS_S3_BUCKET not set; profile pictures will be stored inline")
		return nil
	}
	s3, err := storage.NewS3(ctx, cfg)
	if err != nil {
		zap.L().Error("S3 unavailable; profile pictures will be stored inline", zap.Error(err))
		return nil
	}
	return s3
}

// catalogCache returns nil (no caching) without a reachable redis.
func catalogCache(ctx context.Context, redisURL string) catalog.Cache {
	if redisURL == "" {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	c, err := catalog.NewRedisCache(pingCtx, redisURL)
	if err != nil {
		zap.L().Warn("Redis unavailable; catalog responses will not be cached", zap.Error(err))
		return nil
	}
	return c
}
