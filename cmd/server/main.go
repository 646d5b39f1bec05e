package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminhandler "baaisahab/backend/internal/admin/handler"
	"baaisahab/backend/internal/audit"
	auditrepo "baaisahab/backend/internal/audit/repository"
	authhandler "baaisahab/backend/internal/auth/handler"
	authservice "baaisahab/backend/internal/auth/service"
	"baaisahab/backend/internal/config"
	"baaisahab/backend/internal/db"
	healthhandler "baaisahab/backend/internal/health/handler"
	"baaisahab/backend/internal/policy/engine"
	"baaisahab/backend/internal/security"
	"baaisahab/backend/internal/server"
	"baaisahab/backend/internal/server/middleware"
	sessionrepo "baaisahab/backend/internal/session/repository"
	"baaisahab/backend/internal/telemetry/otel"
	userrepo "baaisahab/backend/internal/user/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	codec, err := security.NewClaimsCodec(cfg.JWTSigningSecret)
	if err != nil {
		return err
	}
	key, err := security.DecodeKey(cfg.TokenEncryptionKey)
	if err != nil {
		return err
	}
	cipher, err := security.NewEnvelopeCipher(key)
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "baaisahab-backend", cfg.OTLPInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	users := userrepo.NewPostgresRepository(database)
	sessions := sessionrepo.NewPostgresRepository(database)
	audits := auditrepo.NewPostgresRepository(database)
	auditLogger := audit.NewLogger(audits, middleware.ClientIP)

	var opts []authservice.Option
	if cfg.StrictSessionBinding {
		opts = append(opts, authservice.WithStrictSessionBinding())
	}
	authSvc := authservice.NewAuthService(users, sessions, codec, cipher,
		security.NewHasher(cfg.BcryptCost), auditLogger, cfg.AccessTTL(), opts...)

	evaluator, err := engine.NewOPAEvaluator(ctx)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Deps{
		Auth:      authhandler.NewHandler(authSvc),
		Admin:     adminhandler.NewHandler(users, sessions, audits, evaluator),
		Health:    healthhandler.NewHandler(database, evaluator),
		Validator: authSvc,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("HTTP server stopped")
	return nil
}
