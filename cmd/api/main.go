package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-sync/config"
	"pet-sync/internal/adapters/auth/odin"
	"pet-sync/internal/platform/logger"
	"pet-sync/internal/ports/auth"
	"pet-sync/internal/router"
	"pet-sync/internal/session"
)

// @title        pet-sync session API
// @version      1.0
// @description  View sessions over the pets backend: draft, optimistic create, reconciliation.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	l := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logger.Level),
		Format: logger.ParseFormat(cfg.Logger.Encoding),
		App:    "pet-sync-api",
	})
	defer func() { _ = l.Sync() }()

	verifier, err := newVerifier(cfg.Odin)
	if err != nil {
		l.Error("odin client", map[string]any{"err": err})
		os.Exit(1)
	}
	if verifier == nil {
		l.Warn("odin not configured, running in dev mode (X-Debug-User-ID)", nil)
	}

	factory, err := router.BackendCollaborators(router.BackendOptions{
		BaseURL:     cfg.Backend.URL,
		GraphQLPath: cfg.Backend.GraphQLPath,
		BreedsPath:  cfg.Backend.BreedsPath,
		Timeout:     cfg.Backend.Timeout,
	})
	if err != nil {
		l.Error("backend collaborators", map[string]any{"err": err, "backend_url": cfg.Backend.URL})
		os.Exit(1)
	}

	mgr := session.NewManager(session.Config{
		TTL:             cfg.Session.TTL,
		MaxSessions:     cfg.Session.MaxSessions,
		CreatePerMinute: cfg.Session.CreatePerMinute,
		LoadTimeout:     cfg.Session.LoadTimeout,
		WriteTimeout:    cfg.Session.WriteTimeout,
		FailureHistory:  cfg.Session.FailureHistory,
	}, factory, l)

	r := router.NewSessionRouter(router.SessionOptions{
		AuthVerifier: verifier,
		Logger:       l,
		Manager:      mgr,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPServer.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Info("starting server", map[string]any{"addr": srv.Addr, "backend_url": cfg.Backend.URL})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("server error", map[string]any{"err": err})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("shutdown", map[string]any{"err": err})
	}
	mgr.Shutdown()
	l.Info("server stopped", nil)
}

// newVerifier devuelve nil (modo dev) si Odin no está configurado.
func newVerifier(cfg config.OdinConfig) (auth.AuthVerifier, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	c, err := odin.NewClient(odin.Config{
		BaseURL:      cfg.URL,
		APIKey:       cfg.APIKey,
		APIKeyHeader: cfg.APIKeyHeader,
		Timeout:      cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if !c.IsConfigured() {
		return nil, nil
	}
	return odin.NewVerifier(c, odin.VerifierOptions{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	}), nil
}
