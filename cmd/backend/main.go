package main

import (
	"context"
	"database/sql"
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
	pg "pet-sync/internal/adapters/storage/postgres"
	"pet-sync/internal/platform/logger"
	"pet-sync/internal/ports/auth"
	"pet-sync/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	l := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logger.Level),
		Format: logger.ParseFormat(cfg.Logger.Encoding),
		App:    "pet-sync-backend",
	})
	defer func() { _ = l.Sync() }()

	verifier, err := newVerifier(cfg.Odin)
	if err != nil {
		l.Error("odin client", map[string]any{"err": err})
		os.Exit(1)
	}

	// Sin DSN => repo in-memory.
	var db *sql.DB
	if cfg.DB.DSN != "" {
		db, err = pg.Open(cfg.DB.DSN)
		if err != nil {
			l.Error("postgres open", map[string]any{"err": err})
			os.Exit(1)
		}
		defer db.Close()

		schemaCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = pg.EnsureSchema(schemaCtx, db)
		cancel()
		if err != nil {
			l.Error("postgres schema", map[string]any{"err": err})
			os.Exit(1)
		}
		l.Info("using postgres storage", nil)
	} else {
		l.Info("using in-memory storage", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       l,
		DB:           db,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Backend.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Info("starting server", map[string]any{"addr": srv.Addr})
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
	l.Info("server stopped", nil)
}

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
