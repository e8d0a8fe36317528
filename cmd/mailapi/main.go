// Command mailapi runs a local mail API for developing against mailpane.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mailpane/internal/config"
	"mailpane/internal/mailserver"
	"mailpane/internal/store"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadMailAPI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.UpsertUsers(ctx, cfg.User); err != nil {
		logger.Error("create user", "error", err)
		os.Exit(1)
	}
	if cfg.SeedPath != "" {
		seed, err := store.LoadSeedFile(cfg.SeedPath)
		if err != nil {
			logger.Error("load seed", "error", err)
			os.Exit(1)
		}
		if err := db.ApplySeed(ctx, seed); err != nil {
			logger.Error("apply seed", "error", err)
			os.Exit(1)
		}
		logger.Info("seed applied", "path", cfg.SeedPath, "users", len(seed.Users), "emails", len(seed.Emails))
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mailserver.NewServer(db, cfg.User, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("mail api listening", "addr", cfg.Addr, "user", cfg.User, "db", cfg.DBPath)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown http", "error", err)
	}
}
