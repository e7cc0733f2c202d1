package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"usersvc/internal/config"
	"usersvc/internal/slogutil"
	"usersvc/internal/storage"
	"usersvc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "usersvc",
	Short: "usersvc - user records over a minimal HTTP/1.1 socket",
	Long: `usersvc serves create, read, update and delete operations on user records
over a raw TCP socket speaking a minimal subset of HTTP/1.1. Records live in
PostgreSQL or SQLite, selected by DATABASE_URL.

Running usersvc without a subcommand is the same as "usersvc serve".`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.SetVersionTemplate("usersvc version {{.Version}}\n")
}

// app is what every command needs before touching the store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadApp reads configuration from the environment and ./usersvc.toml
// and builds the process logger from it.
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := slogutil.New(os.Stderr, cfg.LogFormat, slogutil.LevelFromString(cfg.LogLevel))
	return &app{cfg: cfg, logger: logger}, nil
}

// openStore opens the gateway and makes sure the schema exists.
func (a *app) openStore(ctx context.Context) (*storage.Gateway, error) {
	gw, err := storage.Open(a.cfg.DatabaseURL, storage.Options{MaxOpenConns: a.cfg.MaxOpenConns}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := gw.Bootstrap(ctx); err != nil {
		_ = gw.Close()
		return nil, fmt.Errorf("bootstrapping store: %w", err)
	}
	return gw, nil
}
