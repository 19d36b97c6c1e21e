package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/flashmaint/internal/config"
	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/logging"
	"github.com/JonMunkholm/flashmaint/internal/maintenance"
	"github.com/JonMunkholm/flashmaint/internal/store"
	"github.com/JonMunkholm/flashmaint/internal/suggest"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	// Load and validate configuration before touching the network
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	// SIGINT/SIGTERM cancel the in-flight call and end the session
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := console.New(os.Stdin, os.Stdout)
	con.Println("Starting flashcard maintenance...")

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend(), "error", err)
		con.Println(maintenance.MapError(err).String())
		return 1
	}
	defer closeStore()

	auditor := suggest.NewOpenAI(suggest.Options{
		BaseURL:     cfg.Suggest.BaseURL,
		APIKey:      cfg.Suggest.APIKey,
		Model:       cfg.Suggest.Model,
		Temperature: cfg.Suggest.Temperature,
		Timeout:     cfg.Suggest.Timeout,
	})

	summary, err := maintenance.NewDriver(cfg, st, auditor, con).Run(ctx)
	if summary != nil && summary.Cards > 0 {
		maintenance.PrintSummary(con, summary)
	}
	if err != nil {
		slog.Error("maintenance aborted", "error", err)
		con.Println(maintenance.MapError(err).String())
		return 1
	}
	return 0
}

// openStore builds the configured backend and returns a cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Store.Backend() == config.BackendPostgREST {
		st := store.NewPostgREST(cfg.Store.URL, cfg.Store.Key, cfg.Store.Table, cfg.Store.Timeout)
		st.SetPageSize(cfg.Store.PageSize)
		slog.Info("using REST store", "url", cfg.Store.URL, "table", cfg.Store.Table)
		return st, func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Store.MaxConns)
	poolConfig.MinConns = int32(cfg.Store.MinConns)
	poolConfig.MaxConnLifetime = cfg.Store.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Store.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.Store.DatabaseURL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"), "table", cfg.Store.Table)
	}
	return store.NewPostgres(pool, cfg.Store.Table), pool.Close, nil
}
