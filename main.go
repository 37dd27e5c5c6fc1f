package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ailink-app/diagnostico/cliparse"
	"github.com/ailink-app/diagnostico/db"
	"github.com/ailink-app/diagnostico/router"
	"github.com/ailink-app/diagnostico/ws"
)

func main() {
	// .env is optional; real deployments use environment variables
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	// DatabaseType is validated by cliparse and matches the driver names.
	sqlDB, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		slog.Error("Failed to reach database", "error", err)
		os.Exit(1)
	}

	if err := db.CreateSchema(sqlDB); err != nil {
		slog.Error("Failed to create schema", "error", err)
		os.Exit(1)
	}

	store := db.NewStore(sqlDB)

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.RunHeartbeat(ctx)

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: router.NewRouter(cfg, hub, store),
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down")
		cancel()
		server.Close()
	}()

	slog.Info("Server starting", "port", cfg.Port, "database", cfg.DatabaseType)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		cancel()
		os.Exit(1)
	}
}
