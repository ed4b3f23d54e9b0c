// cmd/migrate/main.go
package main

import (
	"finance-tracker/internal/config"
	"finance-tracker/internal/storage/postgres"
	"log/slog"
	"os"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	slog.Info("Applying migrations")
	if err := postgres.Migrate(cfg.DBConn); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Migrations applied")
}
