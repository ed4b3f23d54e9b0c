// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/exchange"
	"finance-tracker/internal/handler"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/service"
	"finance-tracker/internal/storage/postgres"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.MustLoad()

	// Настройка логгера
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBConn, cfg.DBMaxConns)
	if err != nil {
		slog.Error("Не удалось подключиться к БД", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("✅ Подключились к PostgreSQL")

	store := postgres.NewStorage(pool)

	finance := handler.NewFinanceHandler(
		service.NewTransactionService(store),
		service.NewQueryService(store, store),
		service.NewReportingService(store),
		exchange.NewClient(cfg, nil),
	)
	if cfg.ExchangeAPIKey == "" {
		slog.Warn("EXCHANGE_API_KEY is not set, /exchange-rate will fail")
	}

	// JWT
	tokenService := auth.NewTokenService(cfg)
	opts := handler.RouterOptions{CORSOrigins: cfg.CORSOrigins}
	if cfg.AuthEnabled {
		opts.Auth = middleware.NewAuthMiddleware(tokenService)
	}

	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(finance, handler.NewAuthHandler(tokenService), opts)

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("🚀 Сервер запущен", "addr", cfg.ServerPort, "auth", cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Останавливаем сервер")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Сервер завершил работу с ошибкой", "error", err)
		os.Exit(1)
	}
}
