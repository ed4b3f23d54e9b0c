// cmd/bot/main.go
package main

import (
	"context"
	"finance-tracker/internal/config"
	"finance-tracker/internal/exchange"
	"finance-tracker/internal/service"
	"finance-tracker/internal/storage/postgres"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBConn, cfg.DBMaxConns)
	if err != nil {
		slog.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStorage(pool)
	cmds := &commands{
		transactions: service.NewTransactionService(store),
		query:        service.NewQueryService(store, store),
		reports:      service.NewReportingService(store),
		rates:        exchange.NewClient(cfg, nil),
		now:          time.Now,
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("Failed to init Telegram bot", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot started", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			slog.Info("Bot stopped")
			return
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			userID := update.Message.From.ID
			slog.Debug("📥 Received", "user_id", userID, "text", update.Message.Text)

			reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			reply := cmds.handle(reqCtx, userID, update.Message.Text)
			cancel()

			msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
			if _, err := bot.Send(msg); err != nil {
				slog.Error("Send failed", "error", err, "chat_id", update.Message.Chat.ID)
			}
		}
	}
}
