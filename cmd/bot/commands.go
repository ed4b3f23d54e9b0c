// cmd/bot/commands.go
package main

import (
	"context"
	"errors"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/exchange"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	val "finance-tracker/internal/validator"

	"golang.org/x/text/encoding/charmap"
)

const helpText = "💰 Finance tracker\n\n" +
	"Commands:\n" +
	"/add <amount> <currency> <category> [YYYY-MM-DD] — add a transaction\n" +
	"   e.g. /add 42.50 USD Food & Dining 2024-03-15\n" +
	"/list [YYYY-MM] — transactions of a month\n" +
	"/report [YYYY-MM] — spending by category\n" +
	"/rate <FROM> <TO> — current exchange rate\n" +
	"/categories — known categories"

type transactionCreator interface {
	Create(ctx context.Context, in domain.NewTransaction) (*domain.Transaction, error)
}

type transactionQuery interface {
	ListByMonth(ctx context.Context, month domain.Month) ([]domain.TransactionView, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type spendingReporter interface {
	SpendingReport(ctx context.Context, month domain.Month) ([]domain.CategorySpending, error)
}

type rateProvider interface {
	Rate(ctx context.Context, from, to string) (*domain.ExchangeRate, error)
}

type commands struct {
	transactions transactionCreator
	query        transactionQuery
	reports      spendingReporter
	rates        rateProvider
	now          func() time.Time
}

// handle разбирает текст сообщения и возвращает ответ пользователю.
func (c *commands) handle(ctx context.Context, userID int64, text string) string {
	text = sanitizeInput(fixEncoding(text))
	cmd, args, _ := strings.Cut(text, " ")
	// /cmd@botname в группах
	cmd, _, _ = strings.Cut(cmd, "@")

	var (
		reply string
		err   error
	)
	switch cmd {
	case "/start", "/help":
		reply = helpText
	case "/add":
		reply, err = c.add(ctx, userID, args)
	case "/list":
		reply, err = c.list(ctx, args)
	case "/report":
		reply, err = c.report(ctx, args)
	case "/rate":
		reply, err = c.rate(ctx, args)
	case "/categories":
		reply, err = c.categories(ctx)
	default:
		reply = "Unknown command. Try /help"
	}

	if err != nil {
		var uerr userError
		if errors.As(err, &uerr) {
			return "❌ " + uerr.Error()
		}
		slog.Error("Bot command failed", "error", err, "user_id", userID, "command", cmd)
		return "❌ Something went wrong, try again later"
	}
	return reply
}

// userError — ошибка ввода, показывается пользователю как есть.
type userError string

func (e userError) Error() string { return string(e) }

func (c *commands) add(ctx context.Context, userID int64, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", userError("usage: /add <amount> <currency> <category> [YYYY-MM-DD]")
	}

	amount, err := domain.NewAmount(strings.ReplaceAll(fields[0], ",", "."))
	if err != nil {
		return "", userError(fmt.Sprintf("invalid amount %q", fields[0]))
	}
	if err := amount.Validate(); err != nil {
		return "", userError(fmt.Sprintf("invalid amount %q: %v", fields[0], err))
	}

	currency := strings.ToUpper(fields[1])
	if val.Validate.Var(currency, "iso4217") != nil {
		return "", userError(fmt.Sprintf("unknown currency %q", fields[1]))
	}

	date := c.now().UTC().Truncate(24 * time.Hour)
	rest := fields[2:]
	if len(rest) > 1 {
		if d, err := time.Parse("2006-01-02", rest[len(rest)-1]); err == nil {
			date = d
			rest = rest[:len(rest)-1]
		}
	}
	category := strings.Join(rest, " ")

	t, err := c.transactions.Create(ctx, domain.NewTransaction{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Currency: currency,
		Date:     date,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Saved #%d: %s %s · %s · %s",
		t.ID, t.Amount, t.Currency, t.Category, t.Timestamp.Format("2006-01-02")), nil
}

func (c *commands) month(args string) (domain.Month, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return domain.MonthOf(c.now()), nil
	}
	m, err := domain.ParseMonth(args)
	if err != nil {
		return domain.Month{}, userError("month must be in YYYY-MM format")
	}
	return m, nil
}

func (c *commands) list(ctx context.Context, args string) (string, error) {
	month, err := c.month(args)
	if err != nil {
		return "", err
	}
	rows, err := c.query.ListByMonth(ctx, month)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "📭 No transactions for " + month.String(), nil
	}

	lines := []string{"🧾 Transactions for " + month.String()}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s  %s %s  %s", r.Timestamp.Format("01-02"), r.Amount, r.Currency, r.Category))
	}
	return strings.Join(lines, "\n"), nil
}

func (c *commands) report(ctx context.Context, args string) (string, error) {
	month, err := c.month(args)
	if err != nil {
		return "", err
	}
	rows, err := c.reports.SpendingReport(ctx, month)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "📭 No spending for " + month.String(), nil
	}

	lines := []string{"📊 Spending for " + month.String()}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s: %s (%d)", r.Category, r.TotalAmount, r.TransactionCount))
	}
	return strings.Join(lines, "\n"), nil
}

func (c *commands) rate(ctx context.Context, args string) (string, error) {
	fields := strings.Fields(strings.ToUpper(args))
	if len(fields) != 2 {
		return "", userError("usage: /rate <FROM> <TO>")
	}
	r, err := c.rates.Rate(ctx, fields[0], fields[1])
	if err != nil {
		if errors.Is(err, exchange.ErrInvalidPair) {
			return "", userError("invalid currency pair")
		}
		return "", err
	}
	return fmt.Sprintf("💱 1 %s = %.4f %s\nupdated %s", r.From, r.Rate, r.To, r.LastUpdated), nil
}

func (c *commands) categories(ctx context.Context) (string, error) {
	cats, err := c.query.Categories(ctx)
	if err != nil {
		return "", err
	}
	if len(cats) == 0 {
		return "📭 No categories yet", nil
	}
	names := make([]string, 0, len(cats))
	for _, cat := range cats {
		names = append(names, "• "+cat.Name)
	}
	return strings.Join(names, "\n"), nil
}

// sanitizeInput заменяет любые пробельные символы (NBSP и т.п.) на пробел и схлопывает их.
func sanitizeInput(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// fixEncoding чинит текст, пришедший в windows-1251.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoder := charmap.Windows1251.NewDecoder()
	fixed, err := decoder.String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}
