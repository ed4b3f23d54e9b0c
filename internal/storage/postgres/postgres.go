// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"finance-tracker/internal/domain"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// NewPool открывает пул соединений и проверяет его пингом.
func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// === CategoryStorage ===

func (s *Storage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// === TransactionStorage ===

func (s *Storage) CreateTransaction(ctx context.Context, in domain.NewTransaction) (*domain.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	categoryID, err := upsertCategory(ctx, tx, in.Category)
	if err != nil {
		return nil, err
	}

	t := domain.Transaction{Category: in.Category}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, category_id, amount, currency, "timestamp")
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING id, user_id, category_id, amount, currency, "timestamp"
	`, in.UserID, categoryID, in.Amount.Decimal.String(), in.Currency, in.Date).
		Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Currency, &t.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	slog.Debug("CreateTransaction completed", "id", t.ID, "category_id", categoryID)
	return &t, nil
}

// upsertCategory вставляет категорию, если её нет; конфликт по имени игнорируется.
func upsertCategory(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("create category %q: %w", name, err)
	}

	err = tx.QueryRow(ctx, "SELECT id FROM categories WHERE name = $1", name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("find category %q: %w", name, err)
	}
	return id, nil
}

func (s *Storage) ListTransactionsByMonth(ctx context.Context, month domain.Month) ([]domain.TransactionView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.amount, t.currency, t."timestamp", c.name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t."timestamp" >= $1 AND t."timestamp" < $2
		ORDER BY t."timestamp" DESC, t.id DESC
	`, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	list := []domain.TransactionView{}
	for rows.Next() {
		var v domain.TransactionView
		if err := rows.Scan(&v.ID, &v.Amount, &v.Currency, &v.Timestamp, &v.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

// === ReportStorage ===

// SpendingByCategory суммирует суммы как есть, без конвертации валют.
func (s *Storage) SpendingByCategory(ctx context.Context, month domain.Month) ([]domain.CategorySpending, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.name, SUM(t.amount) AS total_amount, COUNT(t.id) AS transaction_count
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t."timestamp" >= $1 AND t."timestamp" < $2
		GROUP BY c.name
		ORDER BY total_amount DESC, c.name
	`, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("query spending report: %w", err)
	}
	defer rows.Close()

	report := []domain.CategorySpending{}
	for rows.Next() {
		var r domain.CategorySpending
		if err := rows.Scan(&r.Category, &r.TotalAmount, &r.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		report = append(report, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return report, nil
}
