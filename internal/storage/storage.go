// internal/storage/storage.go
package storage

import (
	"context"
	"finance-tracker/internal/domain"
)

type CategoryStorage interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type TransactionStorage interface {
	// CreateTransaction атомарно создаёт категорию (если нужно) и транзакцию.
	CreateTransaction(ctx context.Context, t domain.NewTransaction) (*domain.Transaction, error)
	ListTransactionsByMonth(ctx context.Context, month domain.Month) ([]domain.TransactionView, error)
}

type ReportStorage interface {
	SpendingByCategory(ctx context.Context, month domain.Month) ([]domain.CategorySpending, error)
}
