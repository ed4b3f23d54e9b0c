// internal/service/service.go
// Сценарии транзакций, выборок и отчётов, общие для API и Telegram-бота.
package service

import (
	"context"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"fmt"
	"log/slog"
	"strings"
)

type TransactionService struct {
	store storage.TransactionStorage
}

func NewTransactionService(store storage.TransactionStorage) *TransactionService {
	return &TransactionService{store: store}
}

// Create нормализует ввод и сохраняет транзакцию (категория создаётся при необходимости).
func (s *TransactionService) Create(ctx context.Context, in domain.NewTransaction) (*domain.Transaction, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))

	t, err := s.store.CreateTransaction(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	slog.Info("Transaction created", "id", t.ID, "user_id", t.UserID, "category", t.Category)
	return t, nil
}

type QueryService struct {
	transactions storage.TransactionStorage
	categories   storage.CategoryStorage
}

func NewQueryService(transactions storage.TransactionStorage, categories storage.CategoryStorage) *QueryService {
	return &QueryService{transactions: transactions, categories: categories}
}

// ListByMonth возвращает транзакции месяца, новые первыми.
func (s *QueryService) ListByMonth(ctx context.Context, month domain.Month) ([]domain.TransactionView, error) {
	list, err := s.transactions.ListTransactionsByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", month, err)
	}
	return list, nil
}

func (s *QueryService) Categories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

type ReportingService struct {
	store storage.ReportStorage
}

func NewReportingService(store storage.ReportStorage) *ReportingService {
	return &ReportingService{store: store}
}

// SpendingReport группирует траты месяца по категориям, по убыванию суммы.
// Суммы разных валют складываются как есть.
func (s *ReportingService) SpendingReport(ctx context.Context, month domain.Month) ([]domain.CategorySpending, error) {
	report, err := s.store.SpendingByCategory(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("spending report for %s: %w", month, err)
	}
	return report, nil
}
