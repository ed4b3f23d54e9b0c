// internal/domain/models.go
package domain

import "time"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewTransaction — входные данные для создания транзакции
type NewTransaction struct {
	UserID   int64
	Amount   Amount
	Category string
	Currency string
	Date     time.Time
}

// Transaction — строка таблицы transactions (+ имя категории)
type Transaction struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CategoryID int64     `json:"category_id"`
	Category   string    `json:"category"`
	Amount     Amount    `json:"amount"`
	Currency   string    `json:"currency"`
	Timestamp  time.Time `json:"timestamp"`
}

// TransactionView — строка списка за месяц
type TransactionView struct {
	ID        int64     `json:"id"`
	Amount    Amount    `json:"amount"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
}

// CategorySpending — строка отчёта по тратам
type CategorySpending struct {
	Category         string `json:"category"`
	TotalAmount      Amount `json:"total_amount"`
	TransactionCount int64  `json:"transaction_count"`
}

type ExchangeRate struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Rate        float64 `json:"rate"`
	LastUpdated string  `json:"last_updated"`
}
