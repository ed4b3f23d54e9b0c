// internal/handler/finance.go
package handler

import (
	"context"
	"errors"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/exchange"
	"finance-tracker/internal/middleware"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	val "finance-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

type TransactionCreator interface {
	Create(ctx context.Context, in domain.NewTransaction) (*domain.Transaction, error)
}

type TransactionQuery interface {
	ListByMonth(ctx context.Context, month domain.Month) ([]domain.TransactionView, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type SpendingReporter interface {
	SpendingReport(ctx context.Context, month domain.Month) ([]domain.CategorySpending, error)
}

type RateProvider interface {
	Rate(ctx context.Context, from, to string) (*domain.ExchangeRate, error)
}

type FinanceHandler struct {
	transactions TransactionCreator
	query        TransactionQuery
	reports      SpendingReporter
	rates        RateProvider
}

func NewFinanceHandler(transactions TransactionCreator, query TransactionQuery, reports SpendingReporter, rates RateProvider) *FinanceHandler {
	return &FinanceHandler{
		transactions: transactions,
		query:        query,
		reports:      reports,
		rates:        rates,
	}
}

// Health godoc
// @Summary Liveness probe
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *FinanceHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Finance Tracker API is running"})
}

// ExchangeRate godoc
// @Summary Current conversion rate between two currencies
// @Param from query string true "Source currency"
// @Param to query string true "Target currency"
// @Success 200 {object} domain.ExchangeRate
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /exchange-rate [get]
func (h *FinanceHandler) ExchangeRate(c *gin.Context) {
	from := strings.ToUpper(strings.TrimSpace(c.Query("from")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both from and to currencies are required"})
		return
	}

	rate, err := h.rates.Rate(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, exchange.ErrInvalidPair) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid currency pair"})
			return
		}
		slog.Error("Exchange rate failed", "error", err, "from", from, "to", to)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exchange rate"})
		return
	}
	// провайдеру уходят коды в верхнем регистре, в ответе коды как в запросе
	resp := *rate
	resp.From, resp.To = c.Query("from"), c.Query("to")
	c.JSON(http.StatusOK, resp)
}

// CreateTransaction godoc
// @Summary Add a transaction, creating its category on first use
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /transactions [post]
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))

	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// ноль и переполнение NUMERIC(12,2) отсекаем до базы
	if err := req.Amount.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	// при включённой авторизации userId должен совпадать с токеном
	if v, ok := c.Get(middleware.UserIDKey); ok {
		if tokenUserID, _ := v.(int64); tokenUserID != req.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match token"})
			return
		}
	}

	date, _ := time.Parse(dateLayout, req.Date)
	t, err := h.transactions.Create(c.Request.Context(), domain.NewTransaction{
		UserID:   req.UserID,
		Amount:   *req.Amount,
		Category: req.Category,
		Currency: req.Currency,
		Date:     date,
	})
	if err != nil {
		slog.Error("Failed to add transaction", "error", err, "user_id", req.UserID, "category", req.Category)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add transaction"})
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ListTransactions godoc
// @Summary Transactions of a month, newest first
// @Param month query string true "Month in YYYY-MM format"
// @Success 200 {array} domain.TransactionView
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /transactions [get]
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}

	list, err := h.query.ListByMonth(c.Request.Context(), month)
	if err != nil {
		slog.Error("ListTransactions failed", "error", err, "month", month.String())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// SpendingReport godoc
// @Summary Per-category totals of a month, largest first
// @Param month query string true "Month in YYYY-MM format"
// @Success 200 {array} domain.CategorySpending
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /spending-report [get]
func (h *FinanceHandler) SpendingReport(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}

	report, err := h.reports.SpendingReport(c.Request.Context(), month)
	if err != nil {
		slog.Error("SpendingReport failed", "error", err, "month", month.String())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch spending report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListCategories godoc
// @Summary All known categories
// @Success 200 {array} domain.Category
// @Failure 500 {object} map[string]string
// @Router /categories [get]
func (h *FinanceHandler) ListCategories(c *gin.Context) {
	cats, err := h.query.Categories(c.Request.Context())
	if err != nil {
		slog.Error("ListCategories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

// monthParam достаёт ?month=YYYY-MM; при ошибке сам отвечает 400.
func monthParam(c *gin.Context) (domain.Month, bool) {
	raw := c.Query("month")
	if err := val.Validate.Var(raw, "required,yearmonth"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Month parameter is required (YYYY-MM format)"})
		return domain.Month{}, false
	}
	month, err := domain.ParseMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Month parameter is required (YYYY-MM format)"})
		return domain.Month{}, false
	}
	return month, true
}

// === DTO ===

type CreateTransactionRequest struct {
	UserID   int64          `json:"userId" validate:"required"`
	Amount   *domain.Amount `json:"amount" validate:"required"`
	Category string         `json:"category" validate:"required,notblank,max=100"`
	Currency string         `json:"currency" validate:"required,iso4217"`
	Date     string         `json:"date" validate:"required,datetime=2006-01-02"`
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid input: %w", err)
		}
		var errs []string
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "iso4217":
		return fmt.Sprintf("%s must be an ISO 4217 currency code", e.Field())
	case "datetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", e.Field())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
