// internal/domain/money.go
package domain

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

// Колонка amount NUMERIC(12,2): два знака после запятой, модуль < 10^10.
const amountScale = 2

var maxAmount = decimal.New(1, 10)

var (
	ErrZeroAmount     = errors.New("amount must not be zero")
	ErrAmountTooLarge = errors.New("amount is too large")
)

// Amount: денежная сумма. В JSON всегда строка с двумя знаками ("42.50"),
// на вход принимает и число, и строку.
type Amount struct {
	decimal.Decimal
}

func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate проверяет сумму так, как её сохранит NUMERIC(12,2).
func (a Amount) Validate() error {
	r := a.Decimal.Round(amountScale)
	if r.IsZero() {
		return ErrZeroAmount
	}
	if r.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

func (a Amount) String() string {
	return a.StringFixed(amountScale)
}

func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}
