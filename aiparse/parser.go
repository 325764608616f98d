// Package aiparse turns a free-text message like "coffee with An 35k
// yesterday" into a transaction draft. An OpenAI-compatible model does the
// parsing when an API key is configured; a rules-based parser covers the rest.
package aiparse

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/model"
)

// Draft is a parsed transaction proposal. It carries a category code from the
// fixed set; the caller resolves the display name and decides whether to
// persist.
type Draft struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	ExpenseDate  time.Time       `json:"expenseDate"`
	CategoryCode string          `json:"categoryCode"`
}

type Parser interface {
	Parse(ctx context.Context, message string, categories []model.Category) (Draft, error)
}
