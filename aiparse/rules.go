package aiparse

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/model"
)

// RulesParser is the lightweight fallback used when no AI backend is
// configured: regex for amount and date, keyword match for the category.
type RulesParser struct{}

func NewRulesParser() *RulesParser { return &RulesParser{} }

var (
	amountRe = regexp.MustCompile(`(?i)(?:\$|₫)?\s*([0-9]+(?:\.[0-9]{1,2})?)\s*(k|m)?\b`)
	dateRes  = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`), // YYYY-MM-DD
		regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`), // DD/MM/YYYY
	}

	categoryKeywords = map[string][]string{
		model.CategoryFood:          {"food", "coffee", "lunch", "dinner", "breakfast", "restaurant", "snack", "drink", "grocery", "groceries"},
		model.CategoryShopping:      {"shopping", "clothes", "shoes", "buy", "bought", "order", "amazon"},
		model.CategoryEntertainment: {"movie", "cinema", "game", "concert", "netflix", "party"},
		model.CategoryTravel:        {"travel", "flight", "hotel", "taxi", "bus", "train", "trip", "fuel", "gas"},
		model.CategoryFixed:         {"rent", "electricity", "water", "internet", "bill", "subscription", "insurance"},
		model.CategoryEducation:     {"book", "course", "tuition", "class", "school"},
		model.CategoryHealthCare:    {"doctor", "hospital", "medicine", "pharmacy", "dentist", "gym"},
		model.CategoryInvestment:    {"invest", "stock", "fund", "crypto", "saving"},
	}
)

func (p *RulesParser) Parse(_ context.Context, message string, categories []model.Category) (Draft, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Draft{}, errors.New("empty message")
	}

	amount, ok := guessAmount(message)
	if !ok {
		return Draft{}, errors.New("no amount found in message")
	}

	return Draft{
		Description:  message,
		Amount:       amount,
		ExpenseDate:  guessDate(message),
		CategoryCode: guessCategory(message, categories),
	}, nil
}

func guessAmount(text string) (decimal.Decimal, bool) {
	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	switch strings.ToLower(m[2]) {
	case "k":
		amount = amount.Mul(decimal.NewFromInt(1000))
	case "m":
		amount = amount.Mul(decimal.NewFromInt(1000000))
	}
	return amount, true
}

func guessDate(text string) time.Time {
	for i, re := range dateRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var parsed time.Time
		var err error
		if i == 0 {
			parsed, err = time.Parse("2006-01-02", m[0])
		} else {
			parsed, err = time.Parse("02/01/2006", m[0])
		}
		if err == nil {
			return parsed
		}
	}
	if strings.Contains(strings.ToLower(text), "yesterday") {
		return time.Now().AddDate(0, 0, -1)
	}
	return time.Now()
}

func guessCategory(text string, categories []model.Category) string {
	lower := strings.ToLower(text)
	for _, c := range categories {
		for _, kw := range categoryKeywords[c.Code] {
			if strings.Contains(lower, kw) {
				return c.Code
			}
		}
	}
	return model.CategoryShopping
}
