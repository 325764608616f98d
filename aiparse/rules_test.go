package aiparse

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/model"
)

func TestRulesParserBasic(t *testing.T) {
	p := NewRulesParser()

	draft, err := p.Parse(context.Background(), "Lunch with the team 12.50", model.Categories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !draft.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("amount = %s, want 12.50", draft.Amount)
	}
	if draft.CategoryCode != model.CategoryFood {
		t.Errorf("category = %s, want %s", draft.CategoryCode, model.CategoryFood)
	}
	if draft.Description != "Lunch with the team 12.50" {
		t.Errorf("description = %q, want the full message", draft.Description)
	}
}

func TestRulesParserAmountSuffixes(t *testing.T) {
	p := NewRulesParser()

	cases := []struct {
		message string
		want    int64
	}{
		{"taxi 15k", 15000},
		{"new laptop 1m", 1000000},
		{"coffee $4", 4},
	}
	for _, tc := range cases {
		draft, err := p.Parse(context.Background(), tc.message, model.Categories)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.message, err)
		}
		if !draft.Amount.Equal(decimal.NewFromInt(tc.want)) {
			t.Errorf("Parse(%q) amount = %s, want %d", tc.message, draft.Amount, tc.want)
		}
	}
}

func TestRulesParserExplicitDate(t *testing.T) {
	p := NewRulesParser()

	draft, err := p.Parse(context.Background(), "flight 320 on 2026-08-12", model.Categories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	if !draft.ExpenseDate.Equal(want) {
		t.Errorf("expense date = %s, want %s", draft.ExpenseDate, want)
	}
	if draft.CategoryCode != model.CategoryTravel {
		t.Errorf("category = %s, want %s", draft.CategoryCode, model.CategoryTravel)
	}
}

func TestRulesParserSlashDate(t *testing.T) {
	p := NewRulesParser()

	draft, err := p.Parse(context.Background(), "dentist 80 on 12/08/2026", model.Categories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	if !draft.ExpenseDate.Equal(want) {
		t.Errorf("expense date = %s, want %s", draft.ExpenseDate, want)
	}
	if draft.CategoryCode != model.CategoryHealthCare {
		t.Errorf("category = %s, want %s", draft.CategoryCode, model.CategoryHealthCare)
	}
}

func TestRulesParserYesterday(t *testing.T) {
	p := NewRulesParser()

	draft, err := p.Parse(context.Background(), "groceries 45 yesterday", model.Categories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantDay := time.Now().AddDate(0, 0, -1)
	if draft.ExpenseDate.Year() != wantDay.Year() || draft.ExpenseDate.YearDay() != wantDay.YearDay() {
		t.Errorf("expense date = %s, want yesterday", draft.ExpenseDate)
	}
}

func TestRulesParserDefaultsToShopping(t *testing.T) {
	p := NewRulesParser()

	draft, err := p.Parse(context.Background(), "miscellaneous 10", model.Categories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if draft.CategoryCode != model.CategoryShopping {
		t.Errorf("category = %s, want the shopping fallback", draft.CategoryCode)
	}
}

func TestRulesParserErrors(t *testing.T) {
	p := NewRulesParser()

	if _, err := p.Parse(context.Background(), "   ", model.Categories); err == nil {
		t.Error("expected an error for an empty message")
	}
	if _, err := p.Parse(context.Background(), "no numbers here", model.Categories); err == nil {
		t.Error("expected an error when no amount is present")
	}
}
