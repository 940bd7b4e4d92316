package reports

import (
	"testing"
	"time"

	"sysfinance-server/src/models"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func expense(t *testing.T, category, amount string) models.Transaction {
	t.Helper()
	return models.Transaction{
		Kind:     models.TransactionExpense,
		Category: category,
		Amount:   dec(t, amount),
	}
}

func TestByCategory(t *testing.T) {
	txns := []models.Transaction{
		expense(t, "food", "10"),
		expense(t, "food", "5"),
		expense(t, "rent", "20"),
	}

	got := ByCategory(txns)
	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2", len(got))
	}
	// Sorted by total descending: rent 20 before food 15.
	if got[0].Category != "rent" || !got[0].Total.Equal(dec(t, "20")) || got[0].Count != 1 {
		t.Errorf("group 0 = %+v, want rent/20/1", got[0])
	}
	if got[1].Category != "food" || !got[1].Total.Equal(dec(t, "15")) || got[1].Count != 2 {
		t.Errorf("group 1 = %+v, want food/15/2", got[1])
	}
}

func TestByCategoryEmpty(t *testing.T) {
	if got := ByCategory(nil); len(got) != 0 {
		t.Fatalf("got %d groups, want 0", len(got))
	}
}

func TestTotal(t *testing.T) {
	txns := []models.Transaction{
		expense(t, "food", "10.50"),
		expense(t, "rent", "20.25"),
	}
	if got := Total(txns); !got.Equal(dec(t, "30.75")) {
		t.Errorf("Total=%s want 30.75", got)
	}
}

func TestStatement(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
	}
	txns := []models.Transaction{
		{Kind: models.TransactionIncome, Amount: dec(t, "200.00"), Date: day(1)},
		{Kind: models.TransactionExpense, Amount: dec(t, "50.00"), Date: day(2)},
		{Kind: models.TransactionExpense, Amount: dec(t, "75.00"), Date: day(3)},
	}

	lines, closing := Statement(dec(t, "100.00"), txns)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	wantBalances := []string{"300.00", "250.00", "175.00"}
	for i, want := range wantBalances {
		if !lines[i].Balance.Equal(dec(t, want)) {
			t.Errorf("line %d balance=%s want %s", i, lines[i].Balance, want)
		}
	}
	if !closing.Equal(dec(t, "175.00")) {
		t.Errorf("closing=%s want 175.00", closing)
	}
}

func TestStatementEmpty(t *testing.T) {
	lines, closing := Statement(dec(t, "100.00"), nil)
	if len(lines) != 0 {
		t.Fatalf("got %d lines, want 0", len(lines))
	}
	if !closing.Equal(dec(t, "100.00")) {
		t.Errorf("closing=%s want opening 100.00", closing)
	}
}
