package ledger

import (
	"errors"
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

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "10.50", want: "10.50"},
		{in: "0.01", want: "0.01"},
		{in: "9999999999.99", want: "9999999999.99"},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1.234", wantErr: true},
		{in: "10000000000", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseAmount(%q) err=%v, want ErrInvalidAmount", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) err=%v", tt.in, err)
			continue
		}
		if !got.Equal(dec(t, tt.want)) {
			t.Errorf("ParseAmount(%q)=%s want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseBalanceAllowsZero(t *testing.T) {
	got, err := ParseBalance("0")
	if err != nil {
		t.Fatalf("ParseBalance(0) err=%v", err)
	}
	if !got.IsZero() {
		t.Fatalf("ParseBalance(0)=%s want 0", got)
	}
	if _, err := ParseBalance("-1"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("ParseBalance(-1) err=%v, want ErrInvalidAmount", err)
	}
}

func TestDelta(t *testing.T) {
	amt := dec(t, "50.00")

	d, err := Delta(models.TransactionIncome, amt)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Equal(amt) {
		t.Fatalf("income delta=%s want %s", d, amt)
	}

	d, err = Delta(models.TransactionExpense, amt)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Equal(amt.Neg()) {
		t.Fatalf("expense delta=%s want %s", d, amt.Neg())
	}

	if _, err := Delta("refund", amt); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("unknown kind err=%v, want ErrInvalidKind", err)
	}
}

// Deleting a transaction must be the exact inverse of creating it: applying
// Delta then ReverseDelta leaves the balance unchanged.
func TestReverseDeltaIsExactInverse(t *testing.T) {
	for _, kind := range []string{models.TransactionIncome, models.TransactionExpense} {
		balance := dec(t, "100.00")
		amt := dec(t, "50.00")

		d, err := Delta(kind, amt)
		if err != nil {
			t.Fatal(err)
		}
		rd, err := ReverseDelta(kind, amt)
		if err != nil {
			t.Fatal(err)
		}
		after := balance.Add(d).Add(rd)
		if !after.Equal(balance) {
			t.Errorf("%s: create+delete balance=%s want %s", kind, after, balance)
		}
	}
}

// Create account with 100.00, add expense 30.00 -> 70.00, delete the
// expense -> back to 100.00.
func TestExpenseCreateDeleteScenario(t *testing.T) {
	balance := dec(t, "100.00")
	amt := dec(t, "30.00")

	d, err := Delta(models.TransactionExpense, amt)
	if err != nil {
		t.Fatal(err)
	}
	balance = balance.Add(d)
	if !balance.Equal(dec(t, "70.00")) {
		t.Fatalf("after expense balance=%s want 70.00", balance)
	}

	rd, err := ReverseDelta(models.TransactionExpense, amt)
	if err != nil {
		t.Fatal(err)
	}
	balance = balance.Add(rd)
	if !balance.Equal(dec(t, "100.00")) {
		t.Fatalf("after delete balance=%s want 100.00", balance)
	}
}

func TestCheckFunds(t *testing.T) {
	if err := CheckFunds(dec(t, "100"), dec(t, "100")); err != nil {
		t.Errorf("exact balance should pass, got %v", err)
	}
	if err := CheckFunds(dec(t, "100"), dec(t, "100.01")); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("over balance err=%v, want ErrInsufficientFunds", err)
	}
}

func TestRecompute(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	txns := []models.Transaction{
		{AccountID: 1, Kind: models.TransactionIncome, Amount: dec(t, "200.00"), Date: date},
		{AccountID: 1, Kind: models.TransactionExpense, Amount: dec(t, "50.00"), Date: date},
		{AccountID: 2, Kind: models.TransactionIncome, Amount: dec(t, "999.00"), Date: date},
	}
	transfers := []models.Transfer{
		{FromAccountID: 1, ToAccountID: 2, Amount: dec(t, "25.00"), Date: date},
		{FromAccountID: 2, ToAccountID: 1, Amount: dec(t, "10.00"), Date: date},
	}

	// 100 + 200 - 50 - 25 + 10 = 235
	got := Recompute(dec(t, "100.00"), 1, txns, transfers)
	if !got.Equal(dec(t, "235.00")) {
		t.Errorf("Recompute(account 1)=%s want 235.00", got)
	}

	// 0 + 999 + 25 - 10 = 1014
	got = Recompute(decimal.Zero, 2, txns, transfers)
	if !got.Equal(dec(t, "1014.00")) {
		t.Errorf("Recompute(account 2)=%s want 1014.00", got)
	}

	// An account with no records keeps its initial balance.
	got = Recompute(dec(t, "42.00"), 3, txns, transfers)
	if !got.Equal(dec(t, "42.00")) {
		t.Errorf("Recompute(account 3)=%s want 42.00", got)
	}
}
