package goals

import (
	"testing"

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

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		current string
		want    string
	}{
		{name: "halfway", target: "200", current: "100", want: "50"},
		{name: "complete", target: "100", current: "100", want: "100"},
		{name: "clamped above", target: "100", current: "150", want: "100"},
		{name: "zero target", target: "0", current: "5", want: "0"},
		{name: "negative target", target: "-10", current: "5", want: "0"},
		{name: "nothing saved", target: "100", current: "0", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(dec(t, tt.target), dec(t, tt.current))
			if !got.Equal(dec(t, tt.want)) {
				t.Errorf("Progress(%s, %s)=%s want %s", tt.target, tt.current, got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	got := Remaining(dec(t, "100"), dec(t, "30"))
	if !got.Equal(dec(t, "70")) {
		t.Errorf("Remaining=%s want 70", got)
	}
	// Overfunded goals report negative remaining.
	got = Remaining(dec(t, "100"), dec(t, "150"))
	if !got.Equal(dec(t, "-50")) {
		t.Errorf("Remaining=%s want -50", got)
	}
}

func TestEstimatedCurrent(t *testing.T) {
	// 30 saved + 10% of 200 total balance = 50.
	got := EstimatedCurrent(dec(t, "100"), dec(t, "30"), dec(t, "200"))
	if !got.Equal(dec(t, "50")) {
		t.Errorf("EstimatedCurrent=%s want 50", got)
	}

	// Capped at the target.
	got = EstimatedCurrent(dec(t, "100"), dec(t, "90"), dec(t, "500"))
	if !got.Equal(dec(t, "100")) {
		t.Errorf("EstimatedCurrent=%s want 100", got)
	}

	// The estimate never touches the stored amount: a zero balance leaves
	// it equal to current.
	got = EstimatedCurrent(dec(t, "100"), dec(t, "30"), decimal.Zero)
	if !got.Equal(dec(t, "30")) {
		t.Errorf("EstimatedCurrent=%s want 30", got)
	}
}
