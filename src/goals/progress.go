// Package goals derives savings-goal progress figures. Progress is computed
// on read, never stored.
package goals

import "github.com/shopspring/decimal"

var (
	hundred      = decimal.NewFromInt(100)
	estimateRate = decimal.RequireFromString("0.1")
)

// Progress returns the completion percentage, clamped to [0, 100]. A goal
// with a non-positive target reports 0.
func Progress(target, current decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	p := current.Div(target).Mul(hundred)
	if p.GreaterThan(hundred) {
		return hundred
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// Remaining returns target - current. May be negative for overfunded goals.
func Remaining(target, current decimal.Decimal) decimal.Decimal {
	return target.Sub(current)
}

// EstimatedCurrent folds 10% of the user's total account balance into the
// goal's saved amount, capped at the target. This mirrors the dashboard's
// "estimated" figure, which intentionally differs from the stored amount
// shown on the goals screen; it is display-only and never persisted.
func EstimatedCurrent(target, current, totalBalance decimal.Decimal) decimal.Decimal {
	est := current.Add(totalBalance.Mul(estimateRate))
	if est.GreaterThan(target) {
		return target
	}
	return est
}
