// Package reports aggregates transactions for the reporting screens.
package reports

import (
	"sort"

	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"

	"github.com/shopspring/decimal"
)

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// ByCategory groups transactions by category and sums their amounts.
// Results are ordered by total descending; ties break on category name so
// the ordering is stable across requests.
func ByCategory(txns []models.Transaction) []CategoryTotal {
	idx := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txns {
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Total sums the amounts of the given transactions.
func Total(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

type StatementLine struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     decimal.Decimal    `json:"balance"`
}

// Statement walks transactions in date order from an opening balance,
// applying each signed amount and recording the running balance after it.
// Transactions must already be sorted ascending by date.
func Statement(opening decimal.Decimal, txns []models.Transaction) (lines []StatementLine, closing decimal.Decimal) {
	closing = opening
	for _, t := range txns {
		d, err := ledger.Delta(t.Kind, t.Amount)
		if err != nil {
			continue
		}
		closing = closing.Add(d)
		lines = append(lines, StatementLine{Transaction: t, Balance: closing})
	}
	return lines, closing
}
