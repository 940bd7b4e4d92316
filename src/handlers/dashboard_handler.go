package handlers

import (
	"log"
	"net/http"
	"time"

	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/goals"
	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type dashboardGoal struct {
	models.Goal
	Progress decimal.Decimal `json:"progress"`
	// Estimated figures fold in 10% of the user's total account balance.
	// They differ from the stored amounts shown on the goals screen and are
	// never persisted.
	EstimatedCurrent  decimal.Decimal `json:"estimated_current"`
	EstimatedProgress decimal.Decimal `json:"estimated_progress"`
}

// GetDashboard summarizes the user's month: income and expense totals, total
// balance across accounts, the five most recent transactions, and goals with
// both stored and estimated progress.
func GetDashboard(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

		income, expense, err := sql.MonthTotals(r.Context(), pool, userID, monthStart)
		if err != nil {
			log.Printf("ERROR: Failed to get month totals for user %d: %v", userID, err)
			http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
			return
		}

		totalBalance, err := sql.TotalBalance(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get total balance for user %d: %v", userID, err)
			http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
			return
		}

		recent, err := sql.GetRecentTransactions(r.Context(), pool, userID, 5)
		if err != nil {
			log.Printf("ERROR: Failed to get recent transactions for user %d: %v", userID, err)
			http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
			return
		}

		gs, err := sql.GetGoalsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get goals for user %d: %v", userID, err)
			http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
			return
		}

		dashGoals := make([]dashboardGoal, 0, len(gs))
		for _, g := range gs {
			estimated := goals.EstimatedCurrent(g.TargetAmount, g.CurrentAmount, totalBalance)
			dashGoals = append(dashGoals, dashboardGoal{
				Goal:              g,
				Progress:          goals.Progress(g.TargetAmount, g.CurrentAmount),
				EstimatedCurrent:  estimated,
				EstimatedProgress: goals.Progress(g.TargetAmount, estimated),
			})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"month":               monthStart.Format(monthLayout),
			"month_income":        income,
			"month_expense":       expense,
			"total_balance":       totalBalance,
			"recent_transactions": recent,
			"goals":               dashGoals,
		})
	}
}
