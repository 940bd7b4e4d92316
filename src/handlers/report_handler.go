package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"
	"sysfinance-server/src/reports"
	"sysfinance-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

const monthLayout = "2006-01"

// GetReport renders the month-scoped single-type report: matching
// transactions, their total, and per-category sums ordered descending.
// Defaults to income for the current month.
func GetReport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		kind := r.URL.Query().Get("type")
		if kind == "" {
			kind = models.TransactionIncome
		}
		if !util.ValidateTransactionKind(kind) {
			writeErrors(w, http.StatusBadRequest, []string{"type must be income or expense"})
			return
		}

		monthStr := r.URL.Query().Get("month")
		var monthStart time.Time
		if monthStr == "" {
			now := time.Now()
			monthStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		} else {
			var err error
			monthStart, err = time.Parse(monthLayout, monthStr)
			if err != nil {
				writeErrors(w, http.StatusBadRequest, []string{"month must be formatted YYYY-MM"})
				return
			}
		}

		txns, err := sql.GetTransactionsForMonth(r.Context(), pool, userID, kind, monthStart)
		if err != nil {
			log.Printf("ERROR: Failed to get report transactions for user %d: %v", userID, err)
			http.Error(w, "failed to build report", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"month":        monthStart.Format(monthLayout),
			"type":         kind,
			"total":        reports.Total(txns),
			"transactions": txns,
			"by_category":  reports.ByCategory(txns),
		})
	}
}

// GetStatement lists transactions over an optional date range and account
// filter. When an account is given, each line carries the running balance
// from the account's opening (initial) balance in date order.
func GetStatement(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var errs []string
		var accountID int64
		if s := r.URL.Query().Get("account_id"); s != "" {
			var err error
			accountID, err = strconv.ParseInt(s, 10, 64)
			if err != nil {
				errs = append(errs, "invalid account id")
			}
		}
		var from, to *time.Time
		if s := r.URL.Query().Get("from"); s != "" {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				errs = append(errs, "invalid from date")
			} else {
				from = &d
			}
		}
		if s := r.URL.Query().Get("to"); s != "" {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				errs = append(errs, "invalid to date")
			} else {
				to = &d
			}
		}
		if len(errs) > 0 {
			writeErrors(w, http.StatusBadRequest, errs)
			return
		}

		txns, err := sql.GetStatementTransactions(r.Context(), pool, userID, accountID, from, to)
		if err != nil {
			log.Printf("ERROR: Failed to get statement transactions for user %d: %v", userID, err)
			http.Error(w, "failed to build statement", http.StatusInternalServerError)
			return
		}

		if accountID == 0 {
			writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txns})
			return
		}

		account, err := sql.GetAccountByID(r.Context(), pool, userID, accountID)
		if err != nil {
			if err == ledger.ErrAccountNotFound {
				http.Error(w, "account not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get account %d for statement, user %d: %v", accountID, userID, err)
			http.Error(w, "failed to build statement", http.StatusInternalServerError)
			return
		}
		lines, closing := reports.Statement(account.InitialBalance, txns)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"opening_balance": account.InitialBalance,
			"closing_balance": closing,
			"lines":           lines,
		})
	}
}
