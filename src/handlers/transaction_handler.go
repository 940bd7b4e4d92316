package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"sysfinance-server/src/db"
	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"
	"sysfinance-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func transactionCacheKey(userID int64) string {
	return fmt.Sprintf("transactions:%d", userID)
}

type transactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Categories   []string             `json:"categories"`
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := transactionCacheKey(userID)
		if cached, found := db.Cache.Get(cacheKey); found {
			if resp, ok := cached.(transactionListResponse); ok {
				writeJSON(w, http.StatusOK, resp)
				return
			}
		}

		txns, err := sql.GetTransactionsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}

		// Existing categories are returned alongside for form suggestions.
		categories, err := sql.GetDistinctCategories(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}

		resp := transactionListResponse{Transactions: txns, Categories: categories}
		db.SetTransactionCache(cacheKey, resp)
		writeJSON(w, http.StatusOK, resp)
	}
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			AccountID   int64  `json:"account_id"`
			Kind        string `json:"kind"`
			Category    string `json:"category"`
			Amount      string `json:"amount"`
			Description string `json:"description"`
			Date        string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		var errs []string
		if !util.ValidateTransactionKind(req.Kind) {
			errs = append(errs, "invalid transaction kind")
		}
		if req.Category == "" {
			errs = append(errs, "category is required")
		}
		if req.Description == "" {
			errs = append(errs, "description is required")
		}
		amount, err := ledger.ParseAmount(req.Amount)
		if err != nil {
			errs = append(errs, "invalid amount")
		}
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			errs = append(errs, "invalid date")
		}
		if req.AccountID == 0 {
			errs = append(errs, "account is required")
		}
		if len(errs) > 0 {
			writeErrors(w, http.StatusBadRequest, errs)
			return
		}

		txn := &models.Transaction{
			AccountID:   req.AccountID,
			UserID:      userID,
			Kind:        req.Kind,
			Category:    req.Category,
			Amount:      amount,
			Description: req.Description,
			Date:        date,
		}
		created, balance, err := sql.CreateTransaction(r.Context(), pool, txn)
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrAccountNotFound):
				log.Printf("ERROR: Account id %d not found for user %d", req.AccountID, userID)
				http.Error(w, "account not found", http.StatusNotFound)
			case errors.Is(err, ledger.ErrInsufficientFunds):
				log.Printf("ERROR: Insufficient funds for expense of %s on account %d, user %d", amount.StringFixed(2), req.AccountID, userID)
				writeErrors(w, http.StatusBadRequest, []string{"insufficient funds in account"})
			default:
				log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
				http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			}
			return
		}

		db.DelTransactionCache(transactionCacheKey(userID))
		db.DelAccountCache(accountCacheKey(userID))

		log.Printf("INFO: Created transaction id %d for user %d on account %d", created.ID, userID, created.AccountID)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"transaction": created,
			"balance":     balance,
		})
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionIDStr := chi.URLParam(r, "transaction_id")
		transactionID, err := strconv.ParseInt(transactionIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", transactionIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		balance, err := sql.DeleteTransaction(r.Context(), pool, userID, transactionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				log.Printf("ERROR: Transaction id %d not found for user %d", transactionID, userID)
				http.Error(w, "transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to delete transaction", http.StatusInternalServerError)
			return
		}

		db.DelTransactionCache(transactionCacheKey(userID))
		db.DelAccountCache(accountCacheKey(userID))

		resp := map[string]interface{}{
			"message": "transaction deleted, balance adjusted",
			"balance": balance,
		}
		// Reversing a deletion carries no funds check, so the account can
		// end up overdrawn; tell the caller rather than failing.
		if balance.LessThan(decimal.Zero) {
			resp["warning"] = "account balance is now negative"
		}

		log.Printf("INFO: Deleted transaction id %d for user %d", transactionID, userID)
		writeJSON(w, http.StatusOK, resp)
	}
}
