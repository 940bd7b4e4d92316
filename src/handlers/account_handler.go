package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"sysfinance-server/src/db"
	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"
	"sysfinance-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func accountCacheKey(userID int64) string {
	return fmt.Sprintf("accounts:%d", userID)
}

type accountListResponse struct {
	Accounts     []models.Account `json:"accounts"`
	TotalBalance decimal.Decimal  `json:"total_balance"`
}

func GetAccounts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := accountCacheKey(userID)
		if cached, found := db.Cache.Get(cacheKey); found {
			if resp, ok := cached.(accountListResponse); ok {
				writeJSON(w, http.StatusOK, resp)
				return
			}
		}

		accounts, err := sql.GetAccountsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get accounts for user %d: %v", userID, err)
			http.Error(w, "failed to get accounts", http.StatusInternalServerError)
			return
		}

		total := decimal.Zero
		for _, a := range accounts {
			total = total.Add(a.Balance)
		}

		resp := accountListResponse{Accounts: accounts, TotalBalance: total}
		db.SetAccountCache(cacheKey, resp)
		writeJSON(w, http.StatusOK, resp)
	}
}

func CreateAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			Name           string `json:"name"`
			Kind           string `json:"kind"`
			InitialBalance string `json:"initial_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		var errs []string
		if !util.ValidateAccountName(req.Name) {
			errs = append(errs, "account name must be at least 2 characters")
		}
		if !util.ValidateAccountKind(req.Kind) {
			errs = append(errs, "invalid account kind")
		}
		if req.InitialBalance == "" {
			req.InitialBalance = "0"
		}
		initial, err := ledger.ParseBalance(req.InitialBalance)
		if err != nil {
			errs = append(errs, "invalid initial balance")
		}
		if len(errs) > 0 {
			writeErrors(w, http.StatusBadRequest, errs)
			return
		}

		account := &models.Account{
			UserID:         userID,
			Name:           req.Name,
			Kind:           req.Kind,
			InitialBalance: initial,
		}
		created, err := sql.CreateAccount(r.Context(), pool, account)
		if err != nil {
			log.Printf("ERROR: Failed to create account for user %d: %v", userID, err)
			http.Error(w, "failed to create account", http.StatusInternalServerError)
			return
		}

		err = sql.InsertAuditLog(r.Context(), pool, &userID, "account_create",
			fmt.Sprintf("account %q (%s) created with initial balance %s", created.Name, created.Kind, created.InitialBalance.StringFixed(2)))
		if err != nil {
			log.Printf("ERROR: Failed to write audit entry for account %d: %v", created.ID, err)
		}

		db.DelAccountCache(accountCacheKey(userID))
		log.Printf("INFO: Created account id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func DeleteAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountIDStr := chi.URLParam(r, "account_id")
		accountID, err := strconv.ParseInt(accountIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid account id param: %s", accountIDStr)
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		err = sql.DeleteAccount(r.Context(), pool, userID, accountID)
		if err != nil {
			if err == ledger.ErrAccountNotFound {
				log.Printf("ERROR: Account id %d not found for user %d", accountID, userID)
				http.Error(w, "account not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete account id %d for user %d: %v", accountID, userID, err)
			http.Error(w, "failed to delete account", http.StatusInternalServerError)
			return
		}

		err = sql.InsertAuditLog(r.Context(), pool, &userID, "account_delete",
			fmt.Sprintf("account %d deleted with its transactions and transfers", accountID))
		if err != nil {
			log.Printf("ERROR: Failed to write audit entry for account %d: %v", accountID, err)
		}

		db.DelAccountCache(accountCacheKey(userID))
		db.DelTransactionCache(transactionCacheKey(userID))
		log.Printf("INFO: Deleted account id %d for user %d", accountID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
	}
}
