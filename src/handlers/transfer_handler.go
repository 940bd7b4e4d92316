package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"sysfinance-server/src/db"
	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func GetTransfers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		transfers, err := sql.GetTransfersForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get transfers for user %d: %v", userID, err)
			http.Error(w, "failed to get transfers", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"transfers": transfers})
	}
}

func CreateTransfer(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			FromAccountID int64  `json:"from_account_id"`
			ToAccountID   int64  `json:"to_account_id"`
			Amount        string `json:"amount"`
			Description   string `json:"description"`
			Date          string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transfer request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		var errs []string
		amount, err := ledger.ParseAmount(req.Amount)
		if err != nil {
			errs = append(errs, "invalid amount")
		}
		if req.FromAccountID == 0 || req.ToAccountID == 0 {
			errs = append(errs, "source and destination accounts are required")
		}
		if req.Date == "" {
			req.Date = time.Now().Format(dateLayout)
		}
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			errs = append(errs, "invalid date")
		}
		if len(errs) > 0 {
			writeErrors(w, http.StatusBadRequest, errs)
			return
		}

		transfer := &models.Transfer{
			UserID:        userID,
			FromAccountID: req.FromAccountID,
			ToAccountID:   req.ToAccountID,
			Amount:        amount,
			Description:   req.Description,
			Date:          date,
		}
		created, err := sql.CreateTransfer(r.Context(), pool, transfer)
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrSameAccount):
				log.Printf("ERROR: Self-transfer rejected for user %d, account %d", userID, req.FromAccountID)
				writeErrors(w, http.StatusBadRequest, []string{"source and destination accounts must differ"})
			case errors.Is(err, ledger.ErrAccountNotFound):
				log.Printf("ERROR: Transfer account not found for user %d", userID)
				http.Error(w, "account not found", http.StatusNotFound)
			case errors.Is(err, ledger.ErrInsufficientFunds):
				log.Printf("ERROR: Insufficient funds for transfer of %s from account %d, user %d", amount.StringFixed(2), req.FromAccountID, userID)
				writeErrors(w, http.StatusBadRequest, []string{"insufficient funds in source account"})
			default:
				log.Printf("ERROR: Failed to create transfer for user %d: %v", userID, err)
				http.Error(w, "failed to create transfer", http.StatusInternalServerError)
			}
			return
		}

		db.DelAccountCache(accountCacheKey(userID))

		log.Printf("INFO: Created transfer id %d for user %d (%d -> %d)", created.ID, userID, created.FromAccountID, created.ToAccountID)
		writeJSON(w, http.StatusCreated, created)
	}
}
