package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"sysfinance-server/src/db"
	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/ledger"
	"sysfinance-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func GetAllUsers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := sql.GetAllUsers(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to get users: %v", err)
			http.Error(w, "failed to get users", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
	}
}

func AdminCreateUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := r.Context().Value("user_id").(int64)

		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode admin create user request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		// Same normalization as self-registration so login lookups match.
		req.Username = util.NormalizeLogin(req.Username)
		req.Email = util.NormalizeLogin(req.Email)

		var errs []string
		if !util.ValidateUsername(req.Username) {
			errs = append(errs, "username must be between 3 and 30 characters")
		}
		if !util.ValidateEmail(req.Email) {
			errs = append(errs, "invalid email format")
		}
		if !util.ValidatePassword(req.Password) {
			errs = append(errs, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
		}
		if !util.ValidateRole(req.Role) {
			errs = append(errs, "role must be admin, manager or visitor")
		}
		if len(errs) > 0 {
			writeErrors(w, http.StatusBadRequest, errs)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for user %s: %v", req.Username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp, err := sql.CreateUser(r.Context(), pool, req.Username, req.Email, req.Role, string(hashedPassword))
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				log.Printf("ERROR: Admin user creation failed - username or email already exists - Username: %s", req.Username)
				writeErrors(w, http.StatusConflict, []string{"email or username already exists"})
				return
			}
			log.Printf("ERROR: Failed to create user %s: %v", req.Username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		err = sql.InsertAuditLog(r.Context(), pool, &adminID, "user_create",
			fmt.Sprintf("user %q created with role %s", resp.Username, resp.Role))
		if err != nil {
			log.Printf("ERROR: Failed to write audit entry for new user %d: %v", resp.ID, err)
		}

		log.Printf("INFO: Admin %d created user %s (id %d, role %s)", adminID, resp.Username, resp.ID, resp.Role)
		writeJSON(w, http.StatusCreated, resp)
	}
}

func AdminDeleteUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := r.Context().Value("user_id").(int64)
		userIDStr := chi.URLParam(r, "user_id")
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid user id param: %s", userIDStr)
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		if userID == adminID {
			log.Printf("ERROR: Admin %d attempted to delete own account", adminID)
			writeErrors(w, http.StatusBadRequest, []string{"deleting your own account is not allowed"})
			return
		}

		if err := sql.DeleteUser(r.Context(), pool, userID); err != nil {
			log.Printf("ERROR: Failed to delete user %d: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		err = sql.InsertAuditLog(r.Context(), pool, &adminID, "user_delete",
			fmt.Sprintf("user %d deleted", userID))
		if err != nil {
			log.Printf("ERROR: Failed to write audit entry for deleted user %d: %v", userID, err)
		}

		// Caches may hold lists belonging to the deleted user.
		db.ClearAllAccountCaches()
		db.ClearAllTransactionCaches()

		log.Printf("INFO: Admin %d deleted user %d", adminID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
	}
}

type balanceMismatch struct {
	AccountID int64           `json:"account_id"`
	UserID    int64           `json:"user_id"`
	Stored    decimal.Decimal `json:"stored"`
	Computed  decimal.Decimal `json:"computed"`
}

// VerifyBalances recomputes every account's balance from its initial value
// and the surviving transaction/transfer records, and reports any account
// whose stored balance has drifted.
func VerifyBalances(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := sql.GetAllAccounts(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to load accounts for verification: %v", err)
			http.Error(w, "verification failed", http.StatusInternalServerError)
			return
		}
		txns, err := sql.GetTransactionsForAccounts(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to load transactions for verification: %v", err)
			http.Error(w, "verification failed", http.StatusInternalServerError)
			return
		}
		transfers, err := sql.GetAllTransfers(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to load transfers for verification: %v", err)
			http.Error(w, "verification failed", http.StatusInternalServerError)
			return
		}

		mismatches := []balanceMismatch{}
		for _, a := range accounts {
			computed := ledger.Recompute(a.InitialBalance, a.ID, txns, transfers)
			if !computed.Equal(a.Balance) {
				mismatches = append(mismatches, balanceMismatch{
					AccountID: a.ID,
					UserID:    a.UserID,
					Stored:    a.Balance,
					Computed:  computed,
				})
			}
		}

		if len(mismatches) > 0 {
			log.Printf("ERROR: Balance verification found %d mismatched accounts", len(mismatches))
		} else {
			log.Printf("INFO: Balance verification passed for %d accounts", len(accounts))
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"accounts_checked": len(accounts),
			"mismatches":       mismatches,
		})
	}
}

func ClearCache(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheName := chi.URLParam(r, "cache_name")
		switch cacheName {
		case "accounts":
			db.ClearAllAccountCaches()
		case "transactions":
			db.ClearAllTransactionCaches()
		case "all":
			db.ClearAllAccountCaches()
			db.ClearAllTransactionCaches()
		default:
			http.Error(w, "unknown cache name", http.StatusBadRequest)
			return
		}
		log.Printf("INFO: Cleared cache %q", cacheName)
		writeJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
	}
}
