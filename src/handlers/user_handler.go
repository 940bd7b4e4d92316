package handlers

import (
	"log"
	"net/http"

	sql "sysfinance-server/src/db/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetCurrentUser returns the authenticated user's profile.
func GetCurrentUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		user, err := sql.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user - user_id: %d: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
