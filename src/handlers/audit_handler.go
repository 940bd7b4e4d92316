package handlers

import (
	"log"
	"net/http"
	"strconv"

	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetAuditLogs returns one page of audit entries, 5 per page. Admins see the
// whole trail; everyone else sees only their own actions.
func GetAuditLogs(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		role := r.Context().Value("role").(string)

		page := 1
		if s := r.URL.Query().Get("page"); s != "" {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 {
				http.Error(w, "invalid page", http.StatusBadRequest)
				return
			}
			page = p
		}

		var filter *int64
		if role != models.RoleAdmin {
			filter = &userID
		}

		logs, total, err := sql.GetAuditLogs(r.Context(), pool, filter, page)
		if err != nil {
			log.Printf("ERROR: Failed to get audit logs for user %d: %v", userID, err)
			http.Error(w, "failed to get audit logs", http.StatusInternalServerError)
			return
		}

		totalPages := (total + sql.AuditPageSize - 1) / sql.AuditPageSize
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"logs":        logs,
			"page":        page,
			"total":       total,
			"total_pages": totalPages,
		})
	}
}
