package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/goals"
	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type goalView struct {
	models.Goal
	Progress  decimal.Decimal `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
}

func goalViews(gs []models.Goal) []goalView {
	out := make([]goalView, 0, len(gs))
	for _, g := range gs {
		out = append(out, goalView{
			Goal:      g,
			Progress:  goals.Progress(g.TargetAmount, g.CurrentAmount),
			Remaining: goals.Remaining(g.TargetAmount, g.CurrentAmount),
		})
	}
	return out
}

func GetGoals(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		gs, err := sql.GetGoalsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get goals for user %d: %v", userID, err)
			http.Error(w, "failed to get goals", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goalViews(gs)})
	}
}

func CreateGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			Name          string `json:"name"`
			TargetAmount  string `json:"target_amount"`
			CurrentAmount string `json:"current_amount"`
			Deadline      string `json:"deadline"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create goal request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		var errs []string
		if req.Name == "" {
			errs = append(errs, "name is required")
		}
		target, err := ledger.ParseAmount(req.TargetAmount)
		if err != nil {
			errs = append(errs, "invalid target amount")
		}
		if req.CurrentAmount == "" {
			req.CurrentAmount = "0"
		}
		current, err := ledger.ParseBalance(req.CurrentAmount)
		if err != nil {
			errs = append(errs, "invalid current amount")
		}
		deadline, err := time.Parse(dateLayout, req.Deadline)
		if err != nil {
			errs = append(errs, "invalid deadline")
		}
		if len(errs) > 0 {
			writeErrors(w, http.StatusBadRequest, errs)
			return
		}

		goal := &models.Goal{
			UserID:        userID,
			Name:          req.Name,
			TargetAmount:  target,
			CurrentAmount: current,
			Deadline:      deadline,
		}
		created, err := sql.CreateGoal(r.Context(), pool, goal)
		if err != nil {
			log.Printf("ERROR: Failed to create goal for user %d: %v", userID, err)
			http.Error(w, "failed to create goal", http.StatusInternalServerError)
			return
		}

		err = sql.InsertAuditLog(r.Context(), pool, &userID, "goal_create",
			fmt.Sprintf("goal %q created with target %s", created.Name, created.TargetAmount.StringFixed(2)))
		if err != nil {
			log.Printf("ERROR: Failed to write audit entry for goal %d: %v", created.ID, err)
		}

		log.Printf("INFO: Created goal id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, goalView{
			Goal:      *created,
			Progress:  goals.Progress(created.TargetAmount, created.CurrentAmount),
			Remaining: goals.Remaining(created.TargetAmount, created.CurrentAmount),
		})
	}
}
