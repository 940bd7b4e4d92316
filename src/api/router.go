package api

import (
	"net/http"

	"sysfinance-server/src/config"
	"sysfinance-server/src/handlers"
	"sysfinance-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware, middleware.ReadOnlyMiddleware).Group(func(r chi.Router) {
			// Dashboard
			r.Get("/dashboard", handlers.GetDashboard(pool))

			// User
			r.Get("/me", handlers.GetCurrentUser(pool))

			// Accounts
			r.Get("/accounts", handlers.GetAccounts(pool))
			r.Post("/accounts", handlers.CreateAccount(pool))
			r.Delete("/accounts/{account_id}", handlers.DeleteAccount(pool))

			// Transactions
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Goals
			r.Get("/goals", handlers.GetGoals(pool))
			r.Post("/goals", handlers.CreateGoal(pool))

			// Transfers
			r.Get("/transfers", handlers.GetTransfers(pool))
			r.Post("/transfers", handlers.CreateTransfer(pool))

			// Reports
			r.Get("/reports", handlers.GetReport(pool))
			r.Get("/statement", handlers.GetStatement(pool))

			// Audit log (admins see all, others their own entries)
			r.Get("/logs", handlers.GetAuditLogs(pool))
		})

		// Admin routes
		r.With(middleware.JWTAuthMiddleware, middleware.AdminMiddleware).Group(func(r chi.Router) {
			r.Get("/admin/users", handlers.GetAllUsers(pool))
			r.Post("/admin/users", handlers.AdminCreateUser(pool))
			r.Delete("/admin/users/{user_id}", handlers.AdminDeleteUser(pool))

			r.Get("/admin/verify", handlers.VerifyBalances(pool))
			r.Post("/admin/cache/clear/{cache_name}", handlers.ClearCache(pool))
		})
	})

	return r
}
