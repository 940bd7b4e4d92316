// Command backup writes a JSON dump of every table to a timestamped file.
// It replaces the web-triggered backup screens of earlier iterations: backups
// run from the command line with a real database connection, never from a
// request handler shelling out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sysfinance-server/src/db"
	sql "sysfinance-server/src/db/sql"
	"sysfinance-server/src/models"

	"github.com/joho/godotenv"
)

type dump struct {
	CreatedAt    time.Time            `json:"created_at"`
	Users        []models.User        `json:"users"`
	Accounts     []models.Account     `json:"accounts"`
	Transactions []models.Transaction `json:"transactions"`
	Goals        []models.Goal        `json:"goals"`
	Transfers    []models.Transfer    `json:"transfers"`
	AuditLogs    []models.AuditLog    `json:"audit_logs"`
}

func main() {
	out := flag.String("out", "", "output file (default backup_sysfinance_<timestamp>.json)")
	flag.Parse()

	_ = godotenv.Load()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Connect(databaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	d := dump{CreatedAt: time.Now()}

	if d.Users, err = sql.GetAllUsers(ctx, pool); err != nil {
		log.Fatalf("dumping users: %v", err)
	}
	if d.Accounts, err = sql.GetAllAccounts(ctx, pool); err != nil {
		log.Fatalf("dumping accounts: %v", err)
	}
	if d.Transactions, err = sql.GetTransactionsForAccounts(ctx, pool); err != nil {
		log.Fatalf("dumping transactions: %v", err)
	}
	if d.Goals, err = sql.GetAllGoals(ctx, pool); err != nil {
		log.Fatalf("dumping goals: %v", err)
	}
	if d.Transfers, err = sql.GetAllTransfers(ctx, pool); err != nil {
		log.Fatalf("dumping transfers: %v", err)
	}
	if d.AuditLogs, err = sql.GetAllAuditLogs(ctx, pool); err != nil {
		log.Fatalf("dumping audit logs: %v", err)
	}

	filename := *out
	if filename == "" {
		filename = fmt.Sprintf("backup_sysfinance_%s.json", time.Now().Format("20060102_150405"))
	}

	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("creating %s: %v", filename, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		log.Fatalf("writing %s: %v", filename, err)
	}

	log.Printf("INFO: Backup written to %s (%d users, %d accounts, %d transactions)",
		filename, len(d.Users), len(d.Accounts), len(d.Transactions))
}
