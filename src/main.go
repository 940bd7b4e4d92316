package main

import (
	"log"
	"net/http"

	"sysfinance-server/src/api"
	"sysfinance-server/src/config"
	"sysfinance-server/src/db"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	// Router
	router := api.NewRouter(pool, cfg)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
