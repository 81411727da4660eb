package main

import (
	"log"
	"net/http"

	"github.com/icz3us/medical-inv-v2/internal/advisor"
	"github.com/icz3us/medical-inv-v2/internal/api"
	"github.com/icz3us/medical-inv-v2/internal/config"
	"github.com/icz3us/medical-inv-v2/internal/database"
	"github.com/icz3us/medical-inv-v2/internal/migrations"
	"github.com/icz3us/medical-inv-v2/internal/seed"
	"github.com/icz3us/medical-inv-v2/internal/store"
)

func main() {
	cfg := config.Load()

	var stores store.Stores
	if cfg.DatabaseDSN == "" {
		log.Println("DATABASE_DSN not set, serving from in-memory store")
		stores = store.NewMemoryStores()
	} else if db, err := database.Connect(cfg.DatabaseDSN); err != nil {
		log.Printf("database unavailable, serving from in-memory store: %v", err)
		stores = store.NewMemoryStores()
	} else {
		defer db.Close()
		migrations.Run(db)
		seed.LoadStaff(db, cfg.StaffCSV)
		stores = store.NewPostgresStores(db)
	}

	gen := advisor.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	adv := advisor.New(gen, cfg.AdvisorTimeout)

	handler := api.New(stores, adv, cfg.Secret)

	log.Printf("inventory server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
