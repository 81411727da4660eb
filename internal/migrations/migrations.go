package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the inventory backend.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			email TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'supplies',
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			unit TEXT NOT NULL DEFAULT '',
			cost_per_unit NUMERIC(12,2) NOT NULL DEFAULT 0,
			min_threshold INTEGER NOT NULL DEFAULT 0,
			expiry_date DATE,
			supplier TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS requests (
			id TEXT PRIMARY KEY,
			item_id TEXT REFERENCES inventory_items(id),
			requester_id TEXT REFERENCES users(id),
			quantity_requested INTEGER NOT NULL CHECK (quantity_requested > 0),
			status TEXT NOT NULL DEFAULT 'pending',
			request_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			approved_date TIMESTAMPTZ,
			department TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_items_created_at ON inventory_items (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_requests_request_date ON requests (request_date DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_requests_requester ON requests (requester_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
