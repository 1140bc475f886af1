package database

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

func New(connectionString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	log.Println("[database] Connected to PostgreSQL")
	return db, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS field_mappings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		source_field VARCHAR(255) UNIQUE NOT NULL,
		target_field VARCHAR(255) UNIQUE NOT NULL,
		transform VARCHAR(50),
		is_reference BOOLEAN DEFAULT false,
		is_active BOOLEAN DEFAULT true,
		position INT NOT NULL,
		created_at TIMESTAMP DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS sync_runs (
		id UUID PRIMARY KEY,
		entity_type VARCHAR(100) NOT NULL,
		requested INT NOT NULL DEFAULT 0,
		created INT NOT NULL DEFAULT 0,
		skipped INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL,
		error TEXT,
		details JSONB,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS sync_runs_started_at_idx ON sync_runs (started_at DESC);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return err
	}

	log.Println("[database] Migrations applied")
	return nil
}
