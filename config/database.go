package config

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func InitDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS proyectos (
			id TEXT PRIMARY KEY,
			name VARCHAR(50) NOT NULL,
			description VARCHAR(200) DEFAULT '',
			color VARCHAR(7) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			active BOOLEAN DEFAULT TRUE
		)`,

		`CREATE TABLE IF NOT EXISTS facturas (
			id TEXT PRIMARY KEY,
			invoice_number VARCHAR(100) DEFAULT '',
			supplier VARCHAR(255) DEFAULT '',
			amount_base NUMERIC(12,2) NOT NULL,
			amount_extra NUMERIC(12,2) DEFAULT 0,
			description VARCHAR(500) NOT NULL,
			project_id TEXT DEFAULT '',
			image_url TEXT DEFAULT '',
			notes TEXT DEFAULT '',
			status VARCHAR(20) DEFAULT 'pending',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			modified_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		// Invoices deliberately carry no foreign key: deleting a project
		// must never delete or rewrite its invoices.
		`CREATE INDEX IF NOT EXISTS idx_facturas_project_id ON facturas(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_facturas_created_at ON facturas(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_proyectos_active ON proyectos(active)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
