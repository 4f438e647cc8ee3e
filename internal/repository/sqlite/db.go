// Package sqlite provides SQLite implementation of repository interfaces
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with SQLite settings tuned for a single-shop
// deployment.
type DB struct {
	*sql.DB
}

// New opens (creating if needed) the workshop database.
func New(dbPath string) (*DB, error) {
	cleanPath := filepath.Clean(dbPath)
	if !filepath.IsLocal(cleanPath) && !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("invalid database path: potential path traversal detected")
	}

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL keeps reads cheap while an order update is in flight;
	// busy_timeout absorbs lock contention instead of failing.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)", cleanPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT DEFAULT 'tecnico',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			address TEXT,
			registered_at DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS bicycles (
			id TEXT PRIMARY KEY,
			customer_id TEXT REFERENCES customers(id) ON DELETE CASCADE,
			brand TEXT NOT NULL,
			model TEXT,
			serial TEXT,
			color TEXT,
			type TEXT NOT NULL,
			year INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS catalog_parts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			unit_price TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			stock INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS technicians (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			specialties_json TEXT,
			active BOOLEAN DEFAULT 1
		)`,

		// The work order aggregate. Nested line-item and log lists are
		// stored as JSON documents; money as decimal text.
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			number TEXT UNIQUE NOT NULL,
			customer_json TEXT NOT NULL,
			bicycle_json TEXT NOT NULL,
			intake_date DATETIME NOT NULL,
			estimated_delivery DATETIME NOT NULL,
			delivered_at DATETIME,
			problems_json TEXT,
			diagnosis TEXT,
			initial_notes TEXT,
			technician_notes TEXT,
			parts_json TEXT,
			labor_json TEXT,
			tasks_json TEXT,
			photos_json TEXT,
			observations_json TEXT,
			notifications_json TEXT,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			technician TEXT,
			total_cost TEXT NOT NULL,
			advance TEXT NOT NULL,
			balance TEXT NOT NULL,
			updated_at DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_bicycles_customer ON bicycles(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_parts_category ON catalog_parts(category)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_parts_name ON catalog_parts(name)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_number ON orders(number)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_priority ON orders(priority)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_updated ON orders(updated_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
