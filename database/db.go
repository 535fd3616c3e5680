package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

type DB struct {
	*sql.DB
	driver string
}

// New opens a database for the given driver. For sqlite3 the dsn is a file
// path; for pgx it is a Postgres connection URL.
func New(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		return openSQLite(dsn)
	case DriverPostgres:
		return openPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openSQLite(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go through the DSN so every pooled connection gets them.
	// _txlock=immediate takes the write lock at BEGIN, so concurrent
	// transactions wait on the busy timeout instead of failing on upgrade.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"

	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return &DB{DB: db, driver: DriverSQLite}, nil
}

func openPostgres(url string) (*DB, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres connection url is required")
	}

	db, err := sql.Open(DriverPostgres, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return &DB{DB: db, driver: DriverPostgres}, nil
}

// Driver returns the driver name the database was opened with
func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) Migrate() error {
	queries := sqliteSchema
	if db.driver == DriverPostgres {
		queries = postgresSchema
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// rebind rewrites ? placeholders to $n for Postgres. Queries in this package
// never contain a literal question mark.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AUTOINCREMENT keeps SQLite from handing out the id of a deleted row again.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS labels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS todo_labels (
		todo_id INTEGER NOT NULL,
		label_id INTEGER NOT NULL,
		PRIMARY KEY (todo_id, label_id),
		FOREIGN KEY (todo_id) REFERENCES todos(id) ON DELETE CASCADE,
		FOREIGN KEY (label_id) REFERENCES labels(id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_todo_labels_label ON todo_labels(label_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS labels (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS todos (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		text TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE TABLE IF NOT EXISTS todo_labels (
		todo_id BIGINT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
		label_id BIGINT NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
		PRIMARY KEY (todo_id, label_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_todo_labels_label ON todo_labels(label_id)`,
}
