package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and WAL journaling so readers keep seeing the last
// committed generation while a rebuild is being written.
func New(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS generations (
			id TEXT PRIMARY KEY,
			files INTEGER NOT NULL,
			sections INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			active INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			title TEXT NOT NULL,
			section_title TEXT NOT NULL,
			content TEXT NOT NULL,
			section_idx INTEGER NOT NULL,
			title_len INTEGER NOT NULL DEFAULT 0,
			section_title_len INTEGER NOT NULL DEFAULT 0,
			content_len INTEGER NOT NULL DEFAULT 0,
			UNIQUE (path, section_idx)
		);`,
		`CREATE TABLE IF NOT EXISTS postings (
			field TEXT NOT NULL,
			term TEXT NOT NULL,
			section_id INTEGER NOT NULL,
			frequency INTEGER NOT NULL,
			positions TEXT NOT NULL,
			PRIMARY KEY (field, term, section_id),
			FOREIGN KEY (section_id) REFERENCES sections(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_postings_section ON postings(section_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// lengthColumn returns the sections column holding the analyzed length of field.
func lengthColumn(field string) (string, error) {
	switch field {
	case FieldTitle:
		return "title_len", nil
	case FieldSectionTitle:
		return "section_title_len", nil
	case FieldContent:
		return "content_len", nil
	default:
		return "", fmt.Errorf("field %q is not indexed", field)
	}
}
