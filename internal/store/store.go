// Package store persists classified records, the per-account hash
// registry, the transfer pairing report and the learned merchant table in
// a single SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"amunoz/movimientos/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	amount      TEXT NOT NULL,
	description TEXT NOT NULL,
	bank        TEXT NOT NULL,
	account     TEXT NOT NULL,
	source_file TEXT NOT NULL,
	line_num    INTEGER NOT NULL,
	category1   TEXT NOT NULL DEFAULT '',
	category2   TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT '',
	layer       TEXT NOT NULL DEFAULT '',
	merchant    TEXT NOT NULL DEFAULT '',
	hash        TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS hash_registry (
	account     TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	count       INTEGER NOT NULL,
	PRIMARY KEY (account, fingerprint)
);

CREATE TABLE IF NOT EXISTS transfer_pairs (
	pair_id     TEXT PRIMARY KEY,
	outbound_id INTEGER NOT NULL REFERENCES transactions(id),
	inbound_id  INTEGER NOT NULL REFERENCES transactions(id),
	day_gap     INTEGER NOT NULL,
	confidence  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS unmatched_transfers (
	transaction_id INTEGER PRIMARY KEY REFERENCES transactions(id),
	pair_category  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS merchants (
	name      TEXT PRIMARY KEY,
	category1 TEXT NOT NULL,
	category2 TEXT NOT NULL DEFAULT '',
	type      TEXT NOT NULL DEFAULT ''
);
`

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens or creates the database at path and applies the schema.
// ":memory:" gives an ephemeral store for tests.
func Open(path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	logger.WithField("path", path).Debug("Database opened")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
