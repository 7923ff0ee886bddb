package favorites

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// sqliteSlot keeps the value in a one-row-per-key table.
type sqliteSlot struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the SQLite database at dbPath.
// ":memory:" gives a private in-memory database.
func OpenSQLite(dbPath string, logger *log.Logger) (Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// One connection, so every query sees the same in-memory database.
		connStr = "file::memory:"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return newCodecStore("sqlite", &sqliteSlot{db: db}, logger), nil
}

func (s *sqliteSlot) get() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *sqliteSlot) put(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, Key, string(raw))
	return err
}

func (s *sqliteSlot) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
