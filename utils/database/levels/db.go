package levels

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store is the XP ledger backed by sqlite.
type Store struct {
	db   *sqlx.DB
	path string
}

// Init opens the ledger at dbPath and ensures the schema is current.
func Init(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// sqlite allows one writer; keep grants strictly sequential at the driver level.
	db.SetMaxOpenConns(1)

	usersSchema := `CREATE TABLE IF NOT EXISTS users (
		user_id TEXT NOT NULL,
		guild_id TEXT NOT NULL,
		level INTEGER DEFAULT 0,
		xp INTEGER DEFAULT 0,
		total_xp INTEGER DEFAULT 0,
		PRIMARY KEY (user_id, guild_id)
	);`
	if _, err := db.Exec(usersSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	// Older ledgers predate total_xp.
	_, err = db.Exec(`ALTER TABLE users ADD COLUMN total_xp INTEGER DEFAULT 0`)
	if err != nil && !strings.Contains(err.Error(), "duplicate column name") {
		db.Close()
		return nil, fmt.Errorf("failed to add total_xp column: %w", err)
	}
	if err == nil {
		log.Println("[Ledger] Added missing 'total_xp' column to 'users'.")
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_total_xp ON users (guild_id, total_xp DESC)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create total_xp index: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path is the file the ledger lives in.
func (s *Store) Path() string {
	return s.path
}

// SizeBytes reports the on-disk size of the ledger file.
func (s *Store) SizeBytes() (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
