package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ColorChange は色ロールの変更履歴1件です。
type ColorChange struct {
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	Choice    string    `json:"choice"`
	ChangedAt time.Time `json:"changed_at"`
}

// --- DBStore ---

// DBStore keeps the bot's telemetry: per-category command usage and the color
// role audit trail. Viewer and role state are never stored here.
type DBStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewDBStore(dataSourceName string) (*DBStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	store := &DBStore{db: db}
	if err = store.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *DBStore) initTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS command_usage (
			category TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS color_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			choice TEXT NOT NULL,
			changed_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_color_history_guild ON color_history (guild_id, id);`,
	}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("storage: init tables: %w", err)
		}
	}
	return nil
}

func (s *DBStore) Close() {
	s.db.Close()
}

func (s *DBStore) PingDB() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Ping()
}

// --- Command usage ---

// IncrementCommandUsage increments the usage count for a given command category.
func (s *DBStore) IncrementCommandUsage(category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO command_usage (category, count)
		VALUES (?, 1)
		ON CONFLICT(category) DO UPDATE SET count = count + 1;
	`
	_, err := s.db.Exec(query, category)
	return err
}

// GetAndResetCommandUsage retrieves all non-zero command usage counts and resets them to zero.
func (s *DBStore) GetAndResetCommandUsage() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT category, count FROM command_usage WHERE count > 0")
	if err != nil {
		return nil, err
	}

	usage := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			rows.Close()
			return nil, err
		}
		usage[category] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec("UPDATE command_usage SET count = 0"); err != nil {
		return nil, err
	}
	return usage, tx.Commit()
}

// --- Color history ---

// RecordColorChange appends an entry to the color role audit trail.
func (s *DBStore) RecordColorChange(guildID, userID, choice string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO color_history (guild_id, user_id, choice, changed_at) VALUES (?, ?, ?, ?)",
		guildID, userID, choice, time.Now().UTC(),
	)
	return err
}

// RecentColorChanges returns up to limit changes in a guild, newest first.
func (s *DBStore) RecentColorChanges(guildID string, limit int) ([]ColorChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT guild_id, user_id, choice, changed_at FROM color_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?",
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]ColorChange, 0)
	for rows.Next() {
		var c ColorChange
		if err := rows.Scan(&c.GuildID, &c.UserID, &c.Choice, &c.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
