// Package store persists webhook subscriptions in a local sqlite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/splorts/idolbot/internal/telemetry"
)

const schema = `
CREATE TABLE IF NOT EXISTS webhooks (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL UNIQUE,
	algorithms TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Subscriber is one registered webhook destination. A nil Algorithms slice
// means the default line selection.
type Subscriber struct {
	ID         string
	URL        string
	Algorithms []string
}

// Store wraps the sqlite handle. Single writer; the mutex serializes
// mutations on top of the single-connection pool.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates the database file (and its parent directory) if needed and
// applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	telemetry.Infof("store: opened %s", path)
	return &Store{db: db}, nil
}

// Add registers a destination URL. Re-adding an existing URL is a no-op.
// algorithms narrows which result lines the destination receives; nil keeps
// the default set.
func (s *Store) Add(url string, algorithms []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var algos any
	if algorithms != nil {
		algos = strings.Join(algorithms, ",")
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO webhooks (id, url, algorithms) VALUES (?, ?, ?)`,
		uuid.NewString(), url, algos,
	)
	if err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}
	return nil
}

// AddURLs seeds the registry from a list of plain URLs, skipping blanks.
func (s *Store) AddURLs(urls []string) error {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if err := s.Add(u, nil); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops a destination by URL.
func (s *Store) Remove(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM webhooks WHERE url = ?`, url); err != nil {
		return fmt.Errorf("remove subscriber: %w", err)
	}
	return nil
}

// All returns every registered destination.
func (s *Store) All() ([]Subscriber, error) {
	rows, err := s.db.Query(`SELECT id, url, algorithms FROM webhooks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		var algos sql.NullString
		if err := rows.Scan(&sub.ID, &sub.URL, &algos); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		if algos.Valid {
			sub.Algorithms = strings.Split(algos.String, ",")
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Count returns the number of registered destinations.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM webhooks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
