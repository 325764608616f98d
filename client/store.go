// Package client implements the offline-first mobile side of MoneyTrack: a
// SQLite-backed persisted store, the pending-mutation queue, the remote API
// client and the transaction tracker that ties them together.
package client

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Keys used in the persisted store. Transaction cache and pending queue live
// under distinct keys; the rest belong to the session.
const (
	KeyTransactionList = "transactionList"
	KeyQueue           = "queueTransaction"
	KeyAccessToken     = "accessToken"
	KeyRefreshToken    = "refreshToken"
	KeyUserProfile     = "userProfile"
	KeySetting         = "setting"
)

// Store is the durable key-value storage behind the cache, the queue and the
// session. Writes are serialized: interleaved read-modify-write from
// concurrently suspended operations must not lose updates.
type Store struct {
	db *sqlx.DB
	mu sync.Mutex
}

// OpenStore opens (and if needed initializes) the store at path.
func OpenStore(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key, or "" if the key is absent.
func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value string
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// GetList unmarshals the JSON list stored under key into dest. A missing key
// leaves dest untouched, so callers get their empty slice back.
func (s *Store) GetList(key string, dest any) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to decode list %s: %w", key, err)
	}
	return nil
}

// SetList stores value under key as a JSON list.
func (s *Store) SetList(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode list %s: %w", key, err)
	}
	return s.Set(key, string(raw))
}

// GetJSON and SetJSON are the single-object counterparts of GetList/SetList.
func (s *Store) GetJSON(key string, dest any) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(key, string(raw))
}
