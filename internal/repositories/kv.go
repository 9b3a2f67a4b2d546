package repositories

import (
	"database/sql"
	"fmt"
)

// KV is the browser-storage-shaped persistence surface: get, set, and
// remove by string key.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// KVStore implements [KV] on a single SQLite table.
type KVStore struct {
	db *sql.DB
}

// NewKVStore creates the backing table if needed and returns the store.
func NewKVStore(db *sql.DB) (*KVStore, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS local_kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &KVStore{db: db}, nil
}

// Get returns the value for key and whether the key exists.
func (s *KVStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM local_kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (s *KVStore) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO local_kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *KVStore) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM local_kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}
