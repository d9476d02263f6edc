package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetPreference returns the stored value or ErrNotFound
func (s *Storage) GetPreference(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %q: %w", key, err)
	}
	return value, nil
}

// SetPreference inserts or replaces a value
func (s *Storage) SetPreference(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set preference %q: %w", key, err)
	}
	return nil
}

// SetPreferenceIfAbsent writes the value only when the key is unset
func (s *Storage) SetPreferenceIfAbsent(key, value string) (bool, error) {
	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
	`, key, value, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to set preference %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
