package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Setting keys.
const (
	SettingOnboarded = "onboarded"
)

// GetSetting returns the value for a user-scoped key, or fallback when the
// key has never been set.
func (s *Store) GetSetting(userID int64, key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT setting_value FROM settings WHERE user_id = ? AND setting_key = ?`,
		userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a user-scoped key.
func (s *Store) SetSetting(userID int64, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO settings (user_id, setting_key, setting_value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, setting_key) DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at`,
		userID, key, value, now)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// IsOnboarded reports whether the user has completed the first-run profile
// setup.
func (s *Store) IsOnboarded(userID int64) (bool, error) {
	v, err := s.GetSetting(userID, SettingOnboarded, "0")
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// MarkOnboarded records first-run setup completion.
func (s *Store) MarkOnboarded(userID int64) error {
	return s.SetSetting(userID, SettingOnboarded, "1")
}
