package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jazz-lnz/tymate/internal/timeutil"
)

// Profile is the mutable slice of a user row updated during onboarding and
// from the settings screen.
type Profile struct {
	FullName             string
	SleepHours           float64
	WakeTime             string
	HasWork              bool
	WorkHoursPerWeek     float64
	WorkDaysPerWeek      int
	StudyGoalHoursPerDay float64
}

func validateProfile(p Profile) error {
	if p.SleepHours < 0 || p.SleepHours > 24 {
		return &ValidationError{Field: "sleep hours", Reason: "must be between 0 and 24"}
	}
	if _, err := timeutil.ParseClock(p.WakeTime); err != nil {
		return &ValidationError{Field: "wake time", Reason: "must be HH:MM"}
	}
	if p.WorkHoursPerWeek < 0 || p.WorkHoursPerWeek > 168 {
		return &ValidationError{Field: "work hours", Reason: "must be between 0 and 168"}
	}
	if p.WorkDaysPerWeek < 0 || p.WorkDaysPerWeek > 7 {
		return &ValidationError{Field: "work days", Reason: "must be between 0 and 7"}
	}
	if p.StudyGoalHoursPerDay < 0 || p.StudyGoalHoursPerDay > 24 {
		return &ValidationError{Field: "study goal", Reason: "must be between 0 and 24"}
	}
	return nil
}

// EnsureUser returns the user with the given username, creating it with
// default profile values on first use.
func (s *Store) EnsureUser(username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Reason: "must not be empty"}
	}

	u, err := s.GetUserByName(username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	res, err := s.db.Exec(`INSERT INTO users (username) VALUES (?)`, username)
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return s.GetUser(id)
}

// GetUser fetches a user by id.
func (s *Store) GetUser(id int64) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, full_name, sleep_hours, wake_time, has_work,
		        work_hours_per_week, work_days_per_week, study_goal_hours_per_day,
		        created_at, updated_at
		 FROM users WHERE id = ?`, id))
}

// GetUserByName fetches a user by username.
func (s *Store) GetUserByName(username string) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, full_name, sleep_hours, wake_time, has_work,
		        work_hours_per_week, work_days_per_week, study_goal_hours_per_day,
		        created_at, updated_at
		 FROM users WHERE username = ?`, username))
}

func (s *Store) scanUser(row *sql.Row) (*User, error) {
	var u User
	var hasWork int
	var created, updated string
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.SleepHours, &u.WakeTime,
		&hasWork, &u.WorkHoursPerWeek, &u.WorkDaysPerWeek, &u.StudyGoalHoursPerDay,
		&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.HasWork = hasWork != 0
	u.CreatedAt = parseTimestamp(created)
	u.UpdatedAt = parseTimestamp(updated)
	return &u, nil
}

// UpdateProfile validates and persists profile fields. Wake time is
// normalized to "HH:MM" before storage.
func (s *Store) UpdateProfile(userID int64, p Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	wake, _ := timeutil.ParseClock(p.WakeTime)
	if !p.HasWork {
		p.WorkHoursPerWeek = 0
		p.WorkDaysPerWeek = 0
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE users
		 SET full_name = ?, sleep_hours = ?, wake_time = ?, has_work = ?,
		     work_hours_per_week = ?, work_days_per_week = ?,
		     study_goal_hours_per_day = ?, updated_at = ?
		 WHERE id = ?`,
		p.FullName, p.SleepHours, wake.String(), boolToInt(p.HasWork),
		p.WorkHoursPerWeek, p.WorkDaysPerWeek, p.StudyGoalHoursPerDay, now, userID)
	if err != nil {
		return fmt.Errorf("update profile %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile %d: %w", userID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTimestamp is lenient about historical timestamp shapes. A zero time
// is returned for values it cannot parse.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
