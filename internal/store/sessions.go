package store

import (
	"errors"
	"fmt"
	"time"
)

// LogSession records a chunk of work against an existing, non-deleted task.
// Duration must be positive.
func (s *Store) LogSession(userID, taskID int64, durationMinutes int, notes string, loggedAt time.Time) (int64, error) {
	if durationMinutes <= 0 {
		return 0, &ValidationError{Field: "duration", Reason: "must be positive minutes"}
	}

	t, err := s.GetTask(userID, taskID)
	if err != nil {
		return 0, err
	}
	if !t.Deletion.Active() {
		return 0, ErrNotFound
	}

	res, err := s.db.Exec(
		`INSERT INTO task_sessions (user_id, task_id, duration_minutes, notes, logged_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, taskID, durationMinutes, notes, loggedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("log session for task %d: %w", taskID, err)
	}

	// First logged work nudges the task out of Not Started.
	if t.Status == StatusNotStarted {
		if err := s.SetTaskStatus(userID, taskID, StatusInProgress); err != nil && !errors.Is(err, ErrNotFound) {
			return 0, err
		}
	}
	return res.LastInsertId()
}

// SessionsForTask returns the non-deleted sessions for one task, oldest first.
func (s *Store) SessionsForTask(userID, taskID int64) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, task_id, duration_minutes, notes, logged_at, created_at
		 FROM task_sessions
		 WHERE user_id = ? AND task_id = ? AND is_deleted = 0
		 ORDER BY logged_at, id`, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for task %d: %w", taskID, err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var logged, created string
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.TaskID, &sess.DurationMinutes,
			&sess.Notes, &logged, &created); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.LoggedAt = parseTimestamp(logged)
		sess.CreatedAt = parseTimestamp(created)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// TaskMinutes sums the non-deleted session minutes logged against a task.
func (s *Store) TaskMinutes(userID, taskID int64) (int, error) {
	var total int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM task_sessions
		 WHERE user_id = ? AND task_id = ? AND is_deleted = 0`, userID, taskID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum sessions for task %d: %w", taskID, err)
	}
	return total, nil
}
