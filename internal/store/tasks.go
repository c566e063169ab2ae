package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func validateTask(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	valid := false
	for _, c := range Categories {
		if t.Category == c {
			valid = true
			break
		}
	}
	if !valid {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", t.Category)}
	}
	given, err := time.Parse(dateLayout, t.DateGiven)
	if err != nil {
		return &ValidationError{Field: "date given", Reason: "must be YYYY-MM-DD"}
	}
	due, err := time.Parse(dateLayout, t.DateDue)
	if err != nil {
		return &ValidationError{Field: "date due", Reason: "must be YYYY-MM-DD"}
	}
	if due.Before(given) {
		return &ValidationError{Field: "date due", Reason: "must not be before date given"}
	}
	if t.EstimatedMinutes != nil && *t.EstimatedMinutes <= 0 {
		return &ValidationError{Field: "estimated time", Reason: "must be positive minutes"}
	}
	return nil
}

// CreateTask validates and inserts a new task in Not Started status.
func (s *Store) CreateTask(userID int64, t Task) (int64, error) {
	if err := validateTask(t); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(
		`INSERT INTO tasks (user_id, title, source, category, date_given, date_due, description, estimated_time, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, strings.TrimSpace(t.Title), t.Source, t.Category, t.DateGiven, t.DateDue,
		t.Description, nullableInt(t.EstimatedMinutes), StatusNotStarted)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return res.LastInsertId()
}

const taskColumns = `id, user_id, title, source, category, date_given, date_due, description,
	estimated_time, status, completed_at, created_at, updated_at, is_deleted, deleted_at`

// GetTask fetches a task by id, including soft-deleted rows.
func (s *Store) GetTask(userID, id int64) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var estimated sql.NullInt64
	var completedAt, deletedAt sql.NullString
	var isDeleted int
	var created, updated string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Source, &t.Category,
		&t.DateGiven, &t.DateDue, &t.Description, &estimated, &t.Status,
		&completedAt, &created, &updated, &isDeleted, &deletedAt)
	if err != nil {
		return nil, err
	}
	if estimated.Valid {
		v := int(estimated.Int64)
		t.EstimatedMinutes = &v
	}
	if completedAt.Valid {
		ct := parseTimestamp(completedAt.String)
		t.CompletedAt = &ct
	}
	t.CreatedAt = parseTimestamp(created)
	t.UpdatedAt = parseTimestamp(updated)
	if isDeleted != 0 {
		t.Deletion = Deletion{Deleted: true}
		if deletedAt.Valid {
			t.Deletion.At = parseTimestamp(deletedAt.String)
		}
	}
	return &t, nil
}

// ListTasks returns the user's tasks, newest due date last. Soft-deleted
// rows are hidden unless the filter asks for them.
func (s *Store) ListTasks(userID int64, f TaskFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if !f.IncludeDeleted {
		query += ` AND is_deleted = 0`
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY date_due, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpcomingTasks returns non-deleted, non-completed tasks due on or before
// the horizon date, ordered soonest first. Overdue tasks are included.
func (s *Store) UpcomingTasks(userID int64, horizon string) ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = ? AND is_deleted = 0 AND status != ? AND date_due <= ?
		 ORDER BY date_due, id`, userID, StatusCompleted, horizon)
	if err != nil {
		return nil, fmt.Errorf("upcoming tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask validates and overwrites the editable fields of a task.
func (s *Store) UpdateTask(userID int64, t Task) error {
	if err := validateTask(t); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE tasks
		 SET title = ?, source = ?, category = ?, date_given = ?, date_due = ?,
		     description = ?, estimated_time = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		strings.TrimSpace(t.Title), t.Source, t.Category, t.DateGiven, t.DateDue,
		t.Description, nullableInt(t.EstimatedMinutes), now, t.ID, userID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return mustAffect(res, fmt.Sprintf("update task %d", t.ID))
}

// SetTaskStatus moves a task between Not Started and In Progress. Moving out
// of Completed clears the completion timestamp.
func (s *Store) SetTaskStatus(userID, id int64, status string) error {
	if status != StatusNotStarted && status != StatusInProgress {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE tasks SET status = ?, completed_at = NULL, updated_at = ?
		 WHERE id = ? AND user_id = ? AND is_deleted = 0`, status, now, id, userID)
	if err != nil {
		return fmt.Errorf("set task %d status: %w", id, err)
	}
	return mustAffect(res, fmt.Sprintf("set task %d status", id))
}

// CompleteTask marks a task Completed at the given instant and, when
// actualMinutes > 0, records a work session in the same transaction so
// analytics never sees a completed task without its final session.
func (s *Store) CompleteTask(userID, id int64, completedAt time.Time, actualMinutes int, notes string) error {
	if actualMinutes < 0 {
		return &ValidationError{Field: "actual time", Reason: "must not be negative"}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("complete task %d: %w", id, err)
	}
	defer tx.Rollback()

	stamp := completedAt.UTC().Format(time.RFC3339)
	res, err := tx.Exec(
		`UPDATE tasks SET status = ?, completed_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		StatusCompleted, stamp, stamp, id, userID)
	if err != nil {
		return fmt.Errorf("complete task %d: %w", id, err)
	}
	if err := mustAffect(res, fmt.Sprintf("complete task %d", id)); err != nil {
		return err
	}

	if actualMinutes > 0 {
		_, err = tx.Exec(
			`INSERT INTO task_sessions (user_id, task_id, duration_minutes, notes, logged_at)
			 VALUES (?, ?, ?, ?, ?)`, userID, id, actualMinutes, notes, stamp)
		if err != nil {
			return fmt.Errorf("record final session for task %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// DeleteTask soft-deletes a task and its sessions. The rows stay in the
// database with a deletion timestamp and can be restored.
func (s *Store) DeleteTask(userID, id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.Exec(
		`UPDATE tasks SET is_deleted = 1, deleted_at = ? WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		now, id, userID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if err := mustAffect(res, fmt.Sprintf("delete task %d", id)); err != nil {
		return err
	}

	_, err = tx.Exec(
		`UPDATE task_sessions SET is_deleted = 1, deleted_at = ? WHERE task_id = ? AND is_deleted = 0`,
		now, id)
	if err != nil {
		return fmt.Errorf("delete sessions for task %d: %w", id, err)
	}
	return tx.Commit()
}

// RestoreTask undoes a soft delete, bringing the task and its sessions back.
func (s *Store) RestoreTask(userID, id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("restore task %d: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE tasks SET is_deleted = 0, deleted_at = NULL WHERE id = ? AND user_id = ? AND is_deleted = 1`,
		id, userID)
	if err != nil {
		return fmt.Errorf("restore task %d: %w", id, err)
	}
	if err := mustAffect(res, fmt.Sprintf("restore task %d", id)); err != nil {
		return err
	}

	_, err = tx.Exec(
		`UPDATE task_sessions SET is_deleted = 0, deleted_at = NULL WHERE task_id = ? AND is_deleted = 1`,
		id)
	if err != nil {
		return fmt.Errorf("restore sessions for task %d: %w", id, err)
	}
	return tx.Commit()
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func mustAffect(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
