package store

import (
	"database/sql"
	"fmt"
	"sort"
)

// CompletedTasksSince returns completed, non-deleted tasks handed out on or
// after since (YYYY-MM-DD), with summed session minutes. Dates come back
// raw; callers decide how to treat malformed values.
func (s *Store) CompletedTasksSince(userID int64, since string) ([]CompletedTaskRow, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.date_given, t.date_due, COALESCE(t.completed_at, ''), t.category,
		        t.estimated_time, SUM(sess.duration_minutes)
		 FROM tasks t
		 LEFT JOIN task_sessions sess ON sess.task_id = t.id AND sess.is_deleted = 0
		 WHERE t.user_id = ? AND t.is_deleted = 0 AND t.status = ?
		   AND t.completed_at IS NOT NULL AND t.date_given >= ?
		 GROUP BY t.id
		 ORDER BY t.completed_at`, userID, StatusCompleted, since)
	if err != nil {
		return nil, fmt.Errorf("completed tasks since %s: %w", since, err)
	}
	defer rows.Close()

	var out []CompletedTaskRow
	for rows.Next() {
		var r CompletedTaskRow
		var estimated, actual sql.NullInt64
		if err := rows.Scan(&r.ID, &r.DateGiven, &r.DateDue, &r.CompletedAt,
			&r.Category, &estimated, &actual); err != nil {
			return nil, fmt.Errorf("scan completed task: %w", err)
		}
		if estimated.Valid {
			v := int(estimated.Int64)
			r.EstimatedTime = &v
		}
		if actual.Valid {
			v := int(actual.Int64)
			r.ActualMinutes = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TasksGivenSince returns every non-deleted task handed out on or after
// since, completed or not, for the procrastination window.
func (s *Store) TasksGivenSince(userID int64, since string) ([]ProcrastinationRow, error) {
	rows, err := s.db.Query(
		`SELECT date_given, date_due, COALESCE(completed_at, ''), status
		 FROM tasks
		 WHERE user_id = ? AND is_deleted = 0 AND date_given >= ?`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("tasks given since %s: %w", since, err)
	}
	defer rows.Close()

	var out []ProcrastinationRow
	for rows.Next() {
		var r ProcrastinationRow
		if err := rows.Scan(&r.DateGiven, &r.DateDue, &r.CompletedAt, &r.Status); err != nil {
			return nil, fmt.Errorf("scan procrastination row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CategoryStatsSince aggregates per-category task performance for tasks
// given on or after since: totals, completions, late completions, and the
// average actual/estimated minutes. Most frequent category first. A task
// counts late when its completion date exceeds its due date.
func (s *Store) CategoryStatsSince(userID int64, since string) ([]CategoryStat, error) {
	rows, err := s.db.Query(
		`SELECT t.category,
		        COUNT(*) AS total,
		        SUM(CASE WHEN t.status = ? THEN 1 ELSE 0 END) AS completed,
		        SUM(CASE WHEN t.status = ? AND substr(t.completed_at, 1, 10) > t.date_due THEN 1 ELSE 0 END) AS late,
		        COALESCE(AVG(sess.total_minutes), 0) AS avg_actual,
		        COALESCE(AVG(t.estimated_time), 0) AS avg_estimated
		 FROM tasks t
		 LEFT JOIN (
		     SELECT task_id, SUM(duration_minutes) AS total_minutes
		     FROM task_sessions WHERE is_deleted = 0 GROUP BY task_id
		 ) sess ON sess.task_id = t.id
		 WHERE t.user_id = ? AND t.is_deleted = 0 AND t.date_given >= ?
		 GROUP BY t.category
		 ORDER BY total DESC, t.category`,
		StatusCompleted, StatusCompleted, userID, since)
	if err != nil {
		return nil, fmt.Errorf("category stats since %s: %w", since, err)
	}
	defer rows.Close()

	var out []CategoryStat
	for rows.Next() {
		var c CategoryStat
		if err := rows.Scan(&c.Category, &c.Total, &c.Completed, &c.Late,
			&c.AvgActualMinutes, &c.AvgEstimatedMinutes); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PeakHourRows returns every time log carrying a start time, across all
// history.
func (s *Store) PeakHourRows(userID int64) ([]PeakHourRow, error) {
	rows, err := s.db.Query(
		`SELECT start_time, hours
		 FROM time_logs
		 WHERE user_id = ? AND start_time IS NOT NULL AND hours > 0`, userID)
	if err != nil {
		return nil, fmt.Errorf("peak hour rows: %w", err)
	}
	defer rows.Close()

	var out []PeakHourRow
	for rows.Next() {
		var r PeakHourRow
		if err := rows.Scan(&r.StartTime, &r.Hours); err != nil {
			return nil, fmt.Errorf("scan peak hour row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DailyActivitySince returns per-day completed-task counts and logged
// session minutes for dates on or after since. Days with no activity are
// absent; callers fill gaps.
func (s *Store) DailyActivitySince(userID int64, since string) ([]DailyActivity, error) {
	byDate := map[string]*DailyActivity{}

	rows, err := s.db.Query(
		`SELECT substr(completed_at, 1, 10), COUNT(*)
		 FROM tasks
		 WHERE user_id = ? AND is_deleted = 0 AND status = ?
		   AND substr(completed_at, 1, 10) >= ?
		 GROUP BY substr(completed_at, 1, 10)`, userID, StatusCompleted, since)
	if err != nil {
		return nil, fmt.Errorf("daily completions since %s: %w", since, err)
	}
	for rows.Next() {
		var date string
		var n int
		if err := rows.Scan(&date, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan daily completion: %w", err)
		}
		byDate[date] = &DailyActivity{Date: date, Tasks: n}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.Query(
		`SELECT substr(logged_at, 1, 10), COALESCE(SUM(duration_minutes), 0)
		 FROM task_sessions
		 WHERE user_id = ? AND is_deleted = 0 AND substr(logged_at, 1, 10) >= ?
		 GROUP BY substr(logged_at, 1, 10)`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("daily minutes since %s: %w", since, err)
	}
	defer rows.Close()
	for rows.Next() {
		var date string
		var minutes int
		if err := rows.Scan(&date, &minutes); err != nil {
			return nil, fmt.Errorf("scan daily minutes: %w", err)
		}
		if d, ok := byDate[date]; ok {
			d.Minutes = minutes
		} else {
			byDate[date] = &DailyActivity{Date: date, Minutes: minutes}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]DailyActivity, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
