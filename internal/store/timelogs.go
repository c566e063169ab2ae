package store

import (
	"fmt"
	"time"

	"github.com/jazz-lnz/tymate/internal/timeutil"
)

// AddTimeLog records free-form hours against a calendar day. Category must
// be Study, Work, or Personal; startTime is optional "HH:MM" used for the
// peak-hours report.
func (s *Store) AddTimeLog(userID int64, category string, hours float64, date, startTime string) (int64, error) {
	if category != LogStudy && category != LogWork && category != LogPersonal {
		return 0, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}
	if hours <= 0 || hours > 24 {
		return 0, &ValidationError{Field: "hours", Reason: "must be between 0 and 24"}
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return 0, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	var start any
	if startTime != "" {
		c, err := timeutil.ParseClock(startTime)
		if err != nil {
			return 0, &ValidationError{Field: "start time", Reason: "must be HH:MM"}
		}
		start = c.String()
	}

	res, err := s.db.Exec(
		`INSERT INTO time_logs (user_id, category, hours, date, start_time)
		 VALUES (?, ?, ?, ?, ?)`, userID, category, hours, date, start)
	if err != nil {
		return 0, fmt.Errorf("insert time log: %w", err)
	}
	return res.LastInsertId()
}

// SpentOnDate aggregates logged hours for one calendar day. Task sessions
// logged that day count toward Study alongside explicit Study time logs.
func (s *Store) SpentOnDate(userID int64, date string) (SpentToday, error) {
	var spent SpentToday

	rows, err := s.db.Query(
		`SELECT category, COALESCE(SUM(hours), 0) FROM time_logs
		 WHERE user_id = ? AND date = ? GROUP BY category`, userID, date)
	if err != nil {
		return spent, fmt.Errorf("spent on %s: %w", date, err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var hours float64
		if err := rows.Scan(&category, &hours); err != nil {
			return spent, fmt.Errorf("scan spent row: %w", err)
		}
		switch category {
		case LogStudy:
			spent.Study += hours
		case LogWork:
			spent.Work += hours
		case LogPersonal:
			spent.Personal += hours
		}
	}
	if err := rows.Err(); err != nil {
		return spent, err
	}

	var sessionMinutes int
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM task_sessions
		 WHERE user_id = ? AND is_deleted = 0 AND substr(logged_at, 1, 10) = ?`,
		userID, date).Scan(&sessionMinutes)
	if err != nil {
		return spent, fmt.Errorf("session minutes on %s: %w", date, err)
	}
	spent.Study += float64(sessionMinutes) / 60

	spent.Total = spent.Study + spent.Work + spent.Personal
	return spent, nil
}
