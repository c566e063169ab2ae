package store

import (
	"fmt"

	"github.com/jazz-lnz/tymate/internal/timeutil"
)

// InsertClassBlock validates and stores one recurring schedule block.
// Day is 0=Monday through 6=Sunday; times must be same-day with start
// strictly before end.
func (s *Store) InsertClassBlock(userID int64, b ClassBlock) (int64, error) {
	if b.DayOfWeek < 0 || b.DayOfWeek > 6 {
		return 0, &ValidationError{Field: "day", Reason: "must be 0 (Monday) through 6 (Sunday)"}
	}
	start, err := timeutil.ParseClock(b.StartTime)
	if err != nil {
		return 0, &ValidationError{Field: "start time", Reason: "must be HH:MM"}
	}
	end, err := timeutil.ParseClock(b.EndTime)
	if err != nil {
		return 0, &ValidationError{Field: "end time", Reason: "must be HH:MM"}
	}
	if end <= start {
		return 0, &ValidationError{Field: "end time", Reason: "must be after start time (blocks cannot cross midnight)"}
	}

	res, err := s.db.Exec(
		`INSERT INTO class_schedule (user_id, day_of_week, start_time, end_time, course_name, location)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, b.DayOfWeek, start.String(), end.String(), b.CourseName, b.Location)
	if err != nil {
		return 0, fmt.Errorf("insert class block: %w", err)
	}
	return res.LastInsertId()
}

// ListClassBlocks returns all blocks for a user ordered by day then start time.
func (s *Store) ListClassBlocks(userID int64) ([]ClassBlock, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, day_of_week, start_time, end_time, course_name, location, created_at
		 FROM class_schedule
		 WHERE user_id = ?
		 ORDER BY day_of_week, start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("list class blocks: %w", err)
	}
	defer rows.Close()

	var blocks []ClassBlock
	for rows.Next() {
		var b ClassBlock
		var created string
		if err := rows.Scan(&b.ID, &b.UserID, &b.DayOfWeek, &b.StartTime, &b.EndTime,
			&b.CourseName, &b.Location, &created); err != nil {
			return nil, fmt.Errorf("scan class block: %w", err)
		}
		b.CreatedAt = parseTimestamp(created)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// ClassBlocksForDay returns the blocks that recur on one weekday, ordered by
// start time.
func (s *Store) ClassBlocksForDay(userID int64, day int) ([]ClassBlock, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, day_of_week, start_time, end_time, course_name, location, created_at
		 FROM class_schedule
		 WHERE user_id = ? AND day_of_week = ?
		 ORDER BY start_time`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list class blocks for day %d: %w", day, err)
	}
	defer rows.Close()

	var blocks []ClassBlock
	for rows.Next() {
		var b ClassBlock
		var created string
		if err := rows.Scan(&b.ID, &b.UserID, &b.DayOfWeek, &b.StartTime, &b.EndTime,
			&b.CourseName, &b.Location, &created); err != nil {
			return nil, fmt.Errorf("scan class block: %w", err)
		}
		b.CreatedAt = parseTimestamp(created)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// DeleteClassBlock removes a block permanently. Schedule rows are plain
// configuration, not history, so no soft delete here.
func (s *Store) DeleteClassBlock(userID, id int64) error {
	res, err := s.db.Exec(`DELETE FROM class_schedule WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete class block %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class block %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
