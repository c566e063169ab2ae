// Package schedule manages recurring class blocks and turns them into a
// free-time figure for one day: awake minutes minus merged class intervals
// minus a fixed basic-needs buffer.
package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jazz-lnz/tymate/internal/store"
	"github.com/jazz-lnz/tymate/internal/timeutil"
)

// BasicNeedsBuffer is the fixed daily allowance for meals and hygiene,
// in minutes.
const BasicNeedsBuffer = 90

// Planner computes free time from the stored schedule. The store handle is
// injected by the application entry point.
type Planner struct {
	store *store.Store
}

func NewPlanner(s *store.Store) *Planner {
	return &Planner{store: s}
}

// Weekday maps a time.Time onto the schedule's day numbering, 0=Monday
// through 6=Sunday.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// AddClassBlock validates and stores a recurring block. Overnight and
// zero-duration blocks are rejected with a ValidationError.
func (p *Planner) AddClassBlock(userID int64, block store.ClassBlock) (int64, error) {
	return p.store.InsertClassBlock(userID, block)
}

// Blocks lists the user's full weekly schedule.
func (p *Planner) Blocks(userID int64) ([]store.ClassBlock, error) {
	return p.store.ListClassBlocks(userID)
}

// RemoveBlock deletes one block permanently.
func (p *Planner) RemoveBlock(userID, blockID int64) error {
	return p.store.DeleteClassBlock(userID, blockID)
}

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// MergeIntervals sorts by start and collapses overlapping or adjacent
// intervals so overlapping class time is only counted once. The input slice
// is not modified.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start > last.End {
			merged = append(merged, iv)
			continue
		}
		if iv.End > last.End {
			last.End = iv.End
		}
	}
	return merged
}

func totalMinutes(intervals []Interval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.End - iv.Start
	}
	return total
}

// FreeTimeToday computes the free minutes available on the given date:
// awake minutes, minus that weekday's merged class time, minus the
// basic-needs buffer, floored at zero.
func (p *Planner) FreeTimeToday(userID int64, date time.Time) (int, error) {
	u, err := p.store.GetUser(userID)
	if err != nil {
		return 0, fmt.Errorf("free time for user %d: %w", userID, err)
	}

	blocks, err := p.store.ClassBlocksForDay(userID, Weekday(date))
	if err != nil {
		return 0, err
	}

	var intervals []Interval
	for _, b := range blocks {
		start, err := timeutil.ParseClock(b.StartTime)
		if err != nil {
			continue // malformed historical row, skip
		}
		end, err := timeutil.ParseClock(b.EndTime)
		if err != nil {
			continue
		}
		intervals = append(intervals, Interval{Start: start.Minutes(), End: end.Minutes()})
	}

	return FreeMinutes(u.SleepHours, intervals), nil
}

// FreeMinutes is the pure core of FreeTimeToday.
func FreeMinutes(sleepHours float64, classBlocks []Interval) int {
	awake := int(math.Round((24 - sleepHours) * 60))
	if awake < 0 {
		awake = 0
	}
	class := totalMinutes(MergeIntervals(classBlocks))
	free := awake - class - BasicNeedsBuffer
	if free < 0 {
		return 0
	}
	return free
}

// CommittedMinutes sums the estimated minutes of open tasks due within the
// next two days of date, the near-term workload the verdict weighs against
// free time. Tasks without an estimate contribute nothing.
func (p *Planner) CommittedMinutes(userID int64, date time.Time) (int, error) {
	horizon := date.AddDate(0, 0, 2).Format("2006-01-02")
	tasks, err := p.store.UpcomingTasks(userID, horizon)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, t := range tasks {
		if t.EstimatedMinutes != nil {
			total += *t.EstimatedMinutes
		}
	}
	return total, nil
}
