// Package analytics aggregates historical task and session rows into
// completion metrics, a procrastination score, trends, and rule-based tips.
// Malformed historical rows are skipped and counted, never fatal; every
// report degrades to a documented neutral shape when there is no data.
package analytics

import (
	"sort"
	"time"

	"github.com/jazz-lnz/tymate/internal/store"
)

// Engine reads from the store and aggregates. The clock is injected so
// window cutoffs are deterministic under test.
type Engine struct {
	store *store.Store
	now   func() time.Time
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// NewEngineWithClock pins the engine's idea of "now", for tests.
func NewEngineWithClock(s *store.Store, now func() time.Time) *Engine {
	return &Engine{store: s, now: now}
}

func (e *Engine) cutoff(days int) string {
	return e.now().AddDate(0, 0, -days).Format("2006-01-02")
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate is lenient about the timestamp shapes historical rows carry.
// As a last resort the leading date part is tried on its own.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if len(s) > 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}

func round1(f float64) float64 {
	if f < 0 {
		return float64(int(f*10-0.5)) / 10
	}
	return float64(int(f*10+0.5)) / 10
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]int, len(xs))
	copy(sorted, xs)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// Bundle is the full analytics page payload.
type Bundle struct {
	Completion      CompletionMetrics
	Procrastination ProcrastinationReport
	Trend           TrendReport
	Categories      []CategoryInsight
	PeakHours       PeakHoursReport
	Tips            []Tip
	Chart           []DayStat
}

// Bundle assembles every report in one pass. Individual report errors are
// database failures and abort the bundle.
func (e *Engine) Bundle(userID int64) (Bundle, error) {
	var b Bundle
	var err error
	if b.Completion, err = e.CompletionMetrics(userID, 30); err != nil {
		return b, err
	}
	if b.Procrastination, err = e.ProcrastinationScore(userID); err != nil {
		return b, err
	}
	if b.Trend, err = e.ProductivityTrend(userID, 12); err != nil {
		return b, err
	}
	if b.Categories, err = e.CategoryInsights(userID); err != nil {
		return b, err
	}
	if b.PeakHours, err = e.PeakHours(userID); err != nil {
		return b, err
	}
	if b.Tips, err = e.SmartTips(userID); err != nil {
		return b, err
	}
	if b.Chart, err = e.DailyChartData(userID, 7); err != nil {
		return b, err
	}
	return b, nil
}
