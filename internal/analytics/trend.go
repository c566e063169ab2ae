package analytics

import (
	"fmt"
	"math"
	"sort"
)

// Trend labels.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// WeekStat is one ISO week's completion activity.
type WeekStat struct {
	Week           string // "2026-W35"
	TasksCompleted int
	MinutesLogged  int
}

// TrendReport compares recent weekly completion counts against the start of
// the lookback window.
type TrendReport struct {
	Weekly             []WeekStat
	Trend              string
	PredictedNextWeek  float64 // mean of the last three weeks
	CurrentWeekAverage float64 // mean of the last four weeks
}

// ProductivityTrend buckets completions by ISO week over the last `weeks`
// weeks and labels the direction: improving when the recent mean beats the
// older mean by more than 10%, declining when it trails by more than 10%.
func (e *Engine) ProductivityTrend(userID int64, weeks int) (TrendReport, error) {
	report := TrendReport{Trend: TrendInsufficientData}

	since := dateOf(e.now()).AddDate(0, 0, -weeks*7)
	activity, err := e.store.DailyActivitySince(userID, since.Format("2006-01-02"))
	if err != nil {
		return report, err
	}

	buckets := map[string]*WeekStat{}
	for _, day := range activity {
		d, ok := parseDate(day.Date)
		if !ok {
			continue
		}
		year, week := d.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		b := buckets[key]
		if b == nil {
			b = &WeekStat{Week: key}
			buckets[key] = b
		}
		b.TasksCompleted += day.Tasks
		b.MinutesLogged += day.Minutes
	}

	for _, b := range buckets {
		report.Weekly = append(report.Weekly, *b)
	}
	sort.Slice(report.Weekly, func(i, j int) bool { return report.Weekly[i].Week < report.Weekly[j].Week })

	n := len(report.Weekly)
	if n >= 2 {
		span := n
		if span > 4 {
			span = 4
		}
		recent := weeklyMean(report.Weekly[n-span:])
		older := weeklyMean(report.Weekly[:span])
		switch {
		case recent > older*1.1:
			report.Trend = TrendImproving
		case recent < older*0.9:
			report.Trend = TrendDeclining
		default:
			report.Trend = TrendStable
		}
	}
	if n >= 3 {
		report.PredictedNextWeek = math.Round(weeklyMean(report.Weekly[n-3:]))
	}
	if n >= 4 {
		report.CurrentWeekAverage = round1(weeklyMean(report.Weekly[n-4:]))
	}
	return report, nil
}

func weeklyMean(weeks []WeekStat) float64 {
	if len(weeks) == 0 {
		return 0
	}
	sum := 0
	for _, w := range weeks {
		sum += w.TasksCompleted
	}
	return float64(sum) / float64(len(weeks))
}
