package analytics

import (
	"fmt"
	"sort"
)

// CompletionMetrics summarizes completed-task behavior over a lookback
// window.
type CompletionMetrics struct {
	WindowDays           int
	TotalCompleted       int
	AvgCompletionDays    float64
	MedianCompletionDays float64
	OnTimePercentage     float64
	LatePercentage       float64
	TaskVelocity         float64 // completions per week

	CategoryCompletionRates map[string]float64

	TimeEstimationAccuracy float64 // actual/estimated, percent
	TimeAccuracyStatus     string

	SkippedRows int
}

func emptyMetrics(days int) CompletionMetrics {
	return CompletionMetrics{
		WindowDays:              days,
		CategoryCompletionRates: map[string]float64{},
		TimeEstimationAccuracy:  100,
		TimeAccuracyStatus:      "No data",
	}
}

// accuracyStatus bands the average actual/estimated ratio.
func accuracyStatus(accuracy float64) string {
	switch {
	case accuracy >= 90 && accuracy <= 110:
		return "Excellent"
	case accuracy >= 80 && accuracy <= 120:
		return "Good"
	case accuracy >= 70 && accuracy <= 130:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// CompletionMetrics analyzes tasks handed out within the last `days` days.
// Rows with unparseable dates are skipped and counted, not fatal.
func (e *Engine) CompletionMetrics(userID int64, days int) (CompletionMetrics, error) {
	since := e.cutoff(days)
	completed, err := e.store.CompletedTasksSince(userID, since)
	if err != nil {
		return emptyMetrics(days), err
	}
	if len(completed) == 0 {
		return emptyMetrics(days), nil
	}

	m := emptyMetrics(days)
	var completionDays []int
	var accuracies []float64
	onTime, late := 0, 0

	for _, row := range completed {
		given, okGiven := parseDate(row.DateGiven)
		due, okDue := parseDate(row.DateDue)
		completedAt, okDone := parseDate(row.CompletedAt)
		if !okGiven || !okDue || !okDone {
			m.SkippedRows++
			continue
		}

		if taken := daysBetween(given, completedAt); taken >= 0 {
			completionDays = append(completionDays, taken)
		}
		if !dateOf(completedAt).After(dateOf(due)) {
			onTime++
		} else {
			late++
		}

		if row.EstimatedTime != nil && *row.EstimatedTime > 0 && row.ActualMinutes != nil && *row.ActualMinutes > 0 {
			accuracy := float64(*row.ActualMinutes) / float64(*row.EstimatedTime) * 100
			if accuracy >= 10 && accuracy <= 500 {
				accuracies = append(accuracies, accuracy)
			}
		}
	}

	counted := onTime + late
	if counted == 0 {
		skipped := m.SkippedRows
		m = emptyMetrics(days)
		m.SkippedRows = skipped
		return m, nil
	}

	m.TotalCompleted = len(completed)
	m.AvgCompletionDays = round1(mean(intsToFloats(completionDays)))
	m.MedianCompletionDays = round1(median(completionDays))
	m.OnTimePercentage = round1(float64(onTime) / float64(counted) * 100)
	m.LatePercentage = round1(float64(late) / float64(counted) * 100)
	m.TaskVelocity = round1(float64(len(completed)) / (float64(days) / 7))

	stats, err := e.store.CategoryStatsSince(userID, since)
	if err != nil {
		return m, err
	}
	for _, c := range stats {
		if c.Total > 0 {
			m.CategoryCompletionRates[c.Category] = round1(float64(c.Completed) / float64(c.Total) * 100)
		}
	}

	if len(accuracies) > 0 {
		m.TimeEstimationAccuracy = round1(mean(accuracies))
	}
	m.TimeAccuracyStatus = accuracyStatus(m.TimeEstimationAccuracy)
	return m, nil
}

func intsToFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// CategoryInsight is one category's performance over the 60-day window.
type CategoryInsight struct {
	Category       string
	TotalTasks     int
	CompletionRate float64
	OnTimeRate     float64
	AvgMinutes     int
	TimeAccuracy   float64
	HasAccuracy    bool
}

// CategoryInsights reports per-category completion, punctuality, and time
// accuracy, most frequent category first.
func (e *Engine) CategoryInsights(userID int64) ([]CategoryInsight, error) {
	stats, err := e.store.CategoryStatsSince(userID, e.cutoff(60))
	if err != nil {
		return nil, err
	}

	var insights []CategoryInsight
	for _, c := range stats {
		if c.Total == 0 {
			continue
		}
		ci := CategoryInsight{
			Category:       c.Category,
			TotalTasks:     c.Total,
			CompletionRate: round1(float64(c.Completed) / float64(c.Total) * 100),
			AvgMinutes:     int(c.AvgActualMinutes),
		}
		if c.Completed > 0 {
			ci.OnTimeRate = round1(float64(c.Completed-c.Late) / float64(c.Completed) * 100)
		}
		if c.AvgEstimatedMinutes > 0 && c.AvgActualMinutes > 0 {
			ci.TimeAccuracy = round1(c.AvgActualMinutes / c.AvgEstimatedMinutes * 100)
			ci.HasAccuracy = true
		}
		insights = append(insights, ci)
	}
	return insights, nil
}

// PeakHoursReport names the start hours with the highest average logged
// hours.
type PeakHoursReport struct {
	PeakHours []string // "HH:00", best first, at most three
	ByHour    map[int]float64
}

// PeakHours ranks the hours of day at which the user logs the most time.
func (e *Engine) PeakHours(userID int64) (PeakHoursReport, error) {
	report := PeakHoursReport{ByHour: map[int]float64{}}
	rows, err := e.store.PeakHourRows(userID)
	if err != nil {
		return report, err
	}

	type bucket struct {
		hours float64
		count int
	}
	byHour := map[int]*bucket{}
	for _, row := range rows {
		c, err2 := parseStartHour(row.StartTime)
		if err2 != nil {
			continue
		}
		b := byHour[c]
		if b == nil {
			b = &bucket{}
			byHour[c] = b
		}
		b.hours += row.Hours
		b.count++
	}

	type ranked struct {
		hour int
		avg  float64
	}
	var order []ranked
	for h, b := range byHour {
		avg := b.hours / float64(b.count)
		report.ByHour[h] = avg
		order = append(order, ranked{hour: h, avg: avg})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].avg != order[j].avg {
			return order[i].avg > order[j].avg
		}
		return order[i].hour < order[j].hour
	})
	for i, r := range order {
		if i == 3 {
			break
		}
		report.PeakHours = append(report.PeakHours, fmt.Sprintf("%02d:00", r.hour))
	}
	return report, nil
}

func parseStartHour(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour out of range: %d", h)
	}
	return h, nil
}

// DayStat is one day on the dashboard chart.
type DayStat struct {
	Date    string // YYYY-MM-DD
	Label   string // Mon, Tue, ...
	Tasks   int
	Minutes int
}

// DailyChartData returns the last `days` days, oldest first, with zero rows
// for inactive days so charts keep a fixed width.
func (e *Engine) DailyChartData(userID int64, days int) ([]DayStat, error) {
	today := dateOf(e.now())
	since := today.AddDate(0, 0, -(days - 1))

	activity, err := e.store.DailyActivitySince(userID, since.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	type dayAgg struct{ tasks, minutes int }
	byDate := map[string]dayAgg{}
	for _, a := range activity {
		byDate[a.Date] = dayAgg{tasks: a.Tasks, minutes: a.Minutes}
	}

	out := make([]DayStat, 0, days)
	for i := 0; i < days; i++ {
		d := since.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		a := byDate[key]
		out = append(out, DayStat{
			Date:    key,
			Label:   d.Format("Mon"),
			Tasks:   a.tasks,
			Minutes: a.minutes,
		})
	}
	return out, nil
}
