package analytics

import (
	"fmt"
	"math"
)

// ProcrastinationReport scores deadline behavior over a 60-day window on a
// 0-100 scale.
type ProcrastinationReport struct {
	Score                int
	Level                string
	Color                string
	LastMinutePercentage float64
	OverduePercentage    float64
	Insights             []string
	SkippedRows          int
}

func noProcrastinationData() ProcrastinationReport {
	return ProcrastinationReport{
		Level:    "No data",
		Color:    "green",
		Insights: []string{"Complete more tasks to get insights"},
	}
}

func procrastinationLevel(score int) (string, string) {
	switch {
	case score < 20:
		return "Excellent", "green"
	case score < 40:
		return "Good", "green"
	case score < 60:
		return "Moderate", "yellow"
	case score < 80:
		return "High", "orange"
	default:
		return "Very High", "red"
	}
}

// ProcrastinationScore analyzes the last 60 days of tasks. A completion
// counts last-minute when it lands within max(1, 20% of the allotted days)
// of the due date; overdue covers late completions and open tasks already
// past due. The score weighs both ratios equally.
func (e *Engine) ProcrastinationScore(userID int64) (ProcrastinationReport, error) {
	rows, err := e.store.TasksGivenSince(userID, e.cutoff(60))
	if err != nil {
		return noProcrastinationData(), err
	}
	if len(rows) == 0 {
		return noProcrastinationData(), nil
	}

	today := dateOf(e.now())
	lastMinute, overdue, analyzed, skipped := 0, 0, 0, 0

	for _, row := range rows {
		given, okGiven := parseDate(row.DateGiven)
		due, okDue := parseDate(row.DateDue)
		if !okGiven || !okDue {
			skipped++
			continue
		}
		totalDays := daysBetween(given, due)

		if row.CompletedAt != "" {
			completedAt, ok := parseDate(row.CompletedAt)
			if !ok {
				skipped++
				continue
			}
			daysBeforeDue := daysBetween(completedAt, due)
			if totalDays > 0 && float64(daysBeforeDue) <= math.Max(1, float64(totalDays)*0.2) {
				lastMinute++
			}
			if dateOf(completedAt).After(dateOf(due)) {
				overdue++
			}
			analyzed++
		} else if row.Status != "Completed" && today.After(dateOf(due)) {
			overdue++
			analyzed++
		}
	}

	if analyzed == 0 {
		r := noProcrastinationData()
		r.SkippedRows = skipped
		return r, nil
	}

	lastMinuteRatio := float64(lastMinute) / float64(analyzed)
	overdueRatio := float64(overdue) / float64(analyzed)
	score := int(math.Round(lastMinuteRatio*50 + overdueRatio*50))
	level, color := procrastinationLevel(score)

	var insights []string
	if float64(lastMinute) > float64(analyzed)*0.3 {
		insights = append(insights, fmt.Sprintf("You complete %d%% of tasks at the last minute", int(lastMinuteRatio*100)))
	}
	if float64(overdue) > float64(analyzed)*0.2 {
		insights = append(insights, fmt.Sprintf("%d%% of tasks are completed late or overdue", int(overdueRatio*100)))
	}
	if score < 40 {
		insights = append(insights, "Great work! You're staying on top of your tasks")
	}
	if len(insights) == 0 {
		insights = []string{"Keep up the good work!"}
	}

	return ProcrastinationReport{
		Score:                score,
		Level:                level,
		Color:                color,
		LastMinutePercentage: round1(lastMinuteRatio * 100),
		OverduePercentage:    round1(overdueRatio * 100),
		Insights:             insights,
		SkippedRows:          skipped,
	}, nil
}
