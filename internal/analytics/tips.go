package analytics

import "fmt"

// Tip is one rule-based recommendation. Rules are independent and emitted
// in a fixed order.
type Tip struct {
	Type     string
	Priority string
	Title    string
	Message  string
	Action   string
}

// SmartTips runs the fixed threshold rules against the current analytics:
// estimate accuracy, procrastination, weakest category, velocity, and
// lateness. No data means no tips, never an error.
func (e *Engine) SmartTips(userID int64) ([]Tip, error) {
	metrics, err := e.CompletionMetrics(userID, 30)
	if err != nil {
		return nil, err
	}
	procrastination, err := e.ProcrastinationScore(userID)
	if err != nil {
		return nil, err
	}
	categories, err := e.CategoryInsights(userID)
	if err != nil {
		return nil, err
	}

	var tips []Tip

	if metrics.TotalCompleted > 0 {
		switch accuracy := metrics.TimeEstimationAccuracy; {
		case accuracy < 80:
			tips = append(tips, Tip{
				Type:     "time_estimation",
				Priority: "high",
				Title:    "Improve Time Estimates",
				Message:  fmt.Sprintf("Your time estimates are %.0f%% accurate. Try adding buffer time.", accuracy),
				Action:   "Review past tasks to calibrate estimates",
			})
		case accuracy > 120:
			tips = append(tips, Tip{
				Type:     "time_estimation",
				Priority: "medium",
				Title:    "You're Overestimating",
				Message:  fmt.Sprintf("You're estimating %.0f%% of actual time needed.", accuracy),
				Action:   "Reduce time estimates by 15%",
			})
		}
	}

	if procrastination.Score > 60 {
		tips = append(tips, Tip{
			Type:     "procrastination",
			Priority: "high",
			Title:    "Tackle Procrastination",
			Message:  fmt.Sprintf("Procrastination score: %d/100", procrastination.Score),
			Action:   "Start tasks within 24 hours of receiving them",
		})
	}

	if worst := worstCategory(categories); worst != nil && worst.CompletionRate < 60 {
		tips = append(tips, Tip{
			Type:     "category_focus",
			Priority: "medium",
			Title:    fmt.Sprintf("Improve %s Tasks", worst.Category),
			Message:  fmt.Sprintf("%.0f%% completion rate", worst.CompletionRate),
			Action:   "Break down tasks into smaller subtasks",
		})
	}

	if v := metrics.TaskVelocity; v > 0 && v < 2 {
		tips = append(tips, Tip{
			Type:     "productivity",
			Priority: "medium",
			Title:    "Increase Task Completion",
			Message:  fmt.Sprintf("Completing %.1f tasks/week. Aim for 3-5.", v),
			Action:   "Set a goal to complete 1 task every 2 days",
		})
	}

	if metrics.LatePercentage > 30 {
		tips = append(tips, Tip{
			Type:     "deadline",
			Priority: "high",
			Title:    "Meet More Deadlines",
			Message:  fmt.Sprintf("%.0f%% of tasks completed late", metrics.LatePercentage),
			Action:   "Set personal deadlines 2 days before due dates",
		})
	}

	return tips, nil
}

func worstCategory(insights []CategoryInsight) *CategoryInsight {
	var worst *CategoryInsight
	for i := range insights {
		if worst == nil || insights[i].CompletionRate < worst.CompletionRate {
			worst = &insights[i]
		}
	}
	return worst
}
