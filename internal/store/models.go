package store

import "time"

// Task status values.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Categories is the fixed set of task categories.
var Categories = []string{
	"quiz",
	"learning task (individual)",
	"learning task (group)",
	"project (individual)",
	"project (group)",
	"study/review",
	"others",
}

// Time-log categories.
const (
	LogStudy    = "Study"
	LogWork     = "Work"
	LogPersonal = "Personal"
)

// Deletion is the soft-delete state of a row: either active, or deleted at a
// known time and recoverable via restore.
type Deletion struct {
	Deleted bool
	At      time.Time // valid only when Deleted
}

func (d Deletion) Active() bool { return !d.Deleted }

// User carries the time profile alongside identity. Wake time is stored
// normalized to "HH:MM".
type User struct {
	ID                   int64
	Username             string
	FullName             string
	SleepHours           float64
	WakeTime             string
	HasWork              bool
	WorkHoursPerWeek     float64
	WorkDaysPerWeek      int
	StudyGoalHoursPerDay float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ClassBlock is a fixed recurring commitment on one weekday (0=Monday).
// Blocks are same-day only; times are normalized "HH:MM".
type ClassBlock struct {
	ID         int64
	UserID     int64
	DayOfWeek  int
	StartTime  string
	EndTime    string
	CourseName string
	Location   string
	CreatedAt  time.Time
}

// Task dates are kept as raw date strings ("YYYY-MM-DD" when well-formed);
// historical rows may carry malformed values, which the analytics engine
// skips rather than failing on.
type Task struct {
	ID               int64
	UserID           int64
	Title            string
	Source           string
	Category         string
	DateGiven        string
	DateDue          string
	Description      string
	EstimatedMinutes *int
	Status           string
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Deletion         Deletion
}

// Session is one logged chunk of work against a task.
type Session struct {
	ID              int64
	UserID          int64
	TaskID          int64
	DurationMinutes int
	Notes           string
	LoggedAt        time.Time
	CreatedAt       time.Time
	Deletion        Deletion
}

// TimeLog is a free-form hours entry for a calendar day, outside the
// task/session hierarchy.
type TimeLog struct {
	ID        int64
	UserID    int64
	Category  string
	Hours     float64
	Date      string // YYYY-MM-DD
	StartTime string // optional "HH:MM"
	CreatedAt time.Time
}

// TaskFilter narrows ListTasks.
type TaskFilter struct {
	Status         string
	Category       string
	IncludeDeleted bool
}

// SpentToday aggregates logged hours for one calendar day by category.
type SpentToday struct {
	Study    float64
	Work     float64
	Personal float64
	Total    float64
}

// CompletedTaskRow is the raw aggregate the analytics engine consumes for
// completion metrics. Dates stay as strings so one malformed row cannot
// poison the whole report.
type CompletedTaskRow struct {
	ID            int64
	DateGiven     string
	DateDue       string
	CompletedAt   string
	Category      string
	EstimatedTime *int
	ActualMinutes *int
}

// ProcrastinationRow is the slimmer projection used for the 60-day
// procrastination window, including incomplete tasks.
type ProcrastinationRow struct {
	DateGiven   string
	DateDue     string
	CompletedAt string // empty when incomplete
	Status      string
}

// CategoryStat is the per-category aggregate over a window: all non-deleted
// tasks, their completions, and average minutes.
type CategoryStat struct {
	Category            string
	Total               int
	Completed           int
	Late                int
	AvgActualMinutes    float64
	AvgEstimatedMinutes float64
}

// PeakHourRow is one time-log observation with a known start hour.
type PeakHourRow struct {
	StartTime string
	Hours     float64
}

// DailyActivity is one day's completed-task count and logged minutes.
type DailyActivity struct {
	Date    string
	Tasks   int
	Minutes int
}
