package budget

import (
	"time"

	"github.com/jazz-lnz/tymate/internal/store"
	"github.com/jazz-lnz/tymate/internal/timeutil"
)

// Severity tags a status band for presentation; the TUI maps these to colors.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityUrgent
	SeverityCritical
)

// Status band labels for time until bedtime.
const (
	StatusPastBedtime = "past bedtime"
	StatusUrgent      = "urgent"
	StatusTight       = "tight"
	StatusComfortable = "comfortable"
)

// Study progress labels.
const (
	StudyNoGoal          = "no goal"
	StudyGoalMet         = "goal met"
	StudyTimeConstrained = "time-constrained"
	StudyOnTrack         = "on track"
)

// RemainingResult is the live picture of today's budget at one instant.
type RemainingResult struct {
	HoursSinceWake    float64
	HoursUntilBedtime float64
	HoursUntilWake    float64 // positive only before the day starts
	DayStarted        bool

	FreeRemainingAbsolute  float64 // budget minus spent, ignoring bedtime
	FreeRemaining          float64 // additionally capped by time until bedtime
	StudyRemainingAbsolute float64
	StudyRemaining         float64

	Status   string
	Severity Severity

	StudyStatus string
}

// clockOn anchors a time-of-day onto the calendar date of ref.
func clockOn(ref time.Time, c timeutil.Clock) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), c.Hour(), c.Minute(), 0, 0, ref.Location())
}

// HoursSinceWake measures how long the current waking day has been running.
//
// When now is at or after today's wake instant the answer is the plain
// difference. When now is earlier than today's wake the question is whether
// the user is still inside yesterday's waking day: for evening wake times
// (hour >= 12, a night-shift style schedule) the day that started at
// yesterday's wake is still in progress until the next wake, so the distance
// from yesterday's wake is returned. For morning wake times an earlier now
// simply means the day has not started, and the result is 0.
//
// Exactly 24 hours after a wake instant counts as 24, not as a reset to 0.
func HoursSinceWake(now time.Time, wake timeutil.Clock) float64 {
	wakeToday := clockOn(now, wake)
	if now.Equal(wakeToday) && wake.Hour() >= 12 {
		// Boundary of yesterday's waking day, inclusive.
		return 24
	}
	if !now.Before(wakeToday) {
		return now.Sub(wakeToday).Hours()
	}
	if wake.Hour() >= 12 {
		since := now.Sub(wakeToday.Add(-24 * time.Hour)).Hours()
		if since > 0 && since <= 24 {
			return since
		}
	}
	return 0
}

// HoursUntilBedtime computes how much time is left before the next bedtime,
// always in [0, 24).
//
// Bedtime is only a time of day, so the candidate instant is anchored on
// now's calendar date; if that instant has already passed, the next
// occurrence is tomorrow. The naive difference can then exceed what the
// sleep allowance permits (an evening wake whose bedtime clock time lies
// ahead of now), so the result is additionally capped by the waking budget
// not yet consumed.
func HoursUntilBedtime(now time.Time, wake timeutil.Clock, sleepHours float64) float64 {
	since := HoursSinceWake(now, wake)
	if since == 0 && now.Before(clockOn(now, wake)) {
		// Day has not started; the whole waking budget lies ahead.
		return 24 - sleepHours
	}

	bed := Bedtime(wake, sleepHours)
	candidate := clockOn(now, bed)
	if !candidate.After(now) {
		candidate = candidate.Add(24 * time.Hour)
	}
	until := candidate.Sub(now).Hours()

	if cap := (24 - sleepHours) - since; until > cap {
		until = cap
	}
	if until < 0 {
		until = 0
	}
	return until
}

// Remaining is the real-time engine: static budget plus the wall clock and
// today's logged time, producing bedtime-aware remainders and status bands.
// It never fails; an out-of-range sleep value falls back to 8 hours so the
// dashboard stays alive.
func Remaining(p Profile, spent store.SpentToday, now time.Time) RemainingResult {
	if p.SleepHours <= 0 || p.SleepHours >= 24 {
		p.SleepHours = 8
	}

	var r RemainingResult
	wakeToday := clockOn(now, p.WakeTime)
	r.HoursSinceWake = HoursSinceWake(now, p.WakeTime)
	r.DayStarted = r.HoursSinceWake > 0 || !now.Before(wakeToday)
	if !r.DayStarted {
		r.HoursUntilWake = wakeToday.Sub(now).Hours()
	}
	r.HoursUntilBedtime = HoursUntilBedtime(now, p.WakeTime, p.SleepHours)

	waking := 24 - p.SleepHours
	workPerDay := 0.0
	if p.HasWork {
		workPerDay = p.WorkHoursPerWeek / 7
	}
	freePerDay := waking - workPerDay

	r.FreeRemainingAbsolute = max0(freePerDay - spent.Total)
	r.StudyRemainingAbsolute = max0(p.StudyGoalHoursPerDay - spent.Study)
	r.FreeRemaining = minf(r.FreeRemainingAbsolute, r.HoursUntilBedtime)
	r.StudyRemaining = minf(r.StudyRemainingAbsolute, r.HoursUntilBedtime)

	switch {
	case r.HoursUntilBedtime <= 0:
		r.Status, r.Severity = StatusPastBedtime, SeverityCritical
	case r.HoursUntilBedtime < 2:
		r.Status, r.Severity = StatusUrgent, SeverityUrgent
	case r.HoursUntilBedtime < 4:
		r.Status, r.Severity = StatusTight, SeverityWarn
	default:
		r.Status, r.Severity = StatusComfortable, SeverityOK
	}

	switch {
	case p.StudyGoalHoursPerDay <= 0:
		r.StudyStatus = StudyNoGoal
	case r.StudyRemainingAbsolute == 0:
		r.StudyStatus = StudyGoalMet
	case r.StudyRemaining < r.StudyRemainingAbsolute:
		r.StudyStatus = StudyTimeConstrained
	default:
		r.StudyStatus = StudyOnTrack
	}
	return r
}

func max0(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
