// Package budget computes a user's daily time budget and, given the wall
// clock, how much of it is realistically left before bedtime. Everything here
// is a pure function of its inputs so the per-second dashboard refresh can
// call it without side effects.
package budget

import (
	"math"

	"github.com/jazz-lnz/tymate/internal/store"
	"github.com/jazz-lnz/tymate/internal/timeutil"
)

// Profile is the slice of the user row the budget engines need.
type Profile struct {
	SleepHours           float64
	WakeTime             timeutil.Clock
	HasWork              bool
	WorkHoursPerWeek     float64
	WorkDaysPerWeek      int
	StudyGoalHoursPerDay float64
}

// ProfileFromUser extracts budget inputs from a stored user. An unparseable
// wake time falls back to 07:00 rather than failing the dashboard.
func ProfileFromUser(u *store.User) Profile {
	wake, err := timeutil.ParseClock(u.WakeTime)
	if err != nil {
		wake = timeutil.MustClock("07:00")
	}
	return Profile{
		SleepHours:           u.SleepHours,
		WakeTime:             wake,
		HasWork:              u.HasWork,
		WorkHoursPerWeek:     u.WorkHoursPerWeek,
		WorkDaysPerWeek:      u.WorkDaysPerWeek,
		StudyGoalHoursPerDay: u.StudyGoalHoursPerDay,
	}
}

// DailyBudget is the static picture derived from the profile alone, before
// the wall clock is consulted.
type DailyBudget struct {
	TotalHoursPerDay  float64
	WakingHoursPerDay float64
	WorkHoursPerDay   float64
	FreeHoursPerDay   float64

	WakingHoursPerWeek float64
	WorkHoursPerWeek   float64
	FreeHoursPerWeek   float64

	WakeTime timeutil.Clock
	Bedtime  timeutil.Clock
}

// Compute derives the static daily budget from profile fields.
func Compute(p Profile) (DailyBudget, error) {
	if p.SleepHours <= 0 || p.SleepHours >= 24 {
		return DailyBudget{}, &store.ValidationError{Field: "sleep hours", Reason: "must be between 0 and 24 exclusive"}
	}
	if p.WorkHoursPerWeek < 0 {
		return DailyBudget{}, &store.ValidationError{Field: "work hours", Reason: "must not be negative"}
	}

	waking := 24 - p.SleepHours
	workPerDay := 0.0
	workPerWeek := 0.0
	if p.HasWork {
		workPerDay = p.WorkHoursPerWeek / 7
		workPerWeek = p.WorkHoursPerWeek
	}

	return DailyBudget{
		TotalHoursPerDay:   24,
		WakingHoursPerDay:  waking,
		WorkHoursPerDay:    workPerDay,
		FreeHoursPerDay:    waking - workPerDay,
		WakingHoursPerWeek: waking * 7,
		WorkHoursPerWeek:   workPerWeek,
		FreeHoursPerWeek:   (waking - workPerDay) * 7,
		WakeTime:           p.WakeTime,
		Bedtime:            Bedtime(p.WakeTime, p.SleepHours),
	}, nil
}

// Bedtime is the wake time minus the sleep allowance, wrapped around
// midnight. Only the time of day matters; whether it lands on the previous
// calendar day is the remaining-budget engine's problem.
func Bedtime(wake timeutil.Clock, sleepHours float64) timeutil.Clock {
	return wake.AddHours(-sleepHours)
}

// RecommendStudyGoal suggests a daily study goal as 35% of free hours,
// rounded to one decimal.
func RecommendStudyGoal(freeHoursPerDay float64) float64 {
	if freeHoursPerDay <= 0 {
		return 0
	}
	return math.Round(freeHoursPerDay*0.35*10) / 10
}
