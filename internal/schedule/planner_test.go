package schedule

import (
	"testing"
	"time"

	"github.com/jazz-lnz/tymate/internal/store"
)

func newTestPlanner(t *testing.T) (*Planner, *store.Store, *store.User) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	u, err := s.EnsureUser("alex")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	return NewPlanner(s), s, u
}

func TestWeekday(t *testing.T) {
	// 2026-08-24 is a Monday
	for i := 0; i < 7; i++ {
		d := time.Date(2026, 8, 24+i, 12, 0, 0, 0, time.UTC)
		if got := Weekday(d); got != i {
			t.Errorf("Weekday(%s) = %d, want %d", d.Weekday(), got, i)
		}
	}
}

func TestMergeIntervalsOverlap(t *testing.T) {
	merged := MergeIntervals([]Interval{
		{Start: 9 * 60, End: 10*60 + 30},
		{Start: 10 * 60, End: 11 * 60},
	})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged interval, got %d", len(merged))
	}
	if merged[0].Start != 540 || merged[0].End != 660 {
		t.Fatalf("unexpected merge: %+v", merged[0])
	}
	if totalMinutes(merged) != 120 {
		t.Fatalf("overlap should count once: got %d minutes, want 120", totalMinutes(merged))
	}
}

func TestMergeIntervalsDisjointAndAdjacent(t *testing.T) {
	merged := MergeIntervals([]Interval{
		{Start: 13 * 60, End: 14 * 60},
		{Start: 9 * 60, End: 10 * 60},
		{Start: 10 * 60, End: 11 * 60}, // adjacent to the 9:00 block
	})
	if len(merged) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(merged), merged)
	}
	if merged[0].Start != 540 || merged[0].End != 660 {
		t.Fatalf("adjacent intervals should merge: %+v", merged[0])
	}
	if totalMinutes(merged) != 180 {
		t.Fatalf("total = %d, want 180", totalMinutes(merged))
	}
}

func TestMergeIntervalsContained(t *testing.T) {
	merged := MergeIntervals([]Interval{
		{Start: 9 * 60, End: 12 * 60},
		{Start: 10 * 60, End: 11 * 60}, // fully inside
	})
	if len(merged) != 1 || merged[0].End != 720 {
		t.Fatalf("contained interval should not extend group: %+v", merged)
	}
}

func TestMergeIntervalsEmpty(t *testing.T) {
	if got := MergeIntervals(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
}

func TestFreeMinutesWithOverlappingBlocks(t *testing.T) {
	// 8h sleep => 960 awake; merged class 120; buffer 90 => 750
	free := FreeMinutes(8, []Interval{
		{Start: 9 * 60, End: 10*60 + 30},
		{Start: 10 * 60, End: 11 * 60},
	})
	if free != 750 {
		t.Fatalf("free = %d, want 750", free)
	}
}

func TestFreeMinutesSingleBlock(t *testing.T) {
	// 960 awake - 90 class - 90 buffer = 780
	free := FreeMinutes(8, []Interval{{Start: 9 * 60, End: 10*60 + 30}})
	if free != 780 {
		t.Fatalf("free = %d, want 780", free)
	}
}

func TestFreeMinutesNeverNegative(t *testing.T) {
	free := FreeMinutes(22, []Interval{{Start: 9 * 60, End: 12 * 60}})
	if free != 0 {
		t.Fatalf("free = %d, want 0 floor", free)
	}
}

func TestFreeTimeTodayUsesWeekday(t *testing.T) {
	p, _, u := newTestPlanner(t)

	// Monday class only
	_, err := p.AddClassBlock(u.ID, store.ClassBlock{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30"})
	if err != nil {
		t.Fatal(err)
	}

	monday := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	free, err := p.FreeTimeToday(u.ID, monday)
	if err != nil {
		t.Fatal(err)
	}
	if free != 780 {
		t.Fatalf("Monday free = %d, want 780", free)
	}

	tuesday := monday.AddDate(0, 0, 1)
	free, err = p.FreeTimeToday(u.ID, tuesday)
	if err != nil {
		t.Fatal(err)
	}
	if free != 870 { // no class: 960 - 90
		t.Fatalf("Tuesday free = %d, want 870", free)
	}
}

func TestAddClassBlockRejectsInvalid(t *testing.T) {
	p, _, u := newTestPlanner(t)

	if _, err := p.AddClassBlock(u.ID, store.ClassBlock{DayOfWeek: 0, StartTime: "21:00", EndTime: "08:00"}); !store.IsValidation(err) {
		t.Fatalf("overnight block: expected validation error, got %v", err)
	}
	if _, err := p.AddClassBlock(u.ID, store.ClassBlock{DayOfWeek: 0, StartTime: "09:00", EndTime: "09:00"}); !store.IsValidation(err) {
		t.Fatalf("zero-duration block: expected validation error, got %v", err)
	}
}

func TestCommittedMinutes(t *testing.T) {
	p, s, u := newTestPlanner(t)

	est1, est2, est3 := 60, 60, 240
	s.CreateTask(u.ID, store.Task{Title: "due soon", Category: "quiz", DateGiven: "2026-08-20", DateDue: "2026-08-25", EstimatedMinutes: &est1})
	s.CreateTask(u.ID, store.Task{Title: "also soon", Category: "quiz", DateGiven: "2026-08-20", DateDue: "2026-08-26", EstimatedMinutes: &est2})
	s.CreateTask(u.ID, store.Task{Title: "far off", Category: "quiz", DateGiven: "2026-08-20", DateDue: "2026-09-20", EstimatedMinutes: &est3})
	s.CreateTask(u.ID, store.Task{Title: "no estimate", Category: "quiz", DateGiven: "2026-08-20", DateDue: "2026-08-25"})

	date := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	committed, err := p.CommittedMinutes(u.ID, date)
	if err != nil {
		t.Fatal(err)
	}
	if committed != 120 {
		t.Fatalf("committed = %d, want 120", committed)
	}
}
