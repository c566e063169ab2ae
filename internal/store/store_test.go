package store

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store) *User {
	t.Helper()
	u, err := s.EnsureUser("alex")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	return u
}

// insertTask is a test helper for a valid task with sensible defaults.
func insertTask(t *testing.T, s *Store, userID int64, title, due string) int64 {
	t.Helper()
	id, err := s.CreateTask(userID, Task{
		Title:     title,
		Category:  "quiz",
		DateGiven: "2026-08-20",
		DateDue:   due,
	})
	if err != nil {
		t.Fatalf("insert task %q: %v", title, err)
	}
	return id
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/tymate.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Users and profile
// ============================================================

func TestEnsureUserCreatesWithDefaults(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	if u.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if u.SleepHours != 8.0 || u.WakeTime != "07:00" {
		t.Fatalf("unexpected defaults: %+v", u)
	}
	if u.HasWork {
		t.Fatal("new user should not have work configured")
	}
}

func TestEnsureUserIdempotent(t *testing.T) {
	s := newTestStore(t)
	u1 := newTestUser(t, s)
	u2, err := s.EnsureUser("alex")
	if err != nil {
		t.Fatal(err)
	}
	if u1.ID != u2.ID {
		t.Fatalf("expected same user, got %d and %d", u1.ID, u2.ID)
	}
}

func TestEnsureUserEmptyName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureUser("   ")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	err := s.UpdateProfile(u.ID, Profile{
		FullName:             "Alex Reyes",
		SleepHours:           6.5,
		WakeTime:             "5:30",
		HasWork:              true,
		WorkHoursPerWeek:     20,
		WorkDaysPerWeek:      4,
		StudyGoalHoursPerDay: 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, _ := s.GetUser(u.ID)
	if updated.SleepHours != 6.5 {
		t.Fatalf("expected 6.5 sleep hours, got %v", updated.SleepHours)
	}
	// Wake time is normalized on write
	if updated.WakeTime != "05:30" {
		t.Fatalf("expected normalized 05:30, got %q", updated.WakeTime)
	}
	if !updated.HasWork || updated.WorkHoursPerWeek != 20 {
		t.Fatalf("work fields not saved: %+v", updated)
	}
}

func TestUpdateProfileClearsWorkWhenDisabled(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	s.UpdateProfile(u.ID, Profile{SleepHours: 8, WakeTime: "07:00", HasWork: true, WorkHoursPerWeek: 20, WorkDaysPerWeek: 5})
	s.UpdateProfile(u.ID, Profile{SleepHours: 8, WakeTime: "07:00", HasWork: false, WorkHoursPerWeek: 20, WorkDaysPerWeek: 5})

	updated, _ := s.GetUser(u.ID)
	if updated.WorkHoursPerWeek != 0 || updated.WorkDaysPerWeek != 0 {
		t.Fatalf("work fields should be zeroed when has_work=false: %+v", updated)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	cases := []Profile{
		{SleepHours: -1, WakeTime: "07:00"},
		{SleepHours: 25, WakeTime: "07:00"},
		{SleepHours: 8, WakeTime: "25:00"},
		{SleepHours: 8, WakeTime: "07:00", WorkHoursPerWeek: 200},
		{SleepHours: 8, WakeTime: "07:00", WorkDaysPerWeek: 8},
		{SleepHours: 8, WakeTime: "07:00", StudyGoalHoursPerDay: 30},
	}
	for i, p := range cases {
		if err := s.UpdateProfile(u.ID, p); !IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetUser(999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Class schedule
// ============================================================

func TestInsertAndListClassBlocks(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	_, err := s.InsertClassBlock(u.ID, ClassBlock{DayOfWeek: 2, StartTime: "13:00", EndTime: "14:30", CourseName: "Physics"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.InsertClassBlock(u.ID, ClassBlock{DayOfWeek: 0, StartTime: "9:00", EndTime: "10:30", CourseName: "Calculus"})
	if err != nil {
		t.Fatal(err)
	}

	blocks, err := s.ListClassBlocks(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	// Ordered by day, then start; times normalized
	if blocks[0].CourseName != "Calculus" || blocks[0].StartTime != "09:00" {
		t.Fatalf("unexpected first block: %+v", blocks[0])
	}
}

func TestClassBlocksForDay(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	s.InsertClassBlock(u.ID, ClassBlock{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30"})
	s.InsertClassBlock(u.ID, ClassBlock{DayOfWeek: 1, StartTime: "13:00", EndTime: "14:00"})

	blocks, err := s.ClassBlocksForDay(u.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].DayOfWeek != 0 {
		t.Fatalf("expected 1 Monday block, got %+v", blocks)
	}
}

func TestInsertClassBlockValidation(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	cases := []ClassBlock{
		{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: -1, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 0, StartTime: "bad", EndTime: "10:00"},
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "bad"},
		{DayOfWeek: 0, StartTime: "10:00", EndTime: "10:00"}, // zero duration
		{DayOfWeek: 0, StartTime: "22:00", EndTime: "01:00"}, // overnight
	}
	for i, b := range cases {
		if _, err := s.InsertClassBlock(u.ID, b); !IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestDeleteClassBlock(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	id, _ := s.InsertClassBlock(u.ID, ClassBlock{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"})
	if err := s.DeleteClassBlock(u.ID, id); err != nil {
		t.Fatal(err)
	}
	blocks, _ := s.ListClassBlocks(u.ID)
	if len(blocks) != 0 {
		t.Fatal("block should be gone")
	}
	if err := s.DeleteClassBlock(u.ID, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestCreateAndGetTask(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	est := 90
	id, err := s.CreateTask(u.ID, Task{
		Title:            "Problem set 3",
		Source:           "MATH 201",
		Category:         "learning task (individual)",
		DateGiven:        "2026-08-20",
		DateDue:          "2026-08-27",
		EstimatedMinutes: &est,
	})
	if err != nil {
		t.Fatal(err)
	}

	task, err := s.GetTask(u.ID, id)
	if err != nil {
		t.Fatal(err)
	}
	if task.Title != "Problem set 3" || task.Status != StatusNotStarted {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.EstimatedMinutes == nil || *task.EstimatedMinutes != 90 {
		t.Fatalf("estimated minutes not stored: %+v", task.EstimatedMinutes)
	}
	if !task.Deletion.Active() {
		t.Fatal("new task should be active")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	bad := -5
	cases := []Task{
		{Title: "  ", Category: "quiz", DateGiven: "2026-08-20", DateDue: "2026-08-21"},
		{Title: "x", Category: "nope", DateGiven: "2026-08-20", DateDue: "2026-08-21"},
		{Title: "x", Category: "quiz", DateGiven: "not-a-date", DateDue: "2026-08-21"},
		{Title: "x", Category: "quiz", DateGiven: "2026-08-20", DateDue: "21/08/2026"},
		{Title: "x", Category: "quiz", DateGiven: "2026-08-22", DateDue: "2026-08-21"}, // due before given
		{Title: "x", Category: "quiz", DateGiven: "2026-08-20", DateDue: "2026-08-21", EstimatedMinutes: &bad},
	}
	for i, task := range cases {
		if _, err := s.CreateTask(u.ID, task); !IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestListTasksFilters(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	insertTask(t, s, u.ID, "A", "2026-08-25")
	id := insertTask(t, s, u.ID, "B", "2026-08-26")
	s.SetTaskStatus(u.ID, id, StatusInProgress)

	all, err := s.ListTasks(u.ID, TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
	// Ordered by due date
	if all[0].Title != "A" {
		t.Fatalf("expected A first, got %s", all[0].Title)
	}

	inProgress, _ := s.ListTasks(u.ID, TaskFilter{Status: StatusInProgress})
	if len(inProgress) != 1 || inProgress[0].Title != "B" {
		t.Fatalf("status filter failed: %+v", inProgress)
	}
}

func TestUpcomingTasks(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	insertTask(t, s, u.ID, "soon", "2026-08-29")
	insertTask(t, s, u.ID, "later", "2026-10-01")
	overdue := insertTask(t, s, u.ID, "overdue", "2026-08-21")
	done := insertTask(t, s, u.ID, "done", "2026-08-29")
	s.CompleteTask(u.ID, done, time.Now(), 0, "")
	_ = overdue

	tasks, err := s.UpcomingTasks(u.ID, "2026-09-04")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 upcoming tasks, got %d", len(tasks))
	}
	// Overdue first (earlier due date)
	if tasks[0].Title != "overdue" || tasks[1].Title != "soon" {
		t.Fatalf("unexpected order: %s, %s", tasks[0].Title, tasks[1].Title)
	}
}

func TestCompleteTaskRecordsSession(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "essay", "2026-08-29")

	if err := s.CompleteTask(u.ID, id, time.Now(), 120, "final push"); err != nil {
		t.Fatal(err)
	}

	task, _ := s.GetTask(u.ID, id)
	if task.Status != StatusCompleted || task.CompletedAt == nil {
		t.Fatalf("task not completed: %+v", task)
	}

	minutes, _ := s.TaskMinutes(u.ID, id)
	if minutes != 120 {
		t.Fatalf("expected 120 logged minutes, got %d", minutes)
	}
}

func TestCompleteTaskWithoutSession(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "reading", "2026-08-29")

	if err := s.CompleteTask(u.ID, id, time.Now(), 0, ""); err != nil {
		t.Fatal(err)
	}
	sessions, _ := s.SessionsForTask(u.ID, id)
	if len(sessions) != 0 {
		t.Fatal("zero actual minutes should not create a session")
	}
}

func TestSetTaskStatusClearsCompletion(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "lab", "2026-08-29")

	s.CompleteTask(u.ID, id, time.Now(), 0, "")
	if err := s.SetTaskStatus(u.ID, id, StatusInProgress); err != nil {
		t.Fatal(err)
	}
	task, _ := s.GetTask(u.ID, id)
	if task.Status != StatusInProgress || task.CompletedAt != nil {
		t.Fatalf("reopening should clear completed_at: %+v", task)
	}
}

func TestSoftDeleteAndRestoreTask(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "doomed", "2026-08-29")
	s.LogSession(u.ID, id, 30, "", time.Now())

	if err := s.DeleteTask(u.ID, id); err != nil {
		t.Fatal(err)
	}

	// Hidden from default listing
	tasks, _ := s.ListTasks(u.ID, TaskFilter{})
	if len(tasks) != 0 {
		t.Fatal("deleted task should be hidden")
	}

	// Visible with IncludeDeleted, carrying the deletion state
	tasks, _ = s.ListTasks(u.ID, TaskFilter{IncludeDeleted: true})
	if len(tasks) != 1 {
		t.Fatal("deleted task should appear with IncludeDeleted")
	}
	if tasks[0].Deletion.Active() || tasks[0].Deletion.At.IsZero() {
		t.Fatalf("deletion state missing: %+v", tasks[0].Deletion)
	}

	// Sessions hidden too
	if minutes, _ := s.TaskMinutes(u.ID, id); minutes != 0 {
		t.Fatalf("deleted task sessions should be excluded, got %d minutes", minutes)
	}

	if err := s.RestoreTask(u.ID, id); err != nil {
		t.Fatal(err)
	}
	tasks, _ = s.ListTasks(u.ID, TaskFilter{})
	if len(tasks) != 1 {
		t.Fatal("restored task should be visible again")
	}
	if minutes, _ := s.TaskMinutes(u.ID, id); minutes != 30 {
		t.Fatalf("restored sessions should count again, got %d minutes", minutes)
	}
}

func TestDeleteTaskTwice(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "once", "2026-08-29")

	s.DeleteTask(u.ID, id)
	if err := s.DeleteTask(u.ID, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestTaskUserIsolation(t *testing.T) {
	s := newTestStore(t)
	u1 := newTestUser(t, s)
	u2, _ := s.EnsureUser("sam")

	id := insertTask(t, s, u1.ID, "mine", "2026-08-29")
	if _, err := s.GetTask(u2.ID, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("user isolation broken: %v", err)
	}
}

// ============================================================
// Sessions
// ============================================================

func TestLogSession(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "hw", "2026-08-29")

	_, err := s.LogSession(u.ID, id, 45, "chapter 2", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	sessions, _ := s.SessionsForTask(u.ID, id)
	if len(sessions) != 1 || sessions[0].DurationMinutes != 45 {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}

	// First session nudges the task into In Progress
	task, _ := s.GetTask(u.ID, id)
	if task.Status != StatusInProgress {
		t.Fatalf("expected In Progress after first session, got %s", task.Status)
	}
}

func TestLogSessionValidation(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "hw", "2026-08-29")

	if _, err := s.LogSession(u.ID, id, 0, "", time.Now()); !IsValidation(err) {
		t.Fatalf("expected validation error for zero duration, got %v", err)
	}
	if _, err := s.LogSession(u.ID, id, -30, "", time.Now()); !IsValidation(err) {
		t.Fatalf("expected validation error for negative duration, got %v", err)
	}
	if _, err := s.LogSession(u.ID, 999, 30, "", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing task, got %v", err)
	}
}

func TestLogSessionOnDeletedTask(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "hw", "2026-08-29")
	s.DeleteTask(u.ID, id)

	if _, err := s.LogSession(u.ID, id, 30, "", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted task, got %v", err)
	}
}

// ============================================================
// Time logs
// ============================================================

func TestAddTimeLogAndSpentOnDate(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	s.AddTimeLog(u.ID, LogStudy, 2, "2026-08-28", "14:00")
	s.AddTimeLog(u.ID, LogWork, 4, "2026-08-28", "")
	s.AddTimeLog(u.ID, LogPersonal, 1.5, "2026-08-28", "")
	s.AddTimeLog(u.ID, LogStudy, 3, "2026-08-27", "") // different day

	spent, err := s.SpentOnDate(u.ID, "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if spent.Study != 2 || spent.Work != 4 || spent.Personal != 1.5 {
		t.Fatalf("unexpected split: %+v", spent)
	}
	if spent.Total != 7.5 {
		t.Fatalf("expected 7.5 total, got %v", spent.Total)
	}
}

func TestSpentOnDateIncludesSessions(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)
	id := insertTask(t, s, u.ID, "hw", "2026-08-29")

	logged, _ := time.Parse(time.RFC3339, "2026-08-28T10:00:00Z")
	s.LogSession(u.ID, id, 90, "", logged)
	s.AddTimeLog(u.ID, LogStudy, 1, "2026-08-28", "")

	spent, _ := s.SpentOnDate(u.ID, "2026-08-28")
	if spent.Study != 2.5 {
		t.Fatalf("sessions should count as study hours: got %v", spent.Study)
	}
}

func TestAddTimeLogValidation(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	cases := []struct {
		category  string
		hours     float64
		date      string
		startTime string
	}{
		{"Gaming", 2, "2026-08-28", ""},
		{LogStudy, 0, "2026-08-28", ""},
		{LogStudy, 25, "2026-08-28", ""},
		{LogStudy, 2, "August 28", ""},
		{LogStudy, 2, "2026-08-28", "25:99"},
	}
	for i, tc := range cases {
		if _, err := s.AddTimeLog(u.ID, tc.category, tc.hours, tc.date, tc.startTime); !IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	v, err := s.GetSetting(u.ID, "theme", "dark")
	if err != nil {
		t.Fatal(err)
	}
	if v != "dark" {
		t.Fatalf("expected fallback, got %q", v)
	}

	s.SetSetting(u.ID, "theme", "light")
	s.SetSetting(u.ID, "theme", "solarized") // overwrite
	v, _ = s.GetSetting(u.ID, "theme", "dark")
	if v != "solarized" {
		t.Fatalf("expected solarized, got %q", v)
	}
}

func TestOnboardingFlag(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	done, err := s.IsOnboarded(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Fatal("new user should not be onboarded")
	}

	s.MarkOnboarded(u.ID)
	done, _ = s.IsOnboarded(u.ID)
	if !done {
		t.Fatal("onboarding flag should persist")
	}
}

// ============================================================
// Analytics queries
// ============================================================

func TestCompletedTasksSince(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	id := insertTask(t, s, u.ID, "done", "2026-08-29")
	completedAt, _ := time.Parse(time.RFC3339, "2026-08-26T15:00:00Z")
	s.CompleteTask(u.ID, id, completedAt, 60, "")
	insertTask(t, s, u.ID, "pending", "2026-08-29")

	rows, err := s.CompletedTasksSince(u.ID, "2026-08-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 completed row, got %d", len(rows))
	}
	if rows[0].ActualMinutes == nil || *rows[0].ActualMinutes != 60 {
		t.Fatalf("actual minutes missing: %+v", rows[0])
	}

	// Window is keyed on date_given (2026-08-20 in the fixture)
	rows, _ = s.CompletedTasksSince(u.ID, "2026-08-21")
	if len(rows) != 0 {
		t.Fatal("window should exclude tasks given earlier")
	}
}

func TestTasksGivenSinceIncludesIncomplete(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	insertTask(t, s, u.ID, "open", "2026-08-29")
	done := insertTask(t, s, u.ID, "done", "2026-08-29")
	s.CompleteTask(u.ID, done, time.Now(), 0, "")
	gone := insertTask(t, s, u.ID, "deleted", "2026-08-29")
	s.DeleteTask(u.ID, gone)

	rows, err := s.TasksGivenSince(u.ID, "2026-08-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (deleted excluded), got %d", len(rows))
	}
}

func TestCategoryStatsSince(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	insertTask(t, s, u.ID, "q1", "2026-08-29")
	q2 := insertTask(t, s, u.ID, "q2", "2026-08-25")
	s.CreateTask(u.ID, Task{Title: "p", Category: "project (group)", DateGiven: "2026-08-20", DateDue: "2026-08-29"})

	// Complete q2 one day late
	lateAt, _ := time.Parse(time.RFC3339, "2026-08-26T20:00:00Z")
	s.CompleteTask(u.ID, q2, lateAt, 60, "")

	stats, err := s.CategoryStatsSince(u.ID, "2026-08-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats))
	}
	// Most frequent first
	quiz := stats[0]
	if quiz.Category != "quiz" || quiz.Total != 2 {
		t.Fatalf("unexpected leader: %+v", quiz)
	}
	if quiz.Completed != 1 || quiz.Late != 1 {
		t.Fatalf("completion/late counts wrong: %+v", quiz)
	}
}

func TestDailyActivitySince(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	id := insertTask(t, s, u.ID, "done", "2026-08-29")
	completedAt, _ := time.Parse(time.RFC3339, "2026-08-26T15:00:00Z")
	s.CompleteTask(u.ID, id, completedAt, 45, "")

	days, err := s.DailyActivitySince(u.ID, "2026-08-20")
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 active day, got %d", len(days))
	}
	if days[0].Date != "2026-08-26" || days[0].Tasks != 1 || days[0].Minutes != 45 {
		t.Fatalf("unexpected day: %+v", days[0])
	}
}

func TestPeakHourRows(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s)

	s.AddTimeLog(u.ID, LogStudy, 2, "2026-08-28", "14:00")
	s.AddTimeLog(u.ID, LogStudy, 1, "2026-08-28", "") // no start time

	rows, err := s.PeakHourRows(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].StartTime != "14:00" {
		t.Fatalf("expected only the row with a start time, got %+v", rows)
	}
}
