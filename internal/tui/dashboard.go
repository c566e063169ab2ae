package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jazz-lnz/tymate/internal/budget"
	"github.com/jazz-lnz/tymate/internal/schedule"
	"github.com/jazz-lnz/tymate/internal/store"
	"github.com/jazz-lnz/tymate/internal/timeutil"
)

type dashboardModel struct {
	store   *store.Store
	userID  int64
	planner *schedule.Planner
	timer   sessionTimer
	width   int
	height  int

	user     *store.User
	spent    store.SpentToday
	upcoming []store.Task
	verdict  schedule.Verdict
	now      time.Time

	// Task picker state for the study timer
	picking      bool
	pickerCursor int
}

func newDashboardModel(s *store.Store, userID int64) dashboardModel {
	return dashboardModel{
		store:   s,
		userID:  userID,
		planner: schedule.NewPlanner(s),
		timer:   newSessionTimer(s, userID),
		now:     time.Now(),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	user     *store.User
	spent    store.SpentToday
	upcoming []store.Task
	verdict  schedule.Verdict
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		user, err := d.store.GetUser(d.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		now := time.Now()
		today := now.Format("2006-01-02")
		spent, _ := d.store.SpentOnDate(d.userID, today)

		horizon := now.AddDate(0, 0, 7).Format("2006-01-02")
		upcoming, _ := d.store.UpcomingTasks(d.userID, horizon)

		free, _ := d.planner.FreeTimeToday(d.userID, now)
		committed, _ := d.planner.CommittedMinutes(d.userID, now)
		verdict := schedule.ComputeVerdict(free, committed)

		return dashboardDataMsg{
			user:     user,
			spent:    spent,
			upcoming: upcoming,
			verdict:  verdict,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.user = msg.user
		d.spent = msg.spent
		d.upcoming = msg.upcoming
		d.verdict = msg.verdict
		return d, nil

	case tickMsg:
		d.now = time.Time(msg)
		d.timer.tick()
		return d, nil

	case tea.KeyMsg:
		d.timer.recordActivity()

		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, nil
			}
			startable := d.startableTasks()
			if len(startable) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No open tasks to work on. Press 2 to add one.", isError: true}
				}
			}
			if len(startable) == 1 {
				d.timer.start(startable[0].ID, startable[0].Title)
				return d, func() tea.Msg { return statusMsg{text: "Studying: " + startable[0].Title} }
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()

		case key.Matches(msg, keys.Pause):
			d.timer.toggle()
			return d, nil
		}
	}
	return d, nil
}

// startableTasks filters the upcoming list down to tasks a session can be
// logged against.
func (d dashboardModel) startableTasks() []store.Task {
	var out []store.Task
	for _, t := range d.upcoming {
		if t.Status != store.StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}

func (d dashboardModel) updatePicker(msg tea.Msg) (dashboardModel, tea.Cmd) {
	startable := d.startableTasks()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.pickerCursor > 0 {
				d.pickerCursor--
			}
		case key.Matches(msg, keys.Down):
			if d.pickerCursor < len(startable)-1 {
				d.pickerCursor++
			}
		case key.Matches(msg, keys.Enter):
			if d.pickerCursor < len(startable) {
				t := startable[d.pickerCursor]
				d.picking = false
				d.timer.start(t.ID, t.Title)
				return d, func() tea.Msg { return statusMsg{text: "Studying: " + t.Title} }
			}
		case key.Matches(msg, keys.Back):
			d.picking = false
		}
	}
	return d, nil
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	minutes, err := d.timer.stop()
	if err != nil {
		return d, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	if minutes == 0 {
		return d, nil
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return sessionLoggedMsg{minutes: minutes} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	budgetPanel := d.renderBudgetPanel(contentWidth)
	timerPanel := d.renderTimerPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderTaskPicker(contentWidth)
	} else {
		bottomPanel = d.renderUpcomingPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, budgetPanel, timerPanel, bottomPanel)
}

func (d dashboardModel) renderBudgetPanel(w int) string {
	title := titleStyle.Render("Today's Budget")
	if d.user == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Loading profile...")))
	}

	profile := budget.ProfileFromUser(d.user)
	r := budget.Remaining(profile, d.spent, d.now)
	bedtime := budget.Bedtime(profile.WakeTime, profile.SleepHours)

	statusLine := severityStyle(r.Severity).Render(
		fmt.Sprintf("%s until bedtime (%s)  —  %s", formatHours(r.HoursUntilBedtime), bedtime, r.Status))
	if !r.DayStarted {
		statusLine = mutedStyle.Render(
			fmt.Sprintf("Day starts at %s (%s from now)", profile.WakeTime, formatHours(r.HoursUntilWake)))
	}

	var rows []string
	rows = append(rows, fmt.Sprintf("%s  %s", title, mutedStyle.Render(d.now.Format("Mon Jan 02 15:04:05"))))
	rows = append(rows, "")
	rows = append(rows, statusLine)
	rows = append(rows, fmt.Sprintf("  Awake %s of %s",
		highlightStyle.Render(formatHours(r.HoursSinceWake)),
		formatHours(24-profile.SleepHours)))
	rows = append(rows, fmt.Sprintf("  Free left %s  (before bedtime: %s)",
		highlightStyle.Render(formatHours(r.FreeRemainingAbsolute)),
		formatHours(r.FreeRemaining)))
	if profile.StudyGoalHoursPerDay > 0 {
		rows = append(rows, fmt.Sprintf("  Study left %s of %s goal  —  %s",
			highlightStyle.Render(formatHours(r.StudyRemaining)),
			formatHours(profile.StudyGoalHoursPerDay),
			r.StudyStatus))
	}
	rows = append(rows, fmt.Sprintf("  Logged today: study %s  work %s  personal %s",
		formatHours(d.spent.Study), formatHours(d.spent.Work), formatHours(d.spent.Personal)))
	rows = append(rows, "")

	verdictStyle := successStyle
	if !d.verdict.Fits {
		verdictStyle = errorStyle
	}
	rows = append(rows, verdictStyle.Render(d.verdict.Message))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  free %s  committed %s",
		timeutil.FormatMinutes(d.verdict.FreeMinutes),
		timeutil.FormatMinutes(d.verdict.CommittedMinutes))))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.running() {
		elapsed := d.timer.currentElapsed()
		timeStr := formatDuration(elapsed)

		var timeDisplay, indicator string
		if d.timer.paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			if d.timer.isIdle {
				indicator = warningStyle.Render("⏸  IDLE")
			} else {
				indicator = warningStyle.Render("⏸  PAUSED")
			}
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  STUDYING")
		}

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			highlightStyle.Render(d.timer.taskTitle),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Press s to start a study session"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderUpcomingPanel(w int) string {
	title := titleStyle.Render("Due Soon")
	if len(d.upcoming) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing due in the next 7 days"),
		)
		return panelStyle.Width(w).Render(content)
	}

	today := d.now.Format("2006-01-02")
	var rows []string
	rows = append(rows, title)
	for i, t := range d.upcoming {
		if i == 8 {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  ... and %d more", len(d.upcoming)-8)))
			break
		}
		due := t.DateDue
		dueStyle := normalItemStyle
		if due < today {
			dueStyle = errorStyle
			due += " (overdue)"
		} else if due == today {
			dueStyle = warningStyle
			due += " (today)"
		}
		estimate := ""
		if t.EstimatedMinutes != nil {
			estimate = mutedStyle.Render("  ~" + timeutil.FormatMinutes(*t.EstimatedMinutes))
		}
		rows = append(rows, fmt.Sprintf("  %s  %-32s %s%s",
			dueStyle.Render(due), t.Title, mutedStyle.Render(t.Status), estimate))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTaskPicker(w int) string {
	title := titleStyle.Render("Work On")

	var rows []string
	rows = append(rows, title)
	for i, t := range d.startableTasks() {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s  (due %s)", cursor, t.Title, t.DateDue)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: start  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
