package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jazz-lnz/tymate/internal/budget"
	"github.com/jazz-lnz/tymate/internal/store"
)

type settingsModel struct {
	store  *store.Store
	userID int64
	width  int
	height int

	user       *store.User
	onboarding bool
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	fullName  *string
	sleep     *string
	wake      *string
	hasWork   *bool
	workHours *string
	workDays  *string
	studyGoal *string
}

func newSettingsModel(s *store.Store, userID int64) settingsModel {
	name, sleep, wake := "", "", ""
	work := false
	wh, wd, goal := "", "", ""
	return settingsModel{
		store:     s,
		userID:    userID,
		fullName:  &name,
		sleep:     &sleep,
		wake:      &wake,
		hasWork:   &work,
		workHours: &wh,
		workDays:  &wd,
		studyGoal: &goal,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	user *store.User
}

type profileSavedMsg struct{}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		user, err := m.store.GetUser(m.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return settingsDataMsg{user: user}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.user = msg.user
		if m.onboarding {
			// First run drops straight into the profile form.
			return m.showForm()
		}
		return m, nil

	case profileSavedMsg:
		m.onboarding = false
		return m, tea.Batch(m.refresh(), func() tea.Msg { return statusMsg{text: "Profile saved"} })

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit), key.Matches(msg, keys.New):
			return m.showForm()
		}
	}
	return m, nil
}

func validateFloat(field string, min, max float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if v < min || v > max {
			return fmt.Errorf("%s must be between %g and %g", field, min, max)
		}
		return nil
	}
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	if m.user != nil {
		*m.fullName = m.user.FullName
		*m.sleep = strconv.FormatFloat(m.user.SleepHours, 'f', -1, 64)
		*m.wake = m.user.WakeTime
		*m.hasWork = m.user.HasWork
		*m.workHours = strconv.FormatFloat(m.user.WorkHoursPerWeek, 'f', -1, 64)
		*m.workDays = strconv.Itoa(m.user.WorkDaysPerWeek)
		*m.studyGoal = strconv.FormatFloat(m.user.StudyGoalHoursPerDay, 'f', -1, 64)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.fullName),
			huh.NewInput().Title("Sleep hours per night").Value(m.sleep).
				Validate(validateFloat("sleep", 0, 24)),
			huh.NewInput().Title("Wake time (HH:MM)").Value(m.wake),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewConfirm().Title("Do you work?").Value(m.hasWork),
			huh.NewInput().Title("Work hours per week").Value(m.workHours),
			huh.NewInput().Title("Work days per week").Value(m.workDays),
			huh.NewInput().Title("Study goal (hours per day, 0 for none)").Value(m.studyGoal),
		).Title("Commitments"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		// Onboarding cannot be escaped; the profile must exist first.
		if msg.String() == "esc" && !m.onboarding {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.saveProfile()
	}

	return m, cmd
}

func (m settingsModel) saveProfile() tea.Cmd {
	parse := func(s string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return v
	}
	days, _ := strconv.Atoi(strings.TrimSpace(*m.workDays))

	profile := store.Profile{
		FullName:             *m.fullName,
		SleepHours:           parse(*m.sleep),
		WakeTime:             strings.TrimSpace(*m.wake),
		HasWork:              *m.hasWork,
		WorkHoursPerWeek:     parse(*m.workHours),
		WorkDaysPerWeek:      days,
		StudyGoalHoursPerDay: parse(*m.studyGoal),
	}

	wasOnboarding := m.onboarding
	return func() tea.Msg {
		if err := m.store.UpdateProfile(m.userID, profile); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if wasOnboarding {
			if err := m.store.MarkOnboarded(m.userID); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		return profileSavedMsg{}
	}
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		if m.onboarding {
			title = titleStyle.Render("Welcome! Set up your time profile")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()))
	}

	title := titleStyle.Render("Settings")
	if m.user == nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Loading...")))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, m.profileRow("Name", m.user.FullName))
	rows = append(rows, m.profileRow("Sleep", formatHours(m.user.SleepHours)))
	rows = append(rows, m.profileRow("Wake time", m.user.WakeTime))
	if m.user.HasWork {
		rows = append(rows, m.profileRow("Work", fmt.Sprintf("%s/week over %d days",
			formatHours(m.user.WorkHoursPerWeek), m.user.WorkDaysPerWeek)))
	} else {
		rows = append(rows, m.profileRow("Work", "none"))
	}
	rows = append(rows, m.profileRow("Study goal", formatHours(m.user.StudyGoalHoursPerDay)+"/day"))

	profile := budget.ProfileFromUser(m.user)
	if b, err := budget.Compute(profile); err == nil {
		rows = append(rows, "")
		rows = append(rows, subtitleStyle.Render("  Computed budget"))
		rows = append(rows, m.profileRow("Waking", fmt.Sprintf("%s/day  (%s/week)",
			formatHours(b.WakingHoursPerDay), formatHours(b.WakingHoursPerWeek))))
		rows = append(rows, m.profileRow("Free", fmt.Sprintf("%s/day  (%s/week)",
			formatHours(b.FreeHoursPerDay), formatHours(b.FreeHoursPerWeek))))
		rows = append(rows, m.profileRow("Bedtime", b.Bedtime.String()))
		if goal := budget.RecommendStudyGoal(b.FreeHoursPerDay); goal > 0 {
			rows = append(rows, m.profileRow("Suggested goal", formatHours(goal)+"/day"))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit your profile"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m settingsModel) profileRow(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(16).Render(label),
		highlightStyle.Render(value))
}
