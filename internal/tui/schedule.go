package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jazz-lnz/tymate/internal/schedule"
	"github.com/jazz-lnz/tymate/internal/store"
	"github.com/jazz-lnz/tymate/internal/timeutil"
)

type scheduleModel struct {
	store   *store.Store
	userID  int64
	planner *schedule.Planner
	width   int
	height  int

	blocks      []store.ClassBlock
	cursor      int
	freeToday   int
	classToday  int

	formActive bool
	form       *huh.Form

	formDay    *string
	formCourse *string
	formStart  *string
	formEnd    *string
	formWhere  *string
}

func newScheduleModel(s *store.Store, userID int64) scheduleModel {
	day, course, start, end, where := "0", "", "", "", ""
	return scheduleModel{
		store:      s,
		userID:     userID,
		planner:    schedule.NewPlanner(s),
		formDay:    &day,
		formCourse: &course,
		formStart:  &start,
		formEnd:    &end,
		formWhere:  &where,
	}
}

func (m *scheduleModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type scheduleDataMsg struct {
	blocks     []store.ClassBlock
	freeToday  int
	classToday int
}

func (m scheduleModel) refresh() tea.Cmd {
	return func() tea.Msg {
		blocks, _ := m.planner.Blocks(m.userID)
		free, _ := m.planner.FreeTimeToday(m.userID, time.Now())

		classToday := 0
		today := schedule.Weekday(time.Now())
		for _, b := range blocks {
			if b.DayOfWeek != today {
				continue
			}
			start, err1 := timeutil.ParseClock(b.StartTime)
			end, err2 := timeutil.ParseClock(b.EndTime)
			if err1 == nil && err2 == nil {
				classToday += end.Minutes() - start.Minutes()
			}
		}

		return scheduleDataMsg{blocks: blocks, freeToday: free, classToday: classToday}
	}
}

func (m scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case scheduleDataMsg:
		m.blocks = msg.blocks
		m.freeToday = msg.freeToday
		m.classToday = msg.classToday
		if m.cursor >= len(m.blocks) {
			m.cursor = max(0, len(m.blocks)-1)
		}
		return m, nil

	case scheduleOpDoneMsg:
		text := msg.text
		return m, tea.Batch(m.refresh(), func() tea.Msg { return statusMsg{text: text} })

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.blocks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showBlockForm()
		case key.Matches(msg, keys.Delete):
			if m.cursor < len(m.blocks) {
				id := m.blocks[m.cursor].ID
				return m, func() tea.Msg {
					if err := m.planner.RemoveBlock(m.userID, id); err != nil {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
					return scheduleOpDoneMsg{text: "Class block removed"}
				}
			}
		}
	}
	return m, nil
}

type scheduleOpDoneMsg struct {
	text string
}

func dayOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(dayNames))
	for i, name := range dayNames {
		opts[i] = huh.NewOption(name, fmt.Sprintf("%d", i))
	}
	return opts
}

func (m scheduleModel) showBlockForm() (scheduleModel, tea.Cmd) {
	*m.formDay = "0"
	*m.formCourse = ""
	*m.formStart = ""
	*m.formEnd = ""
	*m.formWhere = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Day").Options(dayOptions()...).Value(m.formDay),
			huh.NewInput().Title("Course").Value(m.formCourse),
			huh.NewInput().Title("Start (HH:MM)").Value(m.formStart),
			huh.NewInput().Title("End (HH:MM)").Value(m.formEnd),
			huh.NewInput().Title("Location (optional)").Value(m.formWhere),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m scheduleModel) updateForm(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
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
		day := 0
		fmt.Sscanf(*m.formDay, "%d", &day)
		block := store.ClassBlock{
			DayOfWeek:  day,
			CourseName: *m.formCourse,
			StartTime:  strings.TrimSpace(*m.formStart),
			EndTime:    strings.TrimSpace(*m.formEnd),
			Location:   *m.formWhere,
		}
		return m, func() tea.Msg {
			if _, err := m.planner.AddClassBlock(m.userID, block); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return scheduleOpDoneMsg{text: "Class block added"}
		}
	}

	return m, cmd
}

func (m scheduleModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("New Class Block"), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	summary := m.renderSummary(w)
	list := m.renderBlockList(w)
	return lipgloss.JoinVertical(lipgloss.Left, summary, list)
}

func (m scheduleModel) renderSummary(w int) string {
	today := dayNames[schedule.Weekday(time.Now())]
	rows := []string{
		titleStyle.Render("Free Time Today") + mutedStyle.Render("  ("+today+")"),
		"",
		fmt.Sprintf("  Class time      %s", timeutil.FormatMinutes(m.classToday)),
		fmt.Sprintf("  Basic needs     %s", timeutil.FormatMinutes(schedule.BasicNeedsBuffer)),
		fmt.Sprintf("  Free            %s", highlightStyle.Render(timeutil.FormatMinutes(m.freeToday))),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m scheduleModel) renderBlockList(w int) string {
	title := titleStyle.Render("Weekly Schedule")

	if len(m.blocks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No class blocks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	lastDay := -1
	for i, b := range m.blocks {
		if b.DayOfWeek != lastDay {
			rows = append(rows, subtitleStyle.Render("  "+dayNames[b.DayOfWeek]))
			lastDay = b.DayOfWeek
		}
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		where := ""
		if b.Location != "" {
			where = mutedStyle.Render("  @ " + b.Location)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s  %s–%s  %s", cursor, b.StartTime, b.EndTime, b.CourseName))+where)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new block  d: remove"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
