package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jazz-lnz/tymate/internal/store"
	"github.com/jazz-lnz/tymate/internal/timeutil"
)

type tasksModel struct {
	store  *store.Store
	userID int64
	width  int
	height int

	tasks       []store.Task
	cursor      int
	showDeleted bool

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "complete", "log"

	// Form field pointers (survive value copies)
	formTitle       *string
	formSource      *string
	formCategory    *string
	formGiven       *string
	formDue         *string
	formEstimate    *string
	formDescription *string
	formActual      *string
	formNotes       *string

	editingID int64
}

func newTasksModel(s *store.Store, userID int64) tasksModel {
	title, source, cat := "", "", store.Categories[0]
	given, due, estimate, desc := "", "", "", ""
	actual, notes := "", ""
	return tasksModel{
		store:           s,
		userID:          userID,
		formTitle:       &title,
		formSource:      &source,
		formCategory:    &cat,
		formGiven:       &given,
		formDue:         &due,
		formEstimate:    &estimate,
		formDescription: &desc,
		formActual:      &actual,
		formNotes:       &notes,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := m.store.ListTasks(m.userID, store.TaskFilter{IncludeDeleted: m.showDeleted})
		return tasksDataMsg{tasks: tasks}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case taskOpDoneMsg:
		text := msg.text
		return m, tea.Batch(m.refresh(), func() tea.Msg { return statusMsg{text: text} })

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) selected() *store.Task {
	if m.cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor]
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showTaskForm(nil)
	case key.Matches(msg, keys.Edit):
		if t := m.selected(); t != nil && t.Deletion.Active() {
			return m.showTaskForm(t)
		}
	case key.Matches(msg, keys.Complete):
		if t := m.selected(); t != nil && t.Deletion.Active() && t.Status != store.StatusCompleted {
			return m.showCompleteForm(t)
		}
	case key.Matches(msg, keys.Log):
		if t := m.selected(); t != nil && t.Deletion.Active() {
			return m.showLogForm(t)
		}
	case key.Matches(msg, keys.Delete):
		if t := m.selected(); t != nil && t.Deletion.Active() {
			id := t.ID
			return m, m.runStoreOp("Task deleted (u restores it)", func() error {
				return m.store.DeleteTask(m.userID, id)
			})
		}
	case key.Matches(msg, keys.Restore):
		if t := m.selected(); t != nil && t.Deletion.Deleted {
			id := t.ID
			return m, m.runStoreOp("Task restored", func() error {
				return m.store.RestoreTask(m.userID, id)
			})
		}
	case key.Matches(msg, keys.Deleted):
		m.showDeleted = !m.showDeleted
		return m, m.refresh()
	}
	return m, nil
}

type taskOpDoneMsg struct {
	text string
}

// runStoreOp executes a mutation and reports the outcome; the list refresh
// happens when the done message comes back, after the write.
func (m tasksModel) runStoreOp(okText string, op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return taskOpDoneMsg{text: okText}
	}
}

func categoryOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(store.Categories))
	for i, c := range store.Categories {
		opts[i] = huh.NewOption(c, c)
	}
	return opts
}

func (m tasksModel) showTaskForm(t *store.Task) (tasksModel, tea.Cmd) {
	if t == nil {
		*m.formTitle = ""
		*m.formSource = ""
		*m.formCategory = store.Categories[0]
		*m.formGiven = time.Now().Format("2006-01-02")
		*m.formDue = ""
		*m.formEstimate = ""
		*m.formDescription = ""
		m.formType = "new"
	} else {
		*m.formTitle = t.Title
		*m.formSource = t.Source
		*m.formCategory = t.Category
		*m.formGiven = t.DateGiven
		*m.formDue = t.DateDue
		*m.formEstimate = ""
		if t.EstimatedMinutes != nil {
			*m.formEstimate = timeutil.FormatMinutes(*t.EstimatedMinutes)
		}
		*m.formDescription = t.Description
		m.formType = "edit"
		m.editingID = t.ID
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Source (course/subject)").Value(m.formSource),
			huh.NewSelect[string]().Title("Category").Options(categoryOptions()...).Value(m.formCategory),
			huh.NewInput().Title("Date given (YYYY-MM-DD)").Value(m.formGiven),
			huh.NewInput().Title("Date due (YYYY-MM-DD)").Value(m.formDue),
			huh.NewInput().Title("Estimate (e.g. 2h 30m, optional)").Value(m.formEstimate),
			huh.NewInput().Title("Description (optional)").Value(m.formDescription),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showCompleteForm(t *store.Task) (tasksModel, tea.Cmd) {
	*m.formActual = ""
	*m.formNotes = ""
	m.formType = "complete"
	m.editingID = t.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Actual time spent (e.g. 90m, optional)").Value(m.formActual),
			huh.NewInput().Title("Notes (optional)").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showLogForm(t *store.Task) (tasksModel, tea.Cmd) {
	*m.formActual = ""
	*m.formNotes = ""
	m.formType = "log"
	m.editingID = t.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Time worked (e.g. 45m, 1.5h)").Value(m.formActual),
			huh.NewInput().Title("Notes (optional)").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		switch m.formType {
		case "new", "edit":
			return m, m.submitTaskForm()
		case "complete":
			return m, m.submitCompleteForm()
		case "log":
			return m, m.submitLogForm()
		}
	}

	return m, cmd
}

func (m tasksModel) submitTaskForm() tea.Cmd {
	task := store.Task{
		Title:       *m.formTitle,
		Source:      *m.formSource,
		Category:    *m.formCategory,
		DateGiven:   strings.TrimSpace(*m.formGiven),
		DateDue:     strings.TrimSpace(*m.formDue),
		Description: *m.formDescription,
	}
	if est := strings.TrimSpace(*m.formEstimate); est != "" {
		minutes, err := timeutil.ParseDurationInput(est)
		if err != nil {
			return func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Bad estimate: %v", err), isError: true}
			}
		}
		task.EstimatedMinutes = &minutes
	}

	editing := m.formType == "edit"
	editID := m.editingID
	okText := "Task created"
	if editing {
		okText = "Task updated"
	}
	return m.runStoreOp(okText, func() error {
		if editing {
			task.ID = editID
			return m.store.UpdateTask(m.userID, task)
		}
		_, err := m.store.CreateTask(m.userID, task)
		return err
	})
}

func (m tasksModel) submitCompleteForm() tea.Cmd {
	actualMinutes := 0
	if actual := strings.TrimSpace(*m.formActual); actual != "" {
		minutes, err := timeutil.ParseDurationInput(actual)
		if err != nil {
			return func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Bad duration: %v", err), isError: true}
			}
		}
		actualMinutes = minutes
	}
	id, notes := m.editingID, *m.formNotes
	return m.runStoreOp("Task completed", func() error {
		return m.store.CompleteTask(m.userID, id, time.Now(), actualMinutes, notes)
	})
}

func (m tasksModel) submitLogForm() tea.Cmd {
	minutes, err := timeutil.ParseDurationInput(*m.formActual)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Bad duration: %v", err), isError: true}
		}
	}
	id, notes := m.editingID, *m.formNotes
	return m.runStoreOp(fmt.Sprintf("Logged %s", timeutil.FormatMinutes(minutes)), func() error {
		_, err := m.store.LogSession(m.userID, id, minutes, notes, time.Now())
		return err
	})
}

func statusIcon(t store.Task) string {
	if t.Deletion.Deleted {
		return errorStyle.Render("✗")
	}
	switch t.Status {
	case store.StatusCompleted:
		return successStyle.Render("✓")
	case store.StatusInProgress:
		return warningStyle.Render("●")
	default:
		return mutedStyle.Render("○")
	}
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		switch m.formType {
		case "edit":
			title = titleStyle.Render("Edit Task")
		case "complete":
			title = titleStyle.Render("Complete Task")
		case "log":
			title = titleStyle.Render("Log Time")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tasks")
	if m.showDeleted {
		title += mutedStyle.Render("  (including deleted)")
	}

	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-12s %-32s %-24s %s", "Due", "Title", "Category", "Est")))

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		estimate := ""
		if t.EstimatedMinutes != nil {
			estimate = timeutil.FormatMinutes(*t.EstimatedMinutes)
		}
		line := fmt.Sprintf("%s%s %-12s %-32s %-24s %s",
			cursor, statusIcon(t), t.DateDue, truncate(t.Title, 32), t.Category, estimate)
		rows = append(rows, style.Render(line))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  c: complete  l: log time  d: delete  u: restore  v: show deleted"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n < 1 {
		return ""
	}
	return s[:n-1] + "…"
}
