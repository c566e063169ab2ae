package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jazz-lnz/tymate/internal/analytics"
)

type chartMetric int

const (
	chartMinutes chartMetric = iota
	chartTasks
)

type analyticsModel struct {
	engine *analytics.Engine
	userID int64
	width  int
	height int

	bundle analytics.Bundle
	loaded bool
	metric chartMetric
	chart  barchart.Model
}

func newAnalyticsModel(e *analytics.Engine, userID int64) analyticsModel {
	return analyticsModel{
		engine: e,
		userID: userID,
		chart:  barchart.New(60, 10),
	}
}

func (m *analyticsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type analyticsDataMsg struct {
	bundle analytics.Bundle
}

func (m analyticsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		bundle, err := m.engine.Bundle(m.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Analytics error: %v", err), isError: true}
		}
		return analyticsDataMsg{bundle: bundle}
	}
}

func (m analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		m.bundle = msg.bundle
		m.loaded = true
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if m.metric == chartMinutes {
				m.metric = chartTasks
			} else {
				m.metric = chartMinutes
			}
			m.buildChart()
			return m, nil
		}
	}
	return m, nil
}

func (m *analyticsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}

	m.chart = barchart.New(chartWidth, 10)

	var bars []barchart.BarData
	for _, day := range m.bundle.Chart {
		value := float64(day.Minutes)
		if m.metric == chartTasks {
			value = float64(day.Tasks)
		}
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if value == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: day.Label,
			Values: []barchart.BarValue{
				{Name: day.Date, Value: value, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m analyticsModel) view() string {
	w := m.width - 4

	if !m.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Crunching numbers..."))
	}

	chartPanel := m.renderChartPanel(w)
	metricsPanel := m.renderMetricsPanel(w)
	procrastinationPanel := m.renderProcrastinationPanel(w)
	tipsPanel := m.renderTipsPanel(w)

	return lipgloss.JoinVertical(lipgloss.Left,
		chartPanel, metricsPanel, procrastinationPanel, tipsPanel)
}

func (m analyticsModel) renderChartPanel(w int) string {
	label := "minutes logged"
	if m.metric == chartTasks {
		label = "tasks completed"
	}
	header := titleStyle.Render("Last 7 Days") + mutedStyle.Render("  "+label+"  (←/→ to switch)")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.chart.View()))
}

func (m analyticsModel) renderMetricsPanel(w int) string {
	c := m.bundle.Completion
	title := titleStyle.Render(fmt.Sprintf("Completion (last %d days)", c.WindowDays))

	if c.TotalCompleted == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No completed tasks in this window yet")))
	}

	trend := m.bundle.Trend
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  Completed %s  on time %.0f%%  late %.0f%%  velocity %.1f/week",
		highlightStyle.Render(fmt.Sprintf("%d", c.TotalCompleted)),
		c.OnTimePercentage, c.LatePercentage, c.TaskVelocity))
	rows = append(rows, fmt.Sprintf("  Avg %.1f days to finish (median %.1f)",
		c.AvgCompletionDays, c.MedianCompletionDays))
	rows = append(rows, fmt.Sprintf("  Estimate accuracy %.0f%%  —  %s",
		c.TimeEstimationAccuracy, c.TimeAccuracyStatus))
	rows = append(rows, fmt.Sprintf("  Trend: %s  (next week ≈ %.0f tasks)",
		trend.Trend, trend.PredictedNextWeek))

	if len(m.bundle.PeakHours.PeakHours) > 0 {
		rows = append(rows, fmt.Sprintf("  Peak hours: %s",
			strings.Join(m.bundle.PeakHours.PeakHours, ", ")))
	}

	if len(m.bundle.Categories) > 0 {
		rows = append(rows, "")
		rows = append(rows, subtitleStyle.Render("  By category (60 days)"))
		for i, cat := range m.bundle.Categories {
			if i == 4 {
				break
			}
			rows = append(rows, fmt.Sprintf("    %-28s %3d tasks  %3.0f%% done  %3.0f%% on time",
				truncate(cat.Category, 28), cat.TotalTasks, cat.CompletionRate, cat.OnTimeRate))
		}
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m analyticsModel) renderProcrastinationPanel(w int) string {
	p := m.bundle.Procrastination
	levelStyle := lipgloss.NewStyle().Bold(true).Foreground(levelColor(p.Color))

	var rows []string
	rows = append(rows, titleStyle.Render("Procrastination"))
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  Score %s  %s",
		levelStyle.Render(fmt.Sprintf("%d/100", p.Score)),
		levelStyle.Render(p.Level)))
	if p.Level != "No data" {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  last-minute %.0f%%  overdue %.0f%%",
			p.LastMinutePercentage, p.OverduePercentage)))
	}
	for _, insight := range p.Insights {
		rows = append(rows, "  "+insight)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m analyticsModel) renderTipsPanel(w int) string {
	tips := m.bundle.Tips
	if len(tips) == 0 {
		return ""
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Tips"))
	for _, tip := range tips {
		marker := warningStyle.Render("→")
		if tip.Priority == "high" {
			marker = errorStyle.Render("→")
		}
		rows = append(rows, fmt.Sprintf("  %s %s — %s", marker, titleStyle.Render(tip.Title), tip.Message))
		rows = append(rows, mutedStyle.Render("      "+tip.Action))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
