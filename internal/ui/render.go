package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"groupdo/internal/config"
	"groupdo/internal/task"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("63"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}

	completedStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Faint(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Bold(true)

	expiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	highlightStyle = lipgloss.NewStyle().
			Reverse(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todo"))
	b.WriteString(fmt.Sprintf("  view:%s  sort:%s", m.viewMode, m.sortMode))
	b.WriteString("\n")
	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case len(m.board.Tasks()) == 0:
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.\n", m.cfg.Keys.Add))
	case len(m.groups) == 0:
		b.WriteString(fmt.Sprintf("No tasks match %q.\n", m.search.Value()))
	default:
		b.WriteString(m.renderGroups())
	}

	b.WriteString("\n---\n")
	if m.form != nil {
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderGroups() string {
	var b strings.Builder
	today := m.now()
	row := 0
	for _, g := range m.groups {
		b.WriteString(groupStyle.Render(g.Label))
		b.WriteString("\n")
		for _, t := range g.Tasks {
			cursor := " "
			if row == m.cursor && m.mode == modeList {
				cursor = ">"
			}
			row++

			checkbox := "[ ]"
			if t.Completed {
				checkbox = "[x]"
			}

			text := t.Text
			switch {
			case t.Completed:
				text = completedStyle.Render(text)
			case t.IsOverdue(today):
				text = overdueStyle.Render(text + " (overdue)")
			}

			info := "Priority: " + priorityStyle(t.Priority).Render(t.Priority.Label())
			if t.Date != "" {
				info += " | Due: " + t.Date
			}
			if t.HasTimer() {
				info += " | " + renderTimer(t)
			}

			line := fmt.Sprintf("%s %s %s  %s", cursor, checkbox, text, info)
			if m.highlight[t.ID] {
				line = highlightStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("New task (tab/shift+tab to move, enter to advance/save, esc to cancel)\n\n")
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := m.form.values[i]
		if i == m.form.index {
			val = m.input.Value()
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, emptyPlaceholder(val)))
	}
	return b.String()
}

func renderTimer(t task.Task) string {
	switch t.TimerState {
	case task.TimerDone:
		return expiredStyle.Render("Time's up!")
	case task.TimerRunning:
		return "⏱ " + task.FormatClock(t.RemainingSeconds) + " (running)"
	case task.TimerPaused:
		return "⏱ " + task.FormatClock(t.RemainingSeconds) + " (paused)"
	default:
		return "⏱ " + task.FormatClock(t.RemainingSeconds)
	}
}

func priorityStyle(p task.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s delete all • %s timer • %s view • %s sort • %s search • %s quit",
		k.Up, k.Down, k.Add, keyName(k.Toggle), k.Delete, k.ClearAll, k.Timer, k.View, k.Sort, k.Search, k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
