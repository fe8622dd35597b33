// Package view derives grouped and sorted task lists for display.
package view

import (
	"fmt"
	"slices"
	"strings"

	"groupdo/internal/task"
)

type Mode string

const (
	ModeGroups Mode = "groups"
	ModeWeeks  Mode = "weeks"
	ModeMonths Mode = "months"
)

// NoDateLabel buckets undated tasks in the date views.
const NoDateLabel = "No Date"

var modes = []Mode{ModeGroups, ModeWeeks, ModeMonths}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(modes, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Next cycles groups -> weeks -> months -> groups.
func (m Mode) Next() Mode {
	i := slices.Index(modes, m)
	return modes[(i+1)%len(modes)]
}

type Group struct {
	Label string
	Tasks []task.Task
}

// Compute filters tasks by search, then buckets them by the label mode
// assigns. Groups appear in first-seen order. The date views sort by date
// first, undated tasks last, so groups come out chronologically.
func Compute(tasks []task.Task, mode Mode, search string) []Group {
	filtered := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Matches(search) {
			filtered = append(filtered, t)
		}
	}
	if mode != ModeGroups {
		slices.SortStableFunc(filtered, compareDateEmptyLast)
	}

	var groups []Group
	index := make(map[string]int)
	for _, t := range filtered {
		label := Label(t, mode)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// Label returns the group label of t under mode.
func Label(t task.Task, mode Mode) string {
	switch mode {
	case ModeWeeks:
		return WeekLabel(t.Date)
	case ModeMonths:
		return MonthLabel(t.Date)
	default:
		return t.GroupName
	}
}

// WeekLabel formats the ISO-8601 week of date as "Week W, Y".
func WeekLabel(date string) string {
	d, ok := (task.Task{Date: date}).DueDate()
	if !ok {
		return NoDateLabel
	}
	year, week := d.ISOWeek()
	return fmt.Sprintf("Week %d, %d", week, year)
}

// MonthLabel formats date as "January 2024".
func MonthLabel(date string) string {
	d, ok := (task.Task{Date: date}).DueDate()
	if !ok {
		return NoDateLabel
	}
	return d.Format("January 2006")
}

func compareDateEmptyLast(a, b task.Task) int {
	switch {
	case a.Date == b.Date:
		return 0
	case a.Date == "":
		return 1
	case b.Date == "":
		return -1
	default:
		return strings.Compare(a.Date, b.Date)
	}
}
