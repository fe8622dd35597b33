package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"groupdo/internal/task"
)

type SortMode string

const (
	SortNone     SortMode = "none"
	SortPriority SortMode = "priority"
	SortDate     SortMode = "date"
)

// undatedKey sorts tasks without a due date after every real date.
const undatedKey = "9999-12-31"

var sortModes = []SortMode{SortNone, SortPriority, SortDate}

func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(sortModes, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// Next cycles none -> priority -> date -> none.
func (m SortMode) Next() SortMode {
	i := slices.Index(sortModes, m)
	return sortModes[(i+1)%len(sortModes)]
}

// Sort returns a stably ordered copy of tasks. SortNone keeps the input order.
func Sort(tasks []task.Task, mode SortMode) []task.Task {
	out := slices.Clone(tasks)
	switch mode {
	case SortPriority:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		})
	case SortDate:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			return strings.Compare(dateKey(a), dateKey(b))
		})
	}
	return out
}

func dateKey(t task.Task) string {
	if t.Date == "" {
		return undatedKey
	}
	return t.Date
}
