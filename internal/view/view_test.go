package view

import (
	"reflect"
	"testing"

	"groupdo/internal/task"
)

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func labels(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}

func TestWeekLabel(t *testing.T) {
	tests := map[string]string{
		"2024-01-01": "Week 1, 2024",
		"2023-12-31": "Week 52, 2023",
		"2021-01-03": "Week 53, 2020",
		"2024-12-30": "Week 1, 2025",
		"2024-06-15": "Week 24, 2024",
		"":           NoDateLabel,
		"garbage":    NoDateLabel,
	}
	for date, want := range tests {
		if got := WeekLabel(date); got != want {
			t.Errorf("WeekLabel(%q) = %q, want %q", date, got, want)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	tests := map[string]string{
		"2024-01-15": "January 2024",
		"2023-12-31": "December 2023",
		"":           NoDateLabel,
	}
	for date, want := range tests {
		if got := MonthLabel(date); got != want {
			t.Errorf("MonthLabel(%q) = %q, want %q", date, got, want)
		}
	}
}

func TestComputeGroupsMode(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", GroupName: "Home", Text: "Buy milk"},
		{ID: "2", GroupName: "Work", Text: "Report", Date: "2024-01-01"},
		{ID: "3", GroupName: "Home", Text: "Dishes"},
	}

	groups := Compute(tasks, ModeGroups, "")
	if !reflect.DeepEqual(labels(groups), []string{"Home", "Work"}) {
		t.Fatalf("unexpected labels %v", labels(groups))
	}
	if !reflect.DeepEqual(ids(groups[0].Tasks), []string{"1", "3"}) {
		t.Errorf("unexpected Home tasks %v", ids(groups[0].Tasks))
	}
}

func TestComputeSingleTaskScenario(t *testing.T) {
	tasks := []task.Task{{ID: "1", GroupName: "Home", Text: "Buy milk", Priority: task.PriorityHigh, TimerState: task.TimerNone}}
	groups := Compute(tasks, ModeGroups, "")
	if len(groups) != 1 || groups[0].Label != "Home" || len(groups[0].Tasks) != 1 {
		t.Fatalf("expected one Home group with one task, got %+v", groups)
	}
}

func TestComputeSearchIsCaseInsensitive(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", GroupName: "Home", Text: "Buy milk"},
		{ID: "2", GroupName: "Work", Text: "Report"},
		{ID: "3", GroupName: "Errands", Text: "MILK run"},
		{ID: "4", GroupName: "homework", Text: "Essay"},
	}

	groups := Compute(tasks, ModeGroups, "Milk")
	if !reflect.DeepEqual(labels(groups), []string{"Home", "Errands"}) {
		t.Errorf("unexpected labels %v", labels(groups))
	}
	groups = Compute(tasks, ModeGroups, "HOME")
	if !reflect.DeepEqual(labels(groups), []string{"Home", "homework"}) {
		t.Errorf("group name search: unexpected labels %v", labels(groups))
	}
	if got := Compute(tasks, ModeGroups, "zzz"); len(got) != 0 {
		t.Errorf("expected no groups, got %v", labels(got))
	}
	if got := Compute(tasks, ModeGroups, "   "); len(got) != 4 {
		t.Errorf("blank search should keep all, got %d groups", len(got))
	}
}

func TestComputeWeeksSortsChronologically(t *testing.T) {
	tasks := []task.Task{
		{ID: "none", GroupName: "g", Text: "a"},
		{ID: "late", GroupName: "g", Text: "b", Date: "2024-01-10"},
		{ID: "sun", GroupName: "g", Text: "c", Date: "2023-12-31"},
		{ID: "mon", GroupName: "g", Text: "d", Date: "2024-01-01"},
		{ID: "mon2", GroupName: "g", Text: "e", Date: "2024-01-03"},
	}

	groups := Compute(tasks, ModeWeeks, "")
	want := []string{"Week 52, 2023", "Week 1, 2024", "Week 2, 2024", NoDateLabel}
	if !reflect.DeepEqual(labels(groups), want) {
		t.Fatalf("labels = %v, want %v", labels(groups), want)
	}
	if !reflect.DeepEqual(ids(groups[1].Tasks), []string{"mon", "mon2"}) {
		t.Errorf("unexpected week 1 tasks %v", ids(groups[1].Tasks))
	}
	if !reflect.DeepEqual(ids(groups[3].Tasks), []string{"none"}) {
		t.Errorf("unexpected undated tasks %v", ids(groups[3].Tasks))
	}
}

func TestComputeMonthsIndependentOfInsertionOrder(t *testing.T) {
	a := []task.Task{
		{ID: "feb", GroupName: "g", Text: "a", Date: "2024-02-03"},
		{ID: "jan", GroupName: "g", Text: "b", Date: "2024-01-20"},
		{ID: "x", GroupName: "g", Text: "c"},
		{ID: "jan2", GroupName: "g", Text: "d", Date: "2024-01-05"},
	}
	b := []task.Task{a[2], a[3], a[0], a[1]}

	ga := Compute(a, ModeMonths, "")
	gb := Compute(b, ModeMonths, "")
	want := []string{"January 2024", "February 2024", NoDateLabel}
	if !reflect.DeepEqual(labels(ga), want) || !reflect.DeepEqual(labels(gb), want) {
		t.Fatalf("labels differ: %v vs %v", labels(ga), labels(gb))
	}
	if !reflect.DeepEqual(ids(ga[0].Tasks), []string{"jan2", "jan"}) {
		t.Errorf("unexpected January tasks %v", ids(ga[0].Tasks))
	}
}

func TestComputeStableForEqualDates(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", GroupName: "g", Text: "a", Date: "2024-03-01"},
		{ID: "2", GroupName: "g", Text: "b", Date: "2024-03-01"},
		{ID: "3", GroupName: "g", Text: "c"},
		{ID: "4", GroupName: "g", Text: "d"},
	}
	groups := Compute(tasks, ModeMonths, "")
	if !reflect.DeepEqual(ids(groups[0].Tasks), []string{"1", "2"}) {
		t.Errorf("equal dates reordered: %v", ids(groups[0].Tasks))
	}
	if !reflect.DeepEqual(ids(groups[1].Tasks), []string{"3", "4"}) {
		t.Errorf("undated reordered: %v", ids(groups[1].Tasks))
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	tasks := []task.Task{
		{ID: "b", GroupName: "g", Text: "b", Date: "2024-02-01"},
		{ID: "a", GroupName: "g", Text: "a", Date: "2024-01-01"},
	}
	Compute(tasks, ModeWeeks, "")
	if tasks[0].ID != "b" {
		t.Error("input slice was reordered")
	}
}

func TestParseAndCycleModes(t *testing.T) {
	if m, err := ParseMode(" Weeks "); err != nil || m != ModeWeeks {
		t.Errorf("ParseMode: %q %v", m, err)
	}
	if _, err := ParseMode("years"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if ModeGroups.Next() != ModeWeeks || ModeWeeks.Next() != ModeMonths || ModeMonths.Next() != ModeGroups {
		t.Error("unexpected view cycle")
	}
}
