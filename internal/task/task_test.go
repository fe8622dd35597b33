package task

import (
	"testing"
	"time"
)

func TestPriorityRankAndLabel(t *testing.T) {
	tests := []struct {
		p     Priority
		rank  int
		label string
	}{
		{PriorityHigh, 2, "High"},
		{PriorityMedium, 1, "Medium"},
		{PriorityLow, 0, "Low"},
		{Priority("urgent"), 0, "Urgent"},
	}
	for _, tt := range tests {
		if got := tt.p.Rank(); got != tt.rank {
			t.Errorf("%q.Rank() = %d, want %d", tt.p, got, tt.rank)
		}
		if got := tt.p.Label(); got != tt.label {
			t.Errorf("%q.Label() = %q, want %q", tt.p, got, tt.label)
		}
	}
}

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority(" HIGH "); err != nil || p != PriorityHigh {
		t.Errorf("expected high, got %q err=%v", p, err)
	}
	if p, err := ParsePriority(""); err != nil || p != PriorityMedium {
		t.Errorf("expected blank to default to medium, got %q err=%v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past", Task{Date: "2024-03-09"}, true},
		{"today", Task{Date: "2024-03-10"}, false},
		{"future", Task{Date: "2024-04-01"}, false},
		{"no date", Task{}, false},
		{"completed", Task{Date: "2024-01-01", Completed: true}, false},
	}
	for _, tt := range tests {
		if got := tt.task.IsOverdue(today); got != tt.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	task := Task{GroupName: "Home", Text: "Buy milk"}
	for _, term := range []string{"", "  ", "MILK", "home", "uy m"} {
		if !task.Matches(term) {
			t.Errorf("expected %q to match", term)
		}
	}
	if task.Matches("work") {
		t.Error("expected work not to match")
	}
}

func TestDueDate(t *testing.T) {
	if _, ok := (Task{}).DueDate(); ok {
		t.Error("empty date should not parse")
	}
	if _, ok := (Task{Date: "2024-13-01"}).DueDate(); ok {
		t.Error("bad month should not parse")
	}
	d, ok := (Task{Date: "2024-02-29"}).DueDate()
	if !ok || d.Month() != time.February || d.Day() != 29 {
		t.Errorf("unexpected parse: %v ok=%v", d, ok)
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{0: "00:00", 5: "00:05", 60: "01:00", 754: "12:34", -3: "00:00"}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
