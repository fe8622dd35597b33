// Package task holds the task model, the owned task store, and its
// persisted encoding.
package task

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the due-date format. Lexicographic order of dates in this
// layout is chronological order.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities high(2) > medium(1) > low(0). Unknown values rank as low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label is the capitalised display name.
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParsePriority accepts low, medium or high in any case. Blank means medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

type TimerState string

const (
	TimerNone    TimerState = "none"
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
	TimerDone    TimerState = "done"
)

func (s TimerState) Valid() bool {
	switch s {
	case TimerNone, TimerIdle, TimerRunning, TimerPaused, TimerDone:
		return true
	}
	return false
}

type Task struct {
	ID               string     `json:"id"`
	GroupName        string     `json:"groupName"`
	Text             string     `json:"text"`
	Priority         Priority   `json:"priority"`
	Date             string     `json:"date"`
	TimerMinutes     int        `json:"timerMinutes"`
	RemainingSeconds int        `json:"remainingSeconds"`
	TimerState       TimerState `json:"timerState"`
	Completed        bool       `json:"completed"`
}

// MaxTimerMinutes caps a countdown at one week.
const MaxTimerMinutes = 7 * 24 * 60

// HasTimer reports whether a countdown is attached.
func (t Task) HasTimer() bool {
	return t.TimerMinutes > 0
}

// TimerSeconds is the full countdown length.
func (t Task) TimerSeconds() int {
	if t.TimerMinutes <= 0 {
		return 0
	}
	return t.TimerMinutes * 60
}

// DueDate parses Date. ok is false for an empty or malformed date.
func (t Task) DueDate() (time.Time, bool) {
	if t.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsOverdue reports whether an open task's due date is before today.
func (t Task) IsOverdue(today time.Time) bool {
	if t.Completed || t.Date == "" {
		return false
	}
	return t.Date < today.Format(DateLayout)
}

// Matches reports whether term occurs in Text or GroupName, ignoring case.
// A blank term matches everything.
func (t Task) Matches(term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Text), term) ||
		strings.Contains(strings.ToLower(t.GroupName), term)
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
