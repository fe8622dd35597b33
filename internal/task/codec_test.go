package task

import (
	"reflect"
	"strings"
	"testing"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	tasks := []Task{
		{ID: "a", GroupName: "Home", Text: "Buy milk", Priority: PriorityHigh, TimerState: TimerNone},
		{ID: "b", GroupName: "Work", Text: "Report", Priority: PriorityLow, Date: "2024-01-01",
			TimerMinutes: 5, RemainingSeconds: 120, TimerState: TimerPaused, Completed: true},
		{ID: "c", GroupName: "Work", Text: "Standup", Priority: PriorityMedium,
			TimerMinutes: 1, RemainingSeconds: 60, TimerState: TimerRunning},
	}

	data, err := Marshal(tasks)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, tasks)
	}
}

func TestMarshalUsesPersistedFieldNames(t *testing.T) {
	data, err := Marshal([]Task{{ID: "a", GroupName: "g", Text: "t", Priority: PriorityLow, TimerState: TimerNone}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, field := range []string{`"groupName"`, `"timerMinutes"`, `"remainingSeconds"`, `"timerState"`, `"completed"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}

	empty, err := Marshal(nil)
	if err != nil || string(empty) != "[]" {
		t.Errorf("expected [] for nil, got %q err=%v", empty, err)
	}
}

func TestUnmarshalEmptyPayload(t *testing.T) {
	got, err := Unmarshal([]byte("  "))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no tasks, got %d", len(got))
	}
}

func TestUnmarshalRejectsInvalidPayloads(t *testing.T) {
	tests := map[string]string{
		"not json":       `{"tasks":`,
		"not an array":   `{"id":"a"}`,
		"missing text":   `[{"id":"a","groupName":"g"}]`,
		"bad priority":   `[{"id":"a","groupName":"g","text":"t","priority":"urgent"}]`,
		"bad date":       `[{"id":"a","groupName":"g","text":"t","date":"01/02/2024"}]`,
		"bad state":      `[{"id":"a","groupName":"g","text":"t","timerState":"ticking"}]`,
		"negative timer": `[{"id":"a","groupName":"g","text":"t","timerMinutes":-1}]`,
		"huge timer":     `[{"id":"a","groupName":"g","text":"t","timerMinutes":200000000000000000}]`,
		"duplicate id":   `[{"id":"a","groupName":"g","text":"t"},{"id":"a","groupName":"g","text":"u"}]`,
	}
	for name, payload := range tests {
		if _, err := Unmarshal([]byte(payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestUnmarshalNormalizesTimerFields(t *testing.T) {
	payload := `[
		{"id":"missing","groupName":"g","text":"t","timerMinutes":2,"timerState":"idle"},
		{"id":"null","groupName":"g","text":"t","timerMinutes":1,"remainingSeconds":null,"timerState":"paused"},
		{"id":"negative","groupName":"g","text":"t","timerMinutes":1,"remainingSeconds":-5,"timerState":"paused"},
		{"id":"over","groupName":"g","text":"t","timerMinutes":1,"remainingSeconds":500,"timerState":"paused"},
		{"id":"fraction","groupName":"g","text":"t","timerMinutes":1,"remainingSeconds":30.7,"timerState":"paused"},
		{"id":"notimer","groupName":"g","text":"t","timerMinutes":0,"remainingSeconds":30,"timerState":"running"},
		{"id":"nostate","groupName":"g","text":"t","timerMinutes":3}
	]`
	got, err := Unmarshal([]byte(payload))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := map[string]struct {
		remaining int
		state     TimerState
	}{
		"missing":  {120, TimerIdle},
		"null":     {60, TimerPaused},
		"negative": {60, TimerPaused},
		"over":     {60, TimerPaused},
		"fraction": {30, TimerPaused},
		"notimer":  {0, TimerNone},
		"nostate":  {180, TimerIdle},
	}
	for _, task := range got {
		w := want[task.ID]
		if task.RemainingSeconds != w.remaining || task.TimerState != w.state {
			t.Errorf("%s: got remaining=%d state=%q, want remaining=%d state=%q",
				task.ID, task.RemainingSeconds, task.TimerState, w.remaining, w.state)
		}
		if task.Priority != PriorityMedium {
			t.Errorf("%s: expected missing priority to default to medium, got %q", task.ID, task.Priority)
		}
	}
}
