package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "tasks.schema.json"

const tasksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "groupName", "text"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "groupName": {"type": "string"},
      "text": {"type": "string"},
      "priority": {"enum": ["low", "medium", "high"]},
      "date": {"type": "string", "pattern": "^$|^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
      "timerMinutes": {"type": "integer", "minimum": 0, "maximum": %d},
      "remainingSeconds": {"type": ["number", "null"]},
      "timerState": {"enum": ["none", "idle", "running", "paused", "done"]},
      "completed": {"type": "boolean"}
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(fmt.Sprintf(tasksSchema, MaxTimerMinutes))); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// record mirrors Task on the wire. RemainingSeconds is a pointer so a missing
// value can be told apart from zero.
type record struct {
	ID               string     `json:"id"`
	GroupName        string     `json:"groupName"`
	Text             string     `json:"text"`
	Priority         Priority   `json:"priority"`
	Date             string     `json:"date"`
	TimerMinutes     int        `json:"timerMinutes"`
	RemainingSeconds *float64   `json:"remainingSeconds"`
	TimerState       TimerState `json:"timerState"`
	Completed        bool       `json:"completed"`
}

// Marshal encodes tasks as a JSON array.
func Marshal(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a persisted task array, normalising timer
// fields so every invariant holds on the returned tasks.
func Unmarshal(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate tasks: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("decode tasks: duplicate id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		tasks = append(tasks, r.normalize())
	}
	return tasks, nil
}

func (r record) normalize() Task {
	t := Task{
		ID:           r.ID,
		GroupName:    r.GroupName,
		Text:         r.Text,
		Priority:     r.Priority,
		Date:         r.Date,
		TimerMinutes: r.TimerMinutes,
		TimerState:   r.TimerState,
		Completed:    r.Completed,
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.HasTimer() {
		t.TimerMinutes = 0
		t.TimerState = TimerNone
		return t
	}

	full := t.TimerSeconds()
	switch {
	case r.RemainingSeconds == nil || *r.RemainingSeconds < 0:
		t.RemainingSeconds = full
	case *r.RemainingSeconds > float64(full):
		t.RemainingSeconds = full
	default:
		t.RemainingSeconds = int(*r.RemainingSeconds)
	}

	if t.TimerState == TimerNone || t.TimerState == "" {
		t.TimerState = TimerIdle
	}
	return t
}
