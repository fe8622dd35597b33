package task

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrRequired    = errors.New("is required")
	ErrInvalidDate = errors.New("must be a YYYY-MM-DD date")
	ErrTimerRange  = fmt.Errorf("must be at most %d", MaxTimerMinutes)
)

// Field names carried by ValidationError.
const (
	FieldGroupName    = "group name"
	FieldText         = "task text"
	FieldPriority     = "priority"
	FieldDate         = "date"
	FieldTimerMinutes = "timer minutes"
)

// ValidationError reports a rejected Add. The store is left untouched.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// KV is the persistence slot the store serializes into.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Draft carries user input for Add.
type Draft struct {
	GroupName    string
	Text         string
	Priority     Priority
	Date         string
	TimerMinutes int
}

// Store owns the ordered task sequence. Every mutation writes the whole
// sequence to the KV slot; write failures are logged and reported through the
// persist-error hook but never undo the in-memory change.
type Store struct {
	mu     sync.Mutex
	tasks  []Task
	kv     KV
	key    string
	logger *log.Logger

	hookMu         sync.RWMutex
	onRemove       func(ids []string)
	onPersistError func(err error)
}

func NewStore(kv KV, key string, logger *log.Logger) *Store {
	return &Store{
		kv:     kv,
		key:    key,
		logger: logger,
	}
}

// SetOnRemove registers fn to run after tasks leave the store.
func (s *Store) SetOnRemove(fn func(ids []string)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.onRemove = fn
}

// SetOnPersistError registers fn to run when a save fails.
func (s *Store) SetOnPersistError(fn func(err error)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.onPersistError = fn
}

// Load replaces the in-memory sequence with the persisted one. A missing key
// or an unreadable payload yields an empty store.
func (s *Store) Load() error {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	var tasks []Task
	if ok {
		tasks, err = Unmarshal([]byte(raw))
		if err != nil {
			s.logger.Warn("discarding unreadable tasks", "key", s.key, "err", err)
			tasks = nil
		}
	}
	for i := range tasks {
		if tasks[i].TimerState == TimerRunning {
			tasks[i].TimerState = TimerPaused
		}
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	s.logger.Info("loaded tasks", "count", len(tasks))
	return nil
}

// Add validates d and appends a new task.
func (s *Store) Add(d Draft) (Task, error) {
	group := strings.TrimSpace(d.GroupName)
	if group == "" {
		return Task{}, &ValidationError{Field: FieldGroupName, Err: ErrRequired}
	}
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return Task{}, &ValidationError{Field: FieldText, Err: ErrRequired}
	}
	date := strings.TrimSpace(d.Date)
	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return Task{}, &ValidationError{Field: FieldDate, Err: ErrInvalidDate}
		}
	}
	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, &ValidationError{Field: FieldPriority, Err: fmt.Errorf("unknown priority %q", priority)}
	}

	if d.TimerMinutes > MaxTimerMinutes {
		return Task{}, &ValidationError{Field: FieldTimerMinutes, Err: ErrTimerRange}
	}

	t := Task{
		ID:         newID(),
		GroupName:  group,
		Text:       text,
		Priority:   priority,
		Date:       date,
		TimerState: TimerNone,
	}
	if d.TimerMinutes > 0 {
		t.TimerMinutes = d.TimerMinutes
		t.RemainingSeconds = d.TimerMinutes * 60
		t.TimerState = TimerIdle
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	err := s.saveLocked()
	s.mu.Unlock()

	s.reportPersist(err)
	s.logger.Debug("added task", "id", t.ID, "group", t.GroupName)
	return t, nil
}

// Remove deletes the task with id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	err := s.saveLocked()
	s.mu.Unlock()

	s.reportPersist(err)
	s.notifyRemoved([]string{id})
	s.logger.Debug("removed task", "id", id)
	return true
}

// ToggleCompleted flips the completed flag. The timer is not touched.
func (s *Store) ToggleCompleted(id string) (Task, bool) {
	return s.Update(id, func(t *Task) {
		t.Completed = !t.Completed
	})
}

// Clear removes every task.
func (s *Store) Clear() int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		ids = append(ids, t.ID)
	}
	s.tasks = nil
	err := s.saveLocked()
	s.mu.Unlock()

	s.reportPersist(err)
	s.notifyRemoved(ids)
	s.logger.Info("cleared tasks", "count", len(ids))
	return len(ids)
}

func (s *Store) FindByID(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Task{}, false
	}
	return s.tasks[idx], true
}

// All returns a copy of the tasks in insertion order.
func (s *Store) All() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Update applies fn to the task with id in place and saves. It returns the
// updated copy, or false without calling fn when id is unknown.
func (s *Store) Update(id string, fn func(t *Task)) (Task, bool) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Task{}, false
	}
	fn(&s.tasks[idx])
	updated := s.tasks[idx]
	err := s.saveLocked()
	s.mu.Unlock()

	s.reportPersist(err)
	return updated, true
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked() error {
	data, err := Marshal(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) reportPersist(err error) {
	if err == nil {
		return
	}
	s.logger.Error("failed to save tasks", "key", s.key, "err", err)
	s.hookMu.RLock()
	fn := s.onPersistError
	s.hookMu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

func (s *Store) notifyRemoved(ids []string) {
	if len(ids) == 0 {
		return
	}
	s.hookMu.RLock()
	fn := s.onRemove
	s.hookMu.RUnlock()
	if fn != nil {
		fn(ids)
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
