// Package timer runs the per-task countdowns.
//
// Each task with a timer moves idle -> running -> paused -> running ... -> done.
// Only one ticking run exists per task; a run is identified by a token so a
// callback from a cancelled or replaced run never touches the task again.
package timer

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"groupdo/internal/task"
)

const (
	TickInterval = time.Second
	// HighlightDuration is how long the presentation layer flags a finished task.
	HighlightDuration = 2 * time.Second
)

var (
	ErrNotFound = errors.New("task not found")
	ErrNoTimer  = errors.New("task has no timer")
)

// Scheduler calls fn every d until the returned cancel func is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

// Store is the slice of task.Store the engine needs.
type Store interface {
	FindByID(id string) (task.Task, bool)
	Update(id string, fn func(t *task.Task)) (task.Task, bool)
	SetOnRemove(fn func(ids []string))
}

// Event reports a countdown change to the presentation layer.
type Event struct {
	TaskID           string
	State            task.TimerState
	RemainingSeconds int
	Finished         bool
}

type run struct {
	cancel func()
}

type Engine struct {
	store  Store
	sched  Scheduler
	logger *log.Logger

	mu   sync.Mutex
	runs map[string]*run

	notifyMu sync.RWMutex
	notify   func(Event)
}

// New builds an engine and registers it to cancel countdowns of tasks that
// leave the store.
func New(store Store, sched Scheduler, logger *log.Logger) *Engine {
	e := &Engine{
		store:  store,
		sched:  sched,
		logger: logger,
		runs:   make(map[string]*run),
	}
	store.SetOnRemove(func(ids []string) {
		for _, id := range ids {
			e.Cancel(id)
		}
	})
	return e
}

// SetNotify registers the event sink. fn is never called with a lock held.
func (e *Engine) SetNotify(fn func(Event)) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.notify = fn
}

// StartOrToggle pauses a running countdown and starts an idle or paused one.
// A finished countdown stays done.
func (e *Engine) StartOrToggle(id string) (task.TimerState, error) {
	e.mu.Lock()
	if _, active := e.runs[id]; active {
		ev, err := e.pauseLocked(id)
		e.mu.Unlock()
		e.emit(ev)
		return ev.State, err
	}
	ev, err := e.startLocked(id)
	e.mu.Unlock()
	if err != nil {
		return ev.State, err
	}
	e.emit(ev)
	return ev.State, nil
}

// Pause stops a running countdown and keeps the remaining seconds.
func (e *Engine) Pause(id string) (task.TimerState, error) {
	e.mu.Lock()
	if _, active := e.runs[id]; !active {
		e.mu.Unlock()
		t, ok := e.store.FindByID(id)
		if !ok {
			return "", ErrNotFound
		}
		return t.TimerState, nil
	}
	ev, err := e.pauseLocked(id)
	e.mu.Unlock()
	e.emit(ev)
	return ev.State, err
}

// Cancel stops any countdown for id without touching the task.
func (e *Engine) Cancel(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked(id)
}

// CancelAll stops every countdown.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.runs {
		e.stopLocked(id)
	}
}

func (e *Engine) startLocked(id string) (Event, error) {
	current, ok := e.store.FindByID(id)
	if !ok {
		return Event{TaskID: id}, ErrNotFound
	}
	switch current.TimerState {
	case task.TimerNone:
		return Event{TaskID: id, State: task.TimerNone}, ErrNoTimer
	case task.TimerDone:
		return Event{TaskID: id, State: task.TimerDone}, nil
	}
	if !current.HasTimer() {
		return Event{TaskID: id, State: current.TimerState}, ErrNoTimer
	}

	e.stopLocked(id)

	updated, ok := e.store.Update(id, func(t *task.Task) {
		if t.RemainingSeconds < 0 || t.RemainingSeconds > t.TimerSeconds() {
			t.RemainingSeconds = t.TimerSeconds()
		}
		if t.RemainingSeconds <= 0 {
			t.RemainingSeconds = 0
			t.TimerState = task.TimerDone
			return
		}
		t.TimerState = task.TimerRunning
	})
	if !ok {
		return Event{TaskID: id}, ErrNotFound
	}
	ev := eventFor(updated)
	if updated.TimerState == task.TimerDone {
		ev.Finished = true
		e.logger.Debug("timer already expired", "task_id", id)
		return ev, nil
	}

	r := &run{}
	r.cancel = e.sched.Every(TickInterval, func() { e.tick(id, r) })
	e.runs[id] = r
	e.logger.Debug("timer started", "task_id", id, "remaining", updated.RemainingSeconds)
	return ev, nil
}

func (e *Engine) pauseLocked(id string) (Event, error) {
	e.stopLocked(id)
	updated, ok := e.store.Update(id, func(t *task.Task) {
		if t.TimerState == task.TimerRunning {
			t.TimerState = task.TimerPaused
		}
	})
	if !ok {
		return Event{TaskID: id}, ErrNotFound
	}
	e.logger.Debug("timer paused", "task_id", id, "remaining", updated.RemainingSeconds)
	return eventFor(updated), nil
}

func (e *Engine) stopLocked(id string) {
	r, ok := e.runs[id]
	if !ok {
		return
	}
	delete(e.runs, id)
	r.cancel()
}

func (e *Engine) tick(id string, r *run) {
	e.mu.Lock()
	if e.runs[id] != r {
		e.mu.Unlock()
		return
	}
	updated, ok := e.store.Update(id, func(t *task.Task) {
		if t.RemainingSeconds > 0 {
			t.RemainingSeconds--
		}
		if t.RemainingSeconds <= 0 {
			t.RemainingSeconds = 0
			t.TimerState = task.TimerDone
		}
	})
	if !ok {
		// The task is gone; its removal hook may not have run yet.
		e.stopLocked(id)
		e.mu.Unlock()
		return
	}
	ev := eventFor(updated)
	if updated.TimerState == task.TimerDone {
		ev.Finished = true
		e.stopLocked(id)
		e.logger.Info("timer finished", "task_id", id)
	}
	e.mu.Unlock()
	e.emit(ev)
}

func (e *Engine) emit(ev Event) {
	if ev.TaskID == "" || ev.State == "" {
		return
	}
	e.notifyMu.RLock()
	fn := e.notify
	e.notifyMu.RUnlock()
	if fn != nil {
		fn(ev)
	}
}

func eventFor(t task.Task) Event {
	return Event{
		TaskID:           t.ID,
		State:            t.TimerState,
		RemainingSeconds: t.RemainingSeconds,
	}
}

// TickerScheduler schedules callbacks on wall-clock tickers.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
