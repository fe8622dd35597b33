// Package board is the surface the presentation layer talks to. It owns the
// task store and the timer engine and hands out grouped, sorted snapshots.
package board

import (
	"errors"

	"github.com/charmbracelet/log"

	"groupdo/internal/task"
	"groupdo/internal/timer"
	"groupdo/internal/view"
)

type Board struct {
	store  *task.Store
	timers *timer.Engine
	logger *log.Logger
}

// New loads persisted tasks from kv under key and wires the timer engine.
func New(kv task.KV, key string, sched timer.Scheduler, logger *log.Logger) (*Board, error) {
	store := task.NewStore(kv, key, logger)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return &Board{
		store:  store,
		timers: timer.New(store, sched, logger),
		logger: logger,
	}, nil
}

// OnTimer registers the sink for countdown events.
func (b *Board) OnTimer(fn func(timer.Event)) {
	b.timers.SetNotify(fn)
}

// OnPersistError registers the sink for failed saves.
func (b *Board) OnPersistError(fn func(error)) {
	b.store.SetOnPersistError(fn)
}

func (b *Board) Add(d task.Draft) (task.Task, error) {
	return b.store.Add(d)
}

// Remove deletes id and stops its countdown.
func (b *Board) Remove(id string) bool {
	return b.store.Remove(id)
}

func (b *Board) ToggleCompleted(id string) (task.Task, bool) {
	return b.store.ToggleCompleted(id)
}

// Clear deletes every task and stops every countdown.
func (b *Board) Clear() int {
	n := b.store.Clear()
	b.timers.CancelAll()
	return n
}

func (b *Board) FindByID(id string) (task.Task, bool) {
	return b.store.FindByID(id)
}

func (b *Board) Tasks() []task.Task {
	return b.store.All()
}

func (b *Board) ComputeGroupedView(mode view.Mode, search string) []view.Group {
	return view.Compute(b.store.All(), mode, search)
}

// SortGroup orders the given ids by mode. Ids no longer in the store are dropped.
func (b *Board) SortGroup(ids []string, mode view.SortMode) []string {
	tasks := make([]task.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := b.store.FindByID(id); ok {
			tasks = append(tasks, t)
		}
	}
	sorted := view.Sort(tasks, mode)
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = t.ID
	}
	return out
}

// StartOrToggleTimer starts, resumes or pauses the countdown of id. An
// unknown id is a silent no-op.
func (b *Board) StartOrToggleTimer(id string) (task.TimerState, error) {
	state, err := b.timers.StartOrToggle(id)
	if errors.Is(err, timer.ErrNotFound) {
		b.logger.Debug("timer toggle for missing task", "task_id", id)
		return "", nil
	}
	return state, err
}

// Close stops every countdown. Task state is already persisted.
func (b *Board) Close() {
	b.timers.CancelAll()
}
