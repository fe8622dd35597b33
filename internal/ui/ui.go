package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"groupdo/internal/board"
	"groupdo/internal/config"
	"groupdo/internal/task"
	"groupdo/internal/timer"
	"groupdo/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

type timerMsg timer.Event

type persistErrMsg struct{ err error }

type clearHighlightMsg struct{ id string }

const (
	fieldGroup = iota
	fieldText
	fieldPriority
	fieldDate
	fieldTimer
)

type formState struct {
	values [5]string
	index  int
}

type Model struct {
	board      *board.Board
	cfg        config.Config
	viewMode   view.Mode
	sortMode   view.SortMode
	groups     []view.Group
	order      []string
	cursor     int
	mode       mode
	input      textinput.Model
	search     textinput.Model
	status     string
	confirm    confirmKind
	pendingDel *task.Task
	form       *formState
	highlight  map[string]bool
	now        func() time.Time
}

func Run(b *board.Board, cfg config.Config, firstLaunch bool) error {
	m := newModel(b, cfg)
	if firstLaunch {
		m.status = "Welcome! Config written. Press '" + cfg.Keys.Add + "' to add your first task."
	}

	program := tea.NewProgram(m)
	// Sends run off the caller's goroutine: events can originate inside Update.
	b.OnTimer(func(ev timer.Event) {
		go program.Send(timerMsg(ev))
	})
	b.OnPersistError(func(err error) {
		go program.Send(persistErrMsg{err: err})
	})
	_, err := program.Run()
	return err
}

func newModel(b *board.Board, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	si := textinput.New()
	si.Placeholder = "search tasks or groups"
	si.Prompt = "/ "
	si.CharLimit = 128
	si.Width = 40

	viewMode, err := view.ParseMode(cfg.DefaultView)
	if err != nil {
		viewMode = view.ModeGroups
	}
	sortMode, err := view.ParseSortMode(cfg.DefaultSort)
	if err != nil {
		sortMode = view.SortNone
	}

	m := Model{
		board:     b,
		cfg:       cfg,
		viewMode:  viewMode,
		sortMode:  sortMode,
		input:     ti,
		search:    si,
		mode:      modeList,
		status:    fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
		highlight: map[string]bool{},
		now:       time.Now,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateConfirm(msg.String())
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeSearch:
			return m.updateSearchMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case timerMsg:
		m.refresh()
		if msg.Finished {
			m.highlight[msg.TaskID] = true
			if t, ok := m.board.FindByID(msg.TaskID); ok {
				m.status = fmt.Sprintf("Time's up: %s", t.Text)
			}
			id := msg.TaskID
			return m, tea.Tick(timer.HighlightDuration, func(time.Time) tea.Msg {
				return clearHighlightMsg{id: id}
			})
		}
	case clearHighlightMsg:
		delete(m.highlight, msg.id)
	case persistErrMsg:
		m.status = fmt.Sprintf("Failed to save tasks: %v", msg.err)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.search.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.order) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.order))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.order))
		}
	case m.cfg.Keys.Add:
		return m.startAdd()
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, ok := m.board.ToggleCompleted(t.ID); !ok {
			m.status = "Task no longer exists"
		} else {
			m.status = "Toggled task"
		}
		m.refresh()
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirm = confirmDelete
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	case m.cfg.Keys.ClearAll:
		if len(m.board.Tasks()) == 0 {
			m.status = "Nothing to delete"
			return m, nil
		}
		m.confirm = confirmClear
		m.status = "Delete ALL tasks? This cannot be undone. y/n"
	case m.cfg.Keys.Timer:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		state, err := m.board.StartOrToggleTimer(t.ID)
		switch {
		case errors.Is(err, timer.ErrNoTimer):
			m.status = "This task has no timer"
		case err != nil:
			m.status = fmt.Sprintf("timer failed: %v", err)
		default:
			m.status = timerStatus(state)
		}
		m.refresh()
	case m.cfg.Keys.View:
		m.viewMode = m.viewMode.Next()
		m.status = "View: " + string(m.viewMode)
		m.refresh()
	case m.cfg.Keys.Sort:
		m.sortMode = m.sortMode.Next()
		m.status = "Sort: " + string(m.sortMode)
		m.refresh()
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.search.Focus()
		m.status = "Search: type to filter, enter to keep, esc to clear"
	case m.cfg.Keys.Cancel:
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.status = "Search cleared"
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeList
		m.status = "Search cleared"
		m.refresh()
		return m, nil
	case m.cfg.Keys.Confirm:
		m.search.Blur()
		m.mode = modeList
		m.status = fmt.Sprintf("%d matching tasks", len(m.order))
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		switch m.confirm {
		case confirmDelete:
			if m.pendingDel == nil || !m.board.Remove(m.pendingDel.ID) {
				m.status = "Nothing to delete"
			} else {
				m.status = "Deleted task"
			}
		case confirmClear:
			n := m.board.Clear()
			m.status = fmt.Sprintf("Deleted %d tasks", n)
		}
		m.refresh()
	default:
		return m, nil
	}
	m.confirm = confirmNone
	m.pendingDel = nil
	return m, nil
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	m.form = &formState{}
	m.form.values[fieldPriority] = string(task.PriorityMedium)
	m.mode = modeAdd
	m.input.SetValue(m.form.values[fieldGroup])
	m.input.Placeholder = formFields()[fieldGroup]
	m.input.Focus()
	m.status = m.formPrompt()
	return m, textinput.Blink
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.form = nil
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.moveField(1)
		return m, nil
	case "shift+tab", "up":
		m.moveField(-1)
		return m, nil
	case m.cfg.Keys.Confirm:
		m.form.values[m.form.index] = m.input.Value()
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.values[m.form.index] = m.input.Value()
	m.form.index = wrapIndex(m.form.index+delta, len(formFields()))
	m.input.SetValue(m.form.values[m.form.index])
	m.input.Placeholder = formFields()[m.form.index]
	m.status = m.formPrompt()
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	v := m.form.values
	priority, err := task.ParsePriority(v[fieldPriority])
	if err != nil {
		m.status = fmt.Sprintf("priority invalid: %v", err)
		return m, nil
	}
	minutes, err := parseMinutes(v[fieldTimer])
	if err != nil {
		m.status = fmt.Sprintf("timer invalid: %v", err)
		return m, nil
	}

	added, err := m.board.Add(task.Draft{
		GroupName:    v[fieldGroup],
		Text:         v[fieldText],
		Priority:     priority,
		Date:         v[fieldDate],
		TimerMinutes: minutes,
	})
	var ve *task.ValidationError
	if errors.As(err, &ve) {
		m.status = capitalize(ve.Error())
		m.focusField(ve.Field)
		return m, nil
	}
	if err != nil {
		m.status = fmt.Sprintf("add failed: %v", err)
		return m, nil
	}

	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.refresh()
	m.selectID(added.ID)
	m.status = "✓ Task added successfully!"
	return m, nil
}

func (m *Model) focusField(field string) {
	idx := fieldGroup
	switch field {
	case task.FieldText:
		idx = fieldText
	case task.FieldPriority:
		idx = fieldPriority
	case task.FieldDate:
		idx = fieldDate
	case task.FieldTimerMinutes:
		idx = fieldTimer
	}
	m.form.index = idx
	m.input.SetValue(m.form.values[idx])
	m.input.Placeholder = formFields()[idx]
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("New task: %s (field %d of %d). Enter to advance, tab to move, esc to cancel.",
		formFields()[m.form.index], m.form.index+1, len(formFields()))
}

func formFields() []string {
	return []string{"group", "task", "priority (low/medium/high)", "due date (YYYY-MM-DD)", "timer minutes"}
}

// refresh recomputes groups from the board and keeps the cursor on the same
// task when it is still visible.
func (m *Model) refresh() {
	var current string
	if m.cursor >= 0 && m.cursor < len(m.order) {
		current = m.order[m.cursor]
	}

	groups := m.board.ComputeGroupedView(m.viewMode, m.search.Value())
	order := make([]string, 0, len(m.order))
	for i, g := range groups {
		byID := make(map[string]task.Task, len(g.Tasks))
		ids := make([]string, len(g.Tasks))
		for j, t := range g.Tasks {
			byID[t.ID] = t
			ids[j] = t.ID
		}
		sorted := m.board.SortGroup(ids, m.sortMode)
		tasks := make([]task.Task, 0, len(sorted))
		for _, id := range sorted {
			tasks = append(tasks, byID[id])
		}
		groups[i].Tasks = tasks
		order = append(order, sorted...)
	}
	m.groups = groups
	m.order = order

	if current != "" && m.selectID(current) {
		return
	}
	m.cursor = clampCursor(m.cursor, len(m.order))
}

func (m *Model) selectID(id string) bool {
	for i, candidate := range m.order {
		if candidate == id {
			m.cursor = i
			return true
		}
	}
	return false
}

func (m Model) selected() (task.Task, bool) {
	if len(m.order) == 0 {
		return task.Task{}, false
	}
	return m.board.FindByID(m.order[clampCursor(m.cursor, len(m.order))])
}

func parseMinutes(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func timerStatus(state task.TimerState) string {
	switch state {
	case task.TimerRunning:
		return "Timer started"
	case task.TimerPaused:
		return "Timer paused"
	case task.TimerDone:
		return "Time's up!"
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
