package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/huntsched/internal/directory"
	"github.com/five82/huntsched/internal/events"
	"github.com/five82/huntsched/internal/huntarr"
	"github.com/five82/huntsched/internal/prefs"
	"github.com/five82/huntsched/internal/schedule"
)

// ScheduleStore is the part of schedule.Store the UI drives.
type ScheduleStore interface {
	Load(ctx context.Context) error
	Add(ctx context.Context, in schedule.NewRule) (schedule.Rule, error)
	Delete(ctx context.Context, id string, bucket schedule.AppType) (bool, error)
	Flatten() []schedule.Rule
}

// Directory is the part of directory.Cache the UI reads.
type Directory interface {
	schedule.InstanceLister
	Timezone() string
	Refresh(ctx context.Context) directory.Snapshot
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     ScheduleStore
	Directory Directory

	// Bus delivers DirectoryRefreshed and SaveCompleted events and carries
	// InstancesChanged requests. Optional.
	Bus *events.Bus

	ServerURL     string
	ThemeName     string
	DefaultAction string
	PrefsPath     string
	Logger        zerolog.Logger
	Now           func() time.Time

	// LogPath is the log file shown by the log view. Empty disables it.
	LogPath string

	// LoadErr is the error of the initial schedule load, shown as a toast.
	LoadErr error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	store       ScheduleStore
	dir         Directory
	bus         *events.Bus
	events      <-chan events.Event
	unsubscribe func()
	serverURL   string
	prefsPath   string
	logPath     string
	userPrefs   prefs.Prefs
	log         zerolog.Logger
	now         func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal

	// Data state
	rules       []schedule.Rule
	selectedRow int

	// Toast state
	toast    *toast
	toastSeq int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		dir:         opts.Directory,
		bus:         opts.Bus,
		unsubscribe: func() {},
		serverURL:   opts.ServerURL,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		userPrefs:   prefs.Prefs{Theme: themeName, DefaultAction: opts.DefaultAction},
		log:         opts.Logger.With().Str("component", "ui").Logger(),
		now:         now,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
	}
	if m.bus != nil {
		m.events, m.unsubscribe = m.bus.Subscribe(32)
	}
	m.rules = m.store.Flatten()
	if opts.LoadErr != nil {
		m.toastSeq++
		m.toast = &toast{level: toastError, text: loadErrorText(opts.LoadErr), seq: m.toastSeq}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{clockCmd(ClockTick)}
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	if m.toast != nil {
		seq := m.toast.seq
		cmds = append(cmds, tea.Tick(ToastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		}))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, m.updateModal(msg)

	case clockMsg:
		return m, clockCmd(ClockTick)

	case busEventMsg:
		cmd := m.handleEvent(events.Event(msg))
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case formSubmittedMsg:
		return m, addCmd(m.ctx, m.store, msg.input)

	case ruleAddedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("add schedule failed")
			return m, m.pushToast(toastError, "Could not add schedule: "+msg.err.Error())
		}
		m.reloadRules()
		m.selectRule(msg.rule.ID)
		return m, nil

	case deleteConfirmedMsg:
		return m, deleteCmd(m.ctx, m.store, msg.rule)

	case ruleDeletedMsg:
		m.reloadRules()
		switch {
		case msg.err != nil:
			m.log.Warn().Err(msg.err).Str("id", msg.id).Msg("delete schedule failed")
			return m, m.pushToast(toastError, "Could not delete schedule: "+msg.err.Error())
		case !msg.removed:
			return m, m.pushToast(toastInfo, "Schedule was already removed")
		}
		return m, nil

	case reloadedMsg:
		m.reloadRules()
		if msg.err != nil {
			return m, m.pushToast(toastError, loadErrorText(msg.err))
		}
		return m, m.pushToast(toastInfo, fmt.Sprintf("Loaded %d schedules", len(m.rules)))

	case toastExpiredMsg:
		m.expireToast(msg.seq)
		return m, nil
	}

	// cursor blink and other component messages
	return m, m.updateModal(msg)
}

// updateModal forwards msg to the open modal and closes it when it is done.
func (m *Model) updateModal(msg tea.Msg) tea.Cmd {
	if m.modal == nil {
		return nil
	}
	modal, cmd, done := m.modal.Update(msg, m.keys)
	if done {
		m.modal = nil
	} else {
		m.modal = modal
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		return m, m.updateModal(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.userPrefs.Theme = m.theme.Name
		if err := prefs.Save(m.prefsPath, m.userPrefs); err != nil {
			m.log.Warn().Err(err).Msg("save prefs failed")
		}

	case key.Matches(msg, m.keys.Add):
		m.modal = newAddForm(m.dir, m.userPrefs.DefaultAction)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if rule, ok := m.selectedRule(); ok {
			m.modal = confirmDelete{rule: rule, target: schedule.Describe(rule.Address, m.dir)}
		}

	case key.Matches(msg, m.keys.Reload):
		return m, reloadCmd(m.ctx, m.store, m.dir)

	case key.Matches(msg, m.keys.Instances):
		if m.bus == nil {
			return m, reloadCmd(m.ctx, m.store, m.dir)
		}
		m.bus.Publish(events.Event{Topic: events.InstancesChanged})
		return m, m.pushToast(toastInfo, "Refreshing instances...")

	case key.Matches(msg, m.keys.Logs):
		if m.logPath == "" {
			return m, m.pushToast(toastInfo, "Logging is disabled")
		}
		m.modal = newLogView(m.logPath, m.theme, m.width, m.height)
		return m, loadLogCmd(m.logPath)

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(-len(m.rules))
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(len(m.rules))
	}
	return m, nil
}

// handleEvent reacts to application events from the bus.
func (m *Model) handleEvent(ev events.Event) tea.Cmd {
	switch ev.Topic {
	case events.DirectoryRefreshed:
		if form, ok := m.modal.(*addForm); ok {
			form.refreshInstances()
		}
		snap, _ := ev.Data.(directory.Snapshot)
		if len(snap.Errors) > 0 {
			return m.pushToast(toastError, "Some instances failed to load: "+sourceNames(snap.Errors))
		}
		return m.pushToast(toastInfo, "Instances refreshed")

	case events.SaveCompleted:
		err, _ := ev.Data.(error)
		switch {
		case err == nil:
			return m.pushToast(toastSuccess, "Schedules saved")
		case errors.Is(err, huntarr.ErrSaveRejected):
			return m.pushToast(toastError, "Server rejected the save: "+err.Error())
		default:
			return m.pushToast(toastError, "Save failed: "+err.Error())
		}
	}
	return nil
}

func sourceNames(errs map[string]error) string {
	names := make([]string, 0, len(errs))
	for _, name := range []string{"settings", "movie_hunt", "tv_hunt"} {
		if _, ok := errs[name]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func loadErrorText(err error) string {
	if errors.Is(err, huntarr.ErrTimeout) {
		return "Loading schedules timed out"
	}
	return "Could not load schedules: " + err.Error()
}

// renderMain renders header, command bar, schedule table and toast line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderList(m.height - 3))
	b.WriteString("\n")
	b.WriteString(m.renderToast())
	return b.String()
}

// close releases the bus subscription.
func (m Model) close() {
	m.unsubscribe()
}

// Messages

type clockMsg time.Time

type busEventMsg events.Event

type ruleAddedMsg struct {
	rule schedule.Rule
	err  error
}

type ruleDeletedMsg struct {
	id      string
	removed bool
	err     error
}

type reloadedMsg struct {
	err error
}

// Commands

func clockCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg(ev)
	}
}

func addCmd(ctx context.Context, store ScheduleStore, in schedule.NewRule) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		rule, err := store.Add(ctx, in)
		return ruleAddedMsg{rule: rule, err: err}
	}
}

func deleteCmd(ctx context.Context, store ScheduleStore, rule schedule.Rule) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		removed, err := store.Delete(ctx, rule.ID, rule.App)
		return ruleDeletedMsg{id: rule.ID, removed: removed, err: err}
	}
}

func reloadCmd(ctx context.Context, store ScheduleStore, dir Directory) tea.Cmd {
	return func() tea.Msg {
		// Directory fetches are never cut short; only the load has a deadline.
		dir.Refresh(ctx)
		loadCtx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		return reloadedMsg{err: store.Load(loadCtx)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		// cancelled by signal, not a failure
		return nil
	}
	return err
}
