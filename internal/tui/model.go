package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/util"
)

// KeyMap defines the keybindings for the TUI
type KeyMap struct {
	Prev       key.Binding
	Next       key.Binding
	Today      key.Binding
	Month      key.Binding
	Week       key.Binding
	Day        key.Binding
	Up         key.Binding
	Down       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Edit       key.Binding
	Add        key.Binding
	Delete     key.Binding
	Open       key.Binding
	Refresh    key.Binding
	Quit       key.Binding
	Help       key.Binding
}

var DefaultKeyMap = KeyMap{
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Month: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "month view"),
	),
	Week: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "week view"),
	),
	Day: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "day view"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "previous event"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "next event"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("ctrl+u", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("ctrl+d", "scroll down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit reminder"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add reminder"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "delete reminder"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open meeting link"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// Model is the Bubble Tea model for the interactive calendar.
type Model struct {
	tracker core.Tracker
	now     func() time.Time
	keys    KeyMap

	state    calendar.ViewState
	events   []core.CalendarEvent
	grid     calendar.Grid
	selected int

	width         int
	height        int
	gridWidth     int
	detailWidth   int
	contentHeight int
	compactMode   bool
	gridView      viewport.Model
	viewportReady bool

	// loadSeq identifies the newest load; older results are dropped.
	loadSeq int
	loading bool
	saving  bool

	form    *reminderForm
	confirm *core.CalendarEvent
	// banner holds a write error that blocks input until dismissed.
	banner   string
	status   string
	showHelp bool

	// err is set when the program quit because the session ended.
	err error
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the clock used for "today" and the time indicator.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// NewModel creates a calendar model in the given view mode.
func NewModel(tracker core.Tracker, mode calendar.Mode, opts ...Option) Model {
	m := Model{
		tracker:  tracker,
		now:      time.Now,
		keys:     DefaultKeyMap,
		loading:  true,
		loadSeq:  1,
		selected: noSelection,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.state = calendar.NewViewState(m.now(), mode)
	m.rebuild()
	return m
}

type eventsLoadedMsg struct {
	seq    int
	events []core.CalendarEvent
	err    error
}

type reminderLoadedMsg struct {
	event    core.CalendarEvent
	reminder core.Reminder
	err      error
}

type reminderSavedMsg struct {
	err error
}

type reminderDeletedMsg struct {
	title string
	err   error
}

type tickMsg time.Time

func (m Model) loadEvents(seq int) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		events, err := calendar.LoadEvents(context.Background(), tracker)
		return eventsLoadedMsg{seq: seq, events: events, err: err}
	}
}

// reload starts a new load and supersedes any in flight.
func (m *Model) reload() tea.Cmd {
	m.loadSeq++
	m.loading = true
	return m.loadEvents(m.loadSeq)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEvents(m.loadSeq), tickCmd())
}

func (m *Model) calculateLayout() {
	height := max(m.height, 12)

	// Header ~2 lines, help ~2 lines, padding ~2 lines
	m.contentHeight = max(height-6, 6)

	width := m.width - 4
	m.compactMode = width < 110
	if m.compactMode {
		m.gridWidth = max(width, 40)
		m.detailWidth = m.gridWidth
		return
	}
	m.detailWidth = 38
	m.gridWidth = width - m.detailWidth - 1
}

// rebuild recomputes the grid from the current state and events.
func (m *Model) rebuild() {
	m.grid = calendar.Render(m.state, m.events, m.now())
	n := len(m.grid.Placements())
	switch {
	case n == 0:
		m.selected = noSelection
	case m.selected >= n:
		m.selected = n - 1
	case m.selected < 0:
		m.selected = 0
	}
	m.updateGridContent()
}

func (m *Model) updateGridContent() {
	if !m.viewportReady {
		return
	}
	m.gridView.SetContent(RenderGrid(m.grid, m.gridView.Width, m.selected))
}

// Err returns why the calendar quit on its own, or nil if the user quit.
func (m Model) Err() error {
	return m.err
}

// endSession clears what the previous session loaded and quits.
func (m Model) endSession(err error) (tea.Model, tea.Cmd) {
	log.Warn("session ended, closing calendar", "error", err)
	m.err = err
	m.events = nil
	m.form = nil
	m.confirm = nil
	m.saving = false
	m.loading = false
	m.rebuild()
	return m, tea.Quit
}

// Selected returns the highlighted event, if any.
func (m Model) Selected() (calendar.Placement, bool) {
	placements := m.grid.Placements()
	if m.selected < 0 || m.selected >= len(placements) {
		return calendar.Placement{}, false
	}
	return placements[m.selected], true
}

// State returns the current view state.
func (m Model) State() calendar.ViewState {
	return m.state
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.calculateLayout()

		vpHeight := max(m.contentHeight-2, 1)
		vpWidth := max(m.gridWidth-4, 20)
		if !m.viewportReady {
			m.gridView = viewport.New(vpWidth, vpHeight)
			m.viewportReady = true
		} else {
			m.gridView.Width = vpWidth
			m.gridView.Height = vpHeight
		}
		m.updateGridContent()
		return m, nil

	case eventsLoadedMsg:
		if msg.seq != m.loadSeq {
			log.Debug("dropping stale load", "seq", msg.seq, "current", m.loadSeq)
			return m, nil
		}
		m.loading = false
		if errors.Is(msg.err, core.ErrUnauthorized) {
			return m.endSession(msg.err)
		}
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return m, nil
			}
			log.Warn("load calendar events failed", "error", msg.err)
			m.status = "Could not load events: " + msg.err.Error()
			return m, nil
		}
		m.events = msg.events
		m.status = ""
		m.rebuild()
		return m, nil

	case reminderLoadedMsg:
		if errors.Is(msg.err, core.ErrUnauthorized) {
			return m.endSession(msg.err)
		}
		in := eventInput(msg.event)
		if msg.err != nil {
			log.Warn("load reminder failed, using calendar data", "id", msg.event.ID, "error", msg.err)
		} else {
			in = msg.reminder.Input()
		}
		f := newReminderForm(msg.event.ID, in)
		m.form = &f
		return m, nil

	case reminderSavedMsg:
		m.saving = false
		if errors.Is(msg.err, core.ErrUnauthorized) {
			return m.endSession(msg.err)
		}
		if msg.err != nil {
			m.banner = "Failed to save reminder: " + msg.err.Error()
			return m, nil
		}
		m.form = nil
		m.status = "Reminder saved"
		return m, m.reload()

	case reminderDeletedMsg:
		m.saving = false
		if errors.Is(msg.err, core.ErrUnauthorized) {
			return m.endSession(msg.err)
		}
		if msg.err != nil {
			m.banner = "Failed to delete reminder: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted %q", msg.title)
		return m, m.reload()

	case tickMsg:
		m.rebuild()
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		f, cmd := m.form.update(msg)
		m.form = &f
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The error banner swallows input until dismissed.
	if m.banner != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.banner = ""
		}
		return m, nil
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y":
			ev := *m.confirm
			m.confirm = nil
			if m.saving {
				return m, nil
			}
			m.saving = true
			return m, m.deleteReminder(ev)
		case "n", "N", "esc", "q":
			m.confirm = nil
		}
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Prev):
		m.state = m.state.Prev()
		m.selected = 0
		m.rebuild()
		m.gridView.GotoTop()

	case key.Matches(msg, m.keys.Next):
		m.state = m.state.Next()
		m.selected = 0
		m.rebuild()
		m.gridView.GotoTop()

	case key.Matches(msg, m.keys.Today):
		m.state = m.state.Today(m.now())
		m.selected = 0
		m.rebuild()

	case key.Matches(msg, m.keys.Month):
		m.state = m.state.WithMode(calendar.ModeMonth)
		m.rebuild()

	case key.Matches(msg, m.keys.Week):
		m.state = m.state.WithMode(calendar.ModeWeek)
		m.rebuild()

	case key.Matches(msg, m.keys.Day):
		m.state = m.state.WithMode(calendar.ModeDay)
		m.rebuild()

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.updateGridContent()
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.grid.Placements())-1 {
			m.selected++
			m.updateGridContent()
		}

	case key.Matches(msg, m.keys.ScrollUp):
		m.gridView.HalfPageUp()

	case key.Matches(msg, m.keys.ScrollDown):
		m.gridView.HalfPageDown()

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.Selected()
		if !ok || !p.Clickable {
			return m, nil
		}
		return m, m.loadReminder(p.Event)

	case key.Matches(msg, m.keys.Add):
		f := newReminderForm("", core.ReminderInput{
			Kind:  core.KindDeadline,
			Color: core.ColorBlue,
			Date:  calendar.FormatDate(m.state.Ref),
		})
		m.form = &f

	case key.Matches(msg, m.keys.Delete):
		p, ok := m.Selected()
		if !ok || !p.Clickable {
			return m, nil
		}
		ev := p.Event
		m.confirm = &ev

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.Selected(); ok && p.Event.MeetingLink != "" {
			return m, openURL(p.Event.MeetingLink)
		}

	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.reload()
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !m.saving {
			m.form = nil
		}
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "enter", "ctrl+s":
		return m.submit()
	}

	f, cmd := m.form.update(msg)
	m.form = &f
	return m, cmd
}

// submit validates the form and starts a save. A submit while a save is in
// flight is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	in := m.form.Input()
	if err := in.Validate(m.now()); err != nil {
		m.form.err = err.Error()
		var ve core.ValidationError
		if errors.As(err, &ve) {
			return m, m.form.focusField(ve.Field)
		}
		return m, nil
	}
	m.form.err = ""
	m.saving = true
	return m, m.saveReminder(m.form.id, in)
}

func (m Model) loadReminder(ev core.CalendarEvent) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		r, err := tracker.GetReminder(context.Background(), ev.ID)
		return reminderLoadedMsg{event: ev, reminder: r, err: err}
	}
}

func (m Model) saveReminder(id string, in core.ReminderInput) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		var err error
		if id == "" {
			_, err = tracker.CreateReminder(context.Background(), in)
		} else {
			_, err = tracker.UpdateReminder(context.Background(), id, in)
		}
		return reminderSavedMsg{err: err}
	}
}

func (m Model) deleteReminder(ev core.CalendarEvent) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		err := tracker.DeleteReminder(context.Background(), ev.ID)
		return reminderDeletedMsg{title: ev.Title, err: err}
	}
}

// eventInput builds form values from the calendar copy of a reminder.
func eventInput(e core.CalendarEvent) core.ReminderInput {
	return core.ReminderInput{
		Kind:          e.Kind,
		Title:         e.Title,
		ApplicationID: e.ApplicationID,
		Notes:         e.Notes,
		Color:         e.DisplayColor(),
		Date:          e.Date,
		EndDate:       e.EndDate,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Location:      e.Location,
		MeetingLink:   e.MeetingLink,
	}
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	var content string
	switch {
	case m.banner != "":
		content = m.renderBanner()
	case m.form != nil:
		content = m.form.view(m.detailWidth, m.saving)
	case m.showHelp:
		content = m.renderHelpPanel()
	case m.compactMode:
		content = m.renderGridPanel()
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderGridPanel(), " ", m.renderDetailPanel())
	}

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderFooter()))
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("📅 " + m.grid.Label)

	var modes []string
	for _, mode := range []calendar.Mode{calendar.ModeMonth, calendar.ModeWeek, calendar.ModeDay} {
		label := mode.String()
		if mode == m.state.Mode {
			label = HelpKeyStyle.Render("[" + label + "]")
		} else {
			label = HelpStyle.UnsetMarginTop().Render(label)
		}
		modes = append(modes, label)
	}
	right := strings.Join(modes, " ")
	if m.loading {
		right = HintStyle.Render("loading… ") + right
	}

	gap := max(m.width-4-lipgloss.Width(title)-lipgloss.Width(right), 1)
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) renderGridPanel() string {
	body := m.gridView.View()
	if len(m.grid.Placements()) == 0 && !m.loading {
		body += "\n" + HintStyle.Render("No events in this period. Press a to add a reminder.")
	}
	return GridPanelStyle.Width(m.gridWidth).Height(m.contentHeight).Render(body)
}

func (m Model) renderDetailPanel() string {
	width := m.detailWidth - 6
	p, ok := m.Selected()
	if !ok {
		return DetailPanelStyle.Width(m.detailWidth).Height(m.contentHeight).Render(
			HintStyle.Render("No event selected"),
		)
	}
	e := p.Event

	lines := []string{TitleStyle.Render(ansi.Wordwrap(e.Title, width, ""))}
	lines = append(lines, renderField("Type", e.Kind.Label()))
	lines = append(lines, renderField("Date", calendar.FormatLongDate(e.Date)))
	if e.StartTime != "" {
		when := e.StartTime
		if e.EndTime != "" {
			when += " - " + e.EndTime
		}
		lines = append(lines, renderField("Time", when))
	}
	if e.EndDate != "" && e.EndDate != e.Date {
		lines = append(lines, renderField("Until", calendar.FormatLongDate(e.EndDate)))
	}
	if e.Location != "" {
		lines = append(lines, renderWrappedField("Location", e.Location, width))
	}
	if e.MeetingLink != "" {
		labelWidth := lipgloss.Width(LabelStyle.Render("Join")) + 1
		display := util.Truncate(e.MeetingLink, width-labelWidth)
		lines = append(lines, renderField("Join", util.MakeHyperlink(e.MeetingLink, LinkStyle.Render(display))))
	}
	if e.Notes != "" {
		lines = append(lines, "", LabelStyle.Render("Notes"), ValueStyle.Render(util.Wrap(e.Notes, width)))
	}
	if p.Hint != "" {
		lines = append(lines, "", HintStyle.Render(ansi.Wordwrap(p.Hint, width, "")))
	}

	return DetailPanelStyle.Width(m.detailWidth).Height(m.contentHeight).Render(strings.Join(lines, "\n"))
}

func (m Model) renderBanner() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		FormErrorStyle.Render("Error"),
		"",
		ansi.Wordwrap(m.banner, max(m.detailWidth-8, 20), ""),
		"",
		HintStyle.Render("Press enter to dismiss"),
	)
	return BannerStyle.Width(m.detailWidth).Render(body)
}

func (m Model) renderFooter() string {
	if m.confirm != nil {
		return HelpStyle.Render(FormErrorStyle.Render(fmt.Sprintf("Delete %q?", m.confirm.Title)) + " (y/n)")
	}
	if m.status != "" && m.form == nil {
		return HelpStyle.Render(StatusStyle.Render(m.status))
	}
	return m.renderHelp()
}

func (m Model) renderHelp() string {
	keys := []string{
		HelpKeyStyle.Render("←/→") + " period",
		HelpKeyStyle.Render("↑/↓") + " event",
		HelpKeyStyle.Render("m/w/d") + " view",
		HelpKeyStyle.Render("t") + " today",
		HelpKeyStyle.Render("enter") + " edit",
		HelpKeyStyle.Render("a") + " add",
		HelpKeyStyle.Render("x") + " delete",
		HelpKeyStyle.Render("q") + " quit",
	}

	fullLine := strings.Join(keys, "  •  ")
	if lipgloss.Width(fullLine) > m.width-4 {
		return HelpStyle.Render(HelpKeyStyle.Render("?") + " help")
	}
	return HelpStyle.Render(fullLine)
}

func (m Model) renderHelpPanel() string {
	header := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true).
		Render("Keyboard Shortcuts")

	lines := []string{
		"",
		HelpKeyStyle.Render("  ← / h      ") + " Previous month, week or day",
		HelpKeyStyle.Render("  → / l      ") + " Next month, week or day",
		HelpKeyStyle.Render("  t          ") + " Jump to today",
		HelpKeyStyle.Render("  m / w / d  ") + " Month, week or day view",
		HelpKeyStyle.Render("  ↑↓ / k j   ") + " Select event",
		HelpKeyStyle.Render("  ctrl+u/d   ") + " Scroll grid",
		HelpKeyStyle.Render("  enter      ") + " Edit reminder",
		HelpKeyStyle.Render("  a          ") + " Add reminder",
		HelpKeyStyle.Render("  x / del    ") + " Delete reminder",
		HelpKeyStyle.Render("  o          ") + " Open meeting link",
		HelpKeyStyle.Render("  r          ") + " Refresh events",
		HelpKeyStyle.Render("  q / ctrl+c ") + " Quit",
		"",
		HintStyle.Render("  Deadlines marked ◌ come from applications and are read-only."),
		HintStyle.Render("  Press any key to close"),
	}

	return DetailPanelStyle.Width(m.detailWidth).Height(m.contentHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n")),
	)
}

// Helper functions
func renderField(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}

// renderWrappedField renders a label-value field, word-wrapping the value
// to fit within maxWidth. Continuation lines are indented to align with the value.
func renderWrappedField(label, value string, maxWidth int) string {
	labelRendered := LabelStyle.Render(label)
	labelWidth := lipgloss.Width(labelRendered) + 1
	valueWidth := max(maxWidth-labelWidth, 10)
	wrapLines := strings.Split(ansi.Wordwrap(value, valueWidth, ""), "\n")
	indent := strings.Repeat(" ", labelWidth)
	for i := 1; i < len(wrapLines); i++ {
		wrapLines[i] = indent + wrapLines[i]
	}
	return labelRendered + " " + ValueStyle.Render(strings.Join(wrapLines, "\n"))
}

// openURL opens a URL in the default browser
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			return nil
		}
		_ = cmd.Start()
		return nil
	}
}
