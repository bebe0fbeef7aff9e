// Package tui provides a Bubble Tea terminal user interface for fplsync.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/handiism/fplsync/internal/config"
	"github.com/handiism/fplsync/internal/logging"
	"github.com/handiism/fplsync/internal/rsync"
	"github.com/handiism/fplsync/internal/session"
	"github.com/handiism/fplsync/internal/transfer"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	playlistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogLines is how many log lines are kept on screen.
const maxLogLines = 10

// State represents the current UI state.
type State int

const (
	StateSelect State = iota
	StateGathering
	StateReview
	StateTransferring
	StateConfirm
	StateComplete
	StateError
)

var errCancelled = errors.New("cancelled by user")

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	err      error

	settings     *config.Settings
	settingsPath string
	bridge       *bridge

	// Playlist selection. selected keeps the order in which playlists were
	// ticked, which is the order they are filled in.
	names    []string
	cursor   int
	selected []string
	shuffle  bool
	dryRun   bool

	logs []string

	ctx    context.Context
	cancel context.CancelFunc

	manager  *session.Manager
	gathered transfer.GatherResult
	selSize  session.Progress
	report   transfer.Report

	// Pending confirmation from the Director.
	prompt string
	reply  chan<- bool

	width  int
	height int
}

// NewModel creates a TUI model for settings. The playlists named in the
// settings start out selected.
func NewModel(settings *config.Settings, settingsPath string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:        StateSelect,
		spinner:      sp,
		progress:     prog,
		settings:     settings,
		settingsPath: settingsPath,
		bridge:       &bridge{},
		selected:     append([]string(nil), settings.Playlists...),
		shuffle:      settings.Shuffle,
		dryRun:       settings.DryRun,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadNames(), m.spinner.Tick)
}

// Message types
type (
	// NamesMsg carries the playlist names read from index.dat.
	NamesMsg struct {
		Names []string
		Err   error
	}

	// LogMsg is one line of log or rsync output.
	LogMsg struct {
		Line string
	}

	// GatheredMsg is sent when the selection has been made.
	GatheredMsg struct {
		Result transfer.GatherResult
		Err    error
	}

	// ConfirmMsg asks the operator to answer a yes/no question.
	ConfirmMsg struct {
		Prompt string
		Reply  chan<- bool
	}

	// TransferDoneMsg is sent when the transfer has finished.
	TransferDoneMsg struct {
		Report transfer.Report
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case NamesMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.names = msg.Names
		m.selected = known(m.selected, m.names)

	case LogMsg:
		m.logs = append(m.logs, msg.Line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}

	case GatheredMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			cmds = append(cmds, m.closeManager())
			break
		}
		m.gathered = msg.Result
		m.selSize = m.manager.Progress()
		m.state = StateReview

	case ConfirmMsg:
		m.prompt = msg.Prompt
		m.reply = msg.Reply
		m.state = StateConfirm

	case TransferDoneMsg:
		m.report = msg.Report
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		if m.reply != nil {
			m.reply <- false
			m.reply = nil
		}
		if m.state == StateReview {
			return m, tea.Sequence(m.closeManager(), tea.Quit)
		}
		return m, tea.Quit
	}

	switch m.state {
	case StateSelect:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.names)-1 {
				m.cursor++
			}
		case " ":
			if len(m.names) > 0 {
				m.selected = toggle(m.selected, m.names[m.cursor])
			}
		case "s":
			m.shuffle = !m.shuffle
		case "n":
			m.dryRun = !m.dryRun
		case "enter":
			if len(m.selected) > 0 {
				return m.start()
			}
		case "esc", "q":
			return m, tea.Quit
		}

	case StateGathering:
		if msg.String() == "esc" {
			m.cancel()
		}

	case StateReview:
		switch msg.String() {
		case "enter":
			if m.selSize.Songs == 0 && m.selSize.Playlists == 0 {
				break
			}
			m.state = StateTransferring
			return m, tea.Batch(m.runTransfer(), m.spinner.Tick)
		case "esc", "q":
			return m, tea.Sequence(m.closeManager(), tea.Quit)
		}

	case StateTransferring:
		if msg.String() == "esc" {
			m.cancel()
		}

	case StateConfirm:
		switch strings.ToLower(msg.String()) {
		case "y":
			m.answer(true)
		case "n", "esc", "enter":
			m.answer(false)
		}

	case StateComplete, StateError:
		if msg.String() == "q" || msg.String() == "esc" || msg.String() == "enter" {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) answer(yes bool) {
	m.reply <- yes
	m.reply = nil
	m.prompt = ""
	m.state = StateTransferring
}

// start saves the settings and begins gathering the selected playlists.
func (m Model) start() (tea.Model, tea.Cmd) {
	m.settings.Playlists = append([]string(nil), m.selected...)
	m.settings.Shuffle = m.shuffle
	m.settings.DryRun = m.dryRun
	if err := m.settings.Save(m.settingsPath); err != nil {
		m.logs = append(m.logs, "Failed to save settings: "+err.Error())
	}

	cfg, err := m.settings.Resolve()
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	if _, err := rsync.Check(cfg.RsyncPath); err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	out := newLineWriter(m.bridge.send)
	logger, err := logging.NewWriter(out, cfg.LogLevel)
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	m.manager = session.NewManager(cfg, logger,
		transfer.WithRunner(rsync.NewExecRunner(out, out)),
		transfer.WithConfirmer(m.bridge.confirmer()))
	m.logs = nil
	m.state = StateGathering

	return m, tea.Batch(m.gather(), m.spinner.Tick)
}

func (m Model) loadNames() tea.Cmd {
	settings := m.settings
	return func() tea.Msg {
		cfg, err := settings.ResolveLibrary()
		if err != nil {
			return NamesMsg{Err: err}
		}
		index, err := session.NewManager(cfg, zap.NewNop()).Index()
		if err != nil {
			return NamesMsg{Err: err}
		}
		return NamesMsg{Names: index.Names()}
	}
}

func (m Model) gather() tea.Cmd {
	ctx, manager := m.ctx, m.manager
	return func() tea.Msg {
		result, err := manager.Initialize(ctx)
		return GatheredMsg{Result: result, Err: err}
	}
}

func (m Model) runTransfer() tea.Cmd {
	ctx, manager := m.ctx, m.manager
	return func() tea.Msg {
		report, err := manager.Transfer(ctx)
		return TransferDoneMsg{Report: report, Err: err}
	}
}

// closeManager releases an abandoned selection. It runs as a command
// because closing logs, and log lines are sent back to the program.
func (m Model) closeManager() tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		if err := manager.Close(); err != nil {
			return LogMsg{Line: "Failed to clean up: " + err.Error()}
		}
		return nil
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ fplsync"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Sync foobar2000 playlists to a device"))
	b.WriteString("\n\n")

	switch m.state {
	case StateSelect:
		b.WriteString(m.viewSelect())
	case StateGathering:
		b.WriteString(m.viewBusy("Selecting songs..."))
	case StateReview:
		b.WriteString(m.viewReview())
	case StateTransferring:
		b.WriteString(m.viewBusy("Running rsync..."))
	case StateConfirm:
		b.WriteString(m.viewConfirm())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewSelect() string {
	var b strings.Builder

	if m.names == nil {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Reading playlists..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(subtitleStyle.Render("Select playlists, in order of priority:"))
	b.WriteString("\n\n")

	if len(m.names) == 0 {
		b.WriteString(warningStyle.Render("  No playlists in index.dat"))
		b.WriteString("\n")
	}
	for i, name := range m.names {
		cursor := "  "
		if i == m.cursor {
			cursor = "› "
		}
		check := "[ ]"
		if n := position(m.selected, name); n > 0 {
			check = fmt.Sprintf("[%d]", n)
		}
		line := fmt.Sprintf("%s%s %s", cursor, check, name)
		if i == m.cursor {
			line = playlistStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Shuffle songs (s)\n", checkbox(m.shuffle)))
	b.WriteString(fmt.Sprintf("  %s Dry run (n)\n", checkbox(m.dryRun)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Destination: %s", m.settings.Dest)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewBusy(title string) string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewReview() string {
	var b strings.Builder

	var percent float64
	if m.selSize.Budget > 0 {
		percent = float64(m.selSize.Size) / float64(m.selSize.Budget)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Songs: %d | Playlists: %d | Selected: %.2f of %.2f MB",
		m.selSize.Songs,
		m.selSize.Playlists,
		float64(m.selSize.Size)/1024/1024,
		float64(m.selSize.Budget)/1024/1024,
	)))
	b.WriteString("\n\n")

	if r := m.gathered.PlaylistRejection; r != nil {
		b.WriteString(warningStyle.Render("! No room for " + r.String()))
		b.WriteString("\n")
	}
	if r := m.gathered.SongRejection; r != nil {
		b.WriteString(warningStyle.Render("! No room for " + r.String()))
		b.WriteString("\n")
	}
	if m.selSize.Songs == 0 && m.selSize.Playlists == 0 {
		b.WriteString(warningStyle.Render("Nothing fits on the device."))
		b.WriteString("\n")
	} else if m.gathered.PlaylistRejection == nil && m.gathered.SongRejection == nil {
		b.WriteString(successStyle.Render("✓ Everything fits."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.renderLogs())
	b.WriteString("\n")
	b.WriteString(warningStyle.Render(m.prompt + " [y/N]"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewComplete() string {
	title := "✨ Sync Complete!"
	if m.report.DryRun {
		title = "✨ Dry Run Complete!"
	}

	return boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Playlists: %d\n"+
			"Songs: %d\n"+
			"Size: %.2f MB",
		title,
		m.report.Playlists,
		m.report.Songs,
		float64(m.report.Size)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, line := range m.logs {
		style := dimStyle
		switch {
		case strings.Contains(line, "ERROR"):
			style = errorStyle
		case strings.Contains(line, "WARN"):
			style = warningStyle
		case strings.Contains(line, "INFO"):
			style = infoStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateSelect:
		return "↑/↓: move • space: select • s: shuffle • n: dry run • enter: start • esc: quit"
	case StateGathering, StateTransferring:
		return "esc: cancel"
	case StateReview:
		return "enter: transfer • esc: quit"
	case StateConfirm:
		return "y: continue • n: abort"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

// position returns the 1-based index of name in list, or 0.
func position(list []string, name string) int {
	for i, s := range list {
		if s == name {
			return i + 1
		}
	}
	return 0
}

func toggle(list []string, name string) []string {
	if i := position(list, name); i > 0 {
		return append(list[:i-1:i-1], list[i:]...)
	}
	return append(list, name)
}

// known drops the entries of list that are not in names.
func known(list, names []string) []string {
	var out []string
	for _, s := range list {
		if position(names, s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// bridge lets background work talk to the running program.
type bridge struct {
	program *tea.Program
}

func (b *bridge) send(msg tea.Msg) {
	if b.program != nil {
		b.program.Send(msg)
	}
}

// confirmer asks through the UI and blocks until the operator answers.
func (b *bridge) confirmer() transfer.Confirmer {
	return transfer.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		reply := make(chan bool, 1)
		b.send(ConfirmMsg{Prompt: prompt, Reply: reply})
		select {
		case yes := <-reply:
			return yes, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	})
}

// lineWriter turns written bytes into one LogMsg per line.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	send func(tea.Msg)
}

func newLineWriter(send func(tea.Msg)) *lineWriter {
	return &lineWriter{send: send}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:i]), "\r")
		w.buf = w.buf[i+1:]
		if strings.TrimSpace(line) != "" {
			w.send(LogMsg{Line: line})
		}
	}
	return len(p), nil
}

// Run starts the TUI application with the settings stored at settingsPath.
// An empty path selects config.DefaultSettingsPath.
func Run(settingsPath string) error {
	if settingsPath == "" {
		settingsPath = config.DefaultSettingsPath()
	}

	settings, err := config.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	model := NewModel(settings, settingsPath)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.bridge.program = p

	_, err = p.Run()
	return err
}
