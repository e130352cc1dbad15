// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/config"
	"github.com/jeranaias/commander-tui/internal/logging"
	"github.com/jeranaias/commander-tui/internal/ui/palette"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
	"github.com/jeranaias/commander-tui/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// configMsg carries a hot reload result.
type configMsg struct {
	event config.Event
	ok    bool
}

// waitForConfig blocks on the next reload event.
func waitForConfig(events <-chan config.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return configMsg{event: ev, ok: ok}
	}
}

// =============================================================================
// KEYS
// =============================================================================

// KeyMap holds the bindings used while the command line is closed.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Options configure New.
type Options struct {
	// Config is the starting configuration (Default() if nil)
	Config *config.Config

	// ConfigPath is where ":write" saves
	ConfigPath string

	// Theme (a default-renderer theme if nil)
	Theme *styles.Theme

	// Logger receives structured logs (discarded if nil)
	Logger *logging.Logger

	// Reloads delivers hot reload results; nil disables hot reload
	Reloads <-chan config.Event

	// Commands replaces the built-in command set when non-nil
	Commands []commands.Entry[*Session]
}

// Model is the root bubbletea model: an output pane, a status bar and the
// command line.
type Model struct {
	session  *Session
	bar      *palette.Bar[*Session]
	entries  []commands.Entry[*Session]
	built    config.CommanderConfig
	theme    *styles.Theme
	logger   *logging.Logger
	keys     KeyMap
	reloads  <-chan config.Event
	viewport viewport.Model
	spinner  spinner.Model

	width, height int
	shownLines    int
	ticking       bool
	status        string
	quitting      bool
}

// New builds the model and its Commander.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.ThemeMode())
	}
	entries := opts.Commands
	if entries == nil {
		entries = Builtins()
	}

	m := Model{
		session:  NewSession(cfg, opts.ConfigPath, theme, logger.Logger),
		entries:  entries,
		theme:    theme,
		logger:   logger,
		keys:     DefaultKeyMap(),
		reloads:  opts.Reloads,
		viewport: viewport.New(80, 20),
		spinner:  spinner.New(),
		width:    80,
		height:   24,
		status:   "Ready",
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	m.applyView()
	m.layout()
	return m, nil
}

// BuildCommander builds a Commander over entries with the commander settings
// from cfg.
func BuildCommander(cfg *config.Config, entries []commands.Entry[*Session], logger *zap.Logger) (*commands.Commander[*Session], error) {
	return commands.NewBuilder[*Session]().
		WithCommands(entries...).
		WithCaseSensitive(cfg.Commander.CaseSensitive).
		WithMatchPolicy(cfg.Policy()).
		WithPrefixBoost(cfg.Commander.PrefixBoost).
		WithExactMatch(cfg.Commander.ExactMatch).
		WithCloseOnSuccess(cfg.Commander.CloseOnSuccess).
		WithTokenizer(cfg.Tokenizer()).
		WithHistorySize(cfg.Commander.HistorySize).
		WithLogger(logger).
		Build()
}

// Session returns the command context.
func (m Model) Session() *Session {
	return m.session
}

// Bar returns the command line component.
func (m Model) Bar() *palette.Bar[*Session] {
	return m.bar
}

// Init starts listening for config reloads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bar.Init(), waitForConfig(m.reloads))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.session.SetWidth(msg.Width)
		m.bar.SetWidth(msg.Width)

	case tea.KeyMsg:
		if m.bar.Active() {
			var cmd tea.Cmd
			m.bar, cmd = m.bar.Update(msg)
			cmds = append(cmds, cmd)
			break
		}
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		cmds = append(cmds, cmd)
		if !m.bar.Active() {
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case palette.ExecutedMsg:
		cmds = append(cmds, m.handleExecuted(msg)...)
		if m.session.QuitRequested() {
			return m.quit()
		}

	case palette.CancelledMsg:
		m.status = "Ready"

	case JobDoneMsg:
		if m.session.jobs.Finish(msg) {
			if msg.Err != nil {
				m.session.PrintError(fmt.Errorf("job %s (%s): %w", shortID(msg.ID), msg.Label, msg.Err))
			} else {
				m.session.PrintRaw(m.theme.RenderSuccess(fmt.Sprintf("job %s: %s", shortID(msg.ID), msg.Output)))
			}
		}

	case spinner.TickMsg:
		if m.session.jobs.Len() == 0 {
			m.ticking = false
			break
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case configMsg:
		if !msg.ok {
			break
		}
		m.handleReload(msg.event)
		cmds = append(cmds, waitForConfig(m.reloads))

	default:
		if m.bar.Active() {
			var cmd tea.Cmd
			m.bar, cmd = m.bar.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

// handleExecuted reports a command result and drains deferred work.
func (m *Model) handleExecuted(msg palette.ExecutedMsg) []tea.Cmd {
	var cmds []tea.Cmd
	prompt := m.bar.Options().Prompt

	switch {
	case msg.Err == nil:
		m.status = "Ran " + msg.Command

	case errors.Is(msg.Err, commands.ErrEmptyCommand):
		m.status = "Ready"
		return nil

	case commands.IsRegistryError(msg.Err):
		m.session.PrintCommand(prompt, msg.Input)
		m.session.PrintWarning(msg.Err.Error())
		m.status = "Unknown command"

	default:
		var cmdErr *commands.CommandError
		if errors.As(msg.Err, &cmdErr) {
			m.status = fmt.Sprintf("%s failed (%s)", cmdErr.Command, cmdErr.Phase)
		} else {
			m.status = "Error"
		}
		m.session.PrintError(msg.Err)
	}

	pending := m.session.Drain()
	cmds = append(cmds, pending...)
	if m.session.jobs.Len() > 0 && !m.ticking {
		m.ticking = true
		cmds = append(cmds, m.spinner.Tick)
	}

	// Settings may have changed through :set or :theme
	if msg.Err == nil {
		if err := m.apply(); err != nil {
			m.session.PrintError(err)
		}
	}
	return cmds
}

// handleReload swaps in a reloaded configuration.
func (m *Model) handleReload(ev config.Event) {
	if ev.Err != nil {
		m.session.PrintWarning("config reload: " + ev.Err.Error())
		m.status = "Config error"
		return
	}
	m.session.cfg = ev.Config
	if err := m.apply(); err != nil {
		m.session.PrintError(err)
		return
	}
	m.session.PrintRaw(m.theme.RenderInfo("config reloaded"))
	m.status = "Config reloaded"
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.session.jobs.Stop()
	m.logger.Info("quitting")
	return m, tea.Quit
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// apply pushes the session config into the view and rebuilds the Commander
// when its settings changed.
func (m *Model) apply() error {
	cfg := m.session.cfg
	if err := m.logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	if mode := cfg.ThemeMode(); mode != m.theme.Mode {
		m.theme.SetMode(mode)
	}
	if cfg.Commander != m.built {
		if err := m.rebuild(); err != nil {
			return err
		}
	}
	m.applyView()
	return nil
}

// rebuild replaces the Commander and the bar that drives it.
func (m *Model) rebuild() error {
	cfg := m.session.cfg
	c, err := BuildCommander(cfg, m.entries, m.logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to build commands: %w", err)
	}
	m.session.SetCommander(c)
	m.bar = palette.NewBar(c, m.session, m.theme, palette.DefaultOptions())
	m.bar.SetWidth(m.width)
	m.built = cfg.Commander
	m.logger.Debug("commander built", zap.Int("commands", c.Len()), zap.String("policy", cfg.Policy().String()))
	return nil
}

// applyView copies view settings into the bar and the spinner.
func (m *Model) applyView() {
	v := m.session.cfg.View
	m.bar.SetOptions(palette.Options{
		Prompt:   v.Prompt,
		MaxRows:  v.MaxRows,
		ShowHint: v.ShowHint,
	})
	r := m.bar.Renderer()
	r.InputOnTop = v.InputOnTop
	r.HighlightSymbol = v.HighlightSymbol
	r.Border = v.Border
	r.RowFunc = describeRows(m.bar, m.theme)

	m.spinner.Spinner = styles.SpinnerByName(v.Spinner).Spinner()
	m.spinner.Style = m.theme.Spinner
}

// describeRows appends each suggestion's description when the bar has a
// known width and room for it.
func describeRows(b *palette.Bar[*Session], theme *styles.Theme) func(int, string) string {
	return func(i int, row string) string {
		width := b.Renderer().ContentWidth()
		if width == 0 {
			return row
		}
		results := b.Commander().SuggestionResults()
		if i >= len(results) {
			return row
		}
		e, ok := b.Commander().Lookup(results[i].Name)
		if !ok || e.Help().Description == "" {
			return row
		}
		room := width - lipgloss.Width(row) - 2
		if room < 8 {
			return row
		}
		return row + "  " + theme.PaletteHint.Render(util.TruncateWidth(e.Help().Description, room))
	}
}

// =============================================================================
// VIEW
// =============================================================================

// layout sizes the output pane around the header, bar and status line.
func (m *Model) layout() {
	barHeight := 0
	if bar := m.bar.View(); bar != "" {
		barHeight = lipgloss.Height(bar)
	}

	h := m.height - 2 - barHeight
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h

	lines := m.session.Lines()
	if len(lines) != m.shownLines {
		m.viewport.SetContent(strings.Join(lines, "\n"))
		m.viewport.GotoBottom()
		m.shownLines = len(lines)
	}
}

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.headerView(), m.viewport.View()}
	if bar := m.bar.View(); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.statusView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) headerView() string {
	cfg := m.session.cfg
	title := m.theme.HeaderTitle.Render("commander")
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return m.theme.Header.Width(m.width).Render(title)
	}
	info := fmt.Sprintf("  %d commands | %s match", m.bar.Commander().Len(), cfg.Policy())
	return m.theme.Header.Width(m.width).Render(title + info)
}

func (m Model) statusView() string {
	mode := "NORMAL"
	if m.bar.Active() {
		mode = "COMMAND"
	}
	left := m.theme.ShortcutKey.Render(mode) + "  " + m.status

	var right string
	if n := m.session.jobs.Len(); n > 0 {
		right = m.spinner.View() + fmt.Sprintf(" %d job(s)  ", n)
	}
	if !m.bar.Active() && m.theme.GetLayoutMode() != styles.LayoutNarrow {
		right += m.theme.ShortcutKey.Render(":") + m.theme.ShortcutDesc.Render(" command  ") +
			m.theme.ShortcutKey.Render("q") + m.theme.ShortcutDesc.Render(" quit")
	}

	inner := m.width - m.theme.StatusBar.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return m.theme.StatusBar.Width(m.width).Render(line)
}
