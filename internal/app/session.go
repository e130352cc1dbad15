// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/config"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the context every command receives. Commands write output and
// queue background work through it; the host drains both after each run.
//
// A Session is only touched from the UI loop.
type Session struct {
	cfg        *config.Config
	configPath string
	theme      *styles.Theme
	jobs       *Jobs
	logger     *zap.Logger
	commander  *commands.Commander[*Session]

	lines   []string
	pending []tea.Cmd
	quit    bool
	width   int
}

// NewSession creates a session. A nil logger disables logging.
func NewSession(cfg *config.Config, configPath string, theme *styles.Theme, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		cfg:        cfg,
		configPath: configPath,
		theme:      theme,
		jobs:       NewJobs(logger),
		logger:     logger,
		width:      80,
	}
}

// Config returns the live configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// ConfigPath returns the file ":write" saves to.
func (s *Session) ConfigPath() string {
	return s.configPath
}

// Theme returns the active theme.
func (s *Session) Theme() *styles.Theme {
	return s.theme
}

// Jobs returns the background job tracker.
func (s *Session) Jobs() *Jobs {
	return s.jobs
}

// Commander returns the commander this session is driven by.
func (s *Session) Commander() *commands.Commander[*Session] {
	return s.commander
}

// SetCommander attaches the commander so commands can list their peers.
func (s *Session) SetCommander(c *commands.Commander[*Session]) {
	s.commander = c
}

// SetWidth records the output width for commands that wrap text.
func (s *Session) SetWidth(width int) {
	if width > 0 {
		s.width = width
	}
}

// Width returns the output width.
func (s *Session) Width() int {
	return s.width
}

// =============================================================================
// OUTPUT
// =============================================================================

// Print appends text to the output pane, one entry per line.
func (s *Session) Print(text string) {
	for _, line := range strings.Split(text, "\n") {
		s.lines = append(s.lines, s.theme.OutputText.Render(line))
	}
}

// Printf formats and prints.
func (s *Session) Printf(format string, args ...any) {
	s.Print(fmt.Sprintf(format, args...))
}

// PrintRaw appends text that is already styled.
func (s *Session) PrintRaw(text string) {
	s.lines = append(s.lines, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
}

// PrintCommand echoes an executed command line.
func (s *Session) PrintCommand(prompt, input string) {
	s.lines = append(s.lines, s.theme.OutputCommand.Render(prompt+input))
}

// PrintError reports an error line.
func (s *Session) PrintError(err error) {
	s.lines = append(s.lines, s.theme.RenderError(err.Error()))
}

// PrintWarning reports a warning line.
func (s *Session) PrintWarning(msg string) {
	s.lines = append(s.lines, s.theme.RenderWarning(msg))
}

// Clear empties the output pane.
func (s *Session) Clear() {
	s.lines = nil
}

// Lines returns the output pane contents.
func (s *Session) Lines() []string {
	return s.lines
}

// =============================================================================
// DEFERRED WORK
// =============================================================================

// Defer queues cmd to run after the current command returns.
func (s *Session) Defer(cmd tea.Cmd) {
	if cmd != nil {
		s.pending = append(s.pending, cmd)
	}
}

// Quit asks the host to exit once the current command returns.
func (s *Session) Quit() {
	s.quit = true
}

// QuitRequested reports whether a command asked to exit.
func (s *Session) QuitRequested() bool {
	return s.quit
}

// Drain returns and clears the queued commands.
func (s *Session) Drain() []tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return cmds
}
