// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/commander-tui/internal/app"
	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/config"
)

// =============================================================================
// LINE READERS
// =============================================================================

// LineReader supplies command lines. Prompt returns io.EOF when input ends.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// scanReader reads lines from a non-interactive stream.
type scanReader struct {
	scanner *bufio.Scanner
}

// NewScanReader reads one command per line from r, without prompting.
func NewScanReader(r io.Reader) LineReader {
	return &scanReader{scanner: bufio.NewScanner(r)}
}

func (s *scanReader) Prompt(string) (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scanReader) AppendHistory(string) {}

func (s *scanReader) Close() error { return nil }

// newLiner returns an interactive line editor that completes command names.
func newLiner(p *Plain) *liner.State {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(text string) []string {
		return completeLine(p.Commander, text)
	})
	return line
}

// completeLine offers command names for the first word only.
func completeLine(c *commands.Commander[*app.Session], text string) []string {
	if strings.ContainsAny(text, " \t") {
		return nil
	}
	c.SetInput(text)
	names := c.Suggestions()
	c.ResetInput()
	return names
}

// =============================================================================
// PLAIN MODE
// =============================================================================

// Plain runs command lines without the TUI, printing the session output as
// it is produced. Deferred work runs to completion before the next line.
type Plain struct {
	Commander *commands.Commander[*app.Session]
	Session   *app.Session
	Prompt    string
	Out       io.Writer
	Logger    *zap.Logger

	// Entries are used to rebuild the Commander after ":set commander.*"
	Entries []commands.Entry[*app.Session]

	// Spin shows a spinner on Out while deferred work runs
	Spin bool

	built   config.CommanderConfig
	printed int
}

// NewPlain builds the Commander for session's config over entries.
func NewPlain(session *app.Session, entries []commands.Entry[*app.Session], out io.Writer, logger *zap.Logger) (*Plain, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Plain{
		Session: session,
		Prompt:  session.Config().View.Prompt,
		Out:     out,
		Logger:  logger,
		Entries: entries,
	}
	if err := p.rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

// rebuild replaces the Commander when its settings changed.
func (p *Plain) rebuild() error {
	cfg := p.Session.Config()
	if p.Commander != nil && cfg.Commander == p.built {
		return nil
	}
	c, err := app.BuildCommander(cfg, p.Entries, p.Logger)
	if err != nil {
		return err
	}
	p.Commander = c
	p.Session.SetCommander(c)
	p.built = cfg.Commander
	return nil
}

// Run reads lines until input ends or a command asks to quit.
func (p *Plain) Run(r LineReader) error {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	defer p.Session.Jobs().Stop()

	for {
		line, err := r.Prompt(p.Prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.AppendHistory(line)

		_ = p.Exec(line)
		if p.Session.QuitRequested() {
			return nil
		}
	}
}

// Exec runs one command line and reports the outcome. It returns the error
// from Commander.Execute.
func (p *Plain) Exec(line string) error {
	c := p.Commander
	c.Start()
	c.SetInput(line)
	err := c.Execute(p.Session)
	c.Reset()

	switch commands.OutcomeOf(err) {
	case commands.OutcomeNone, commands.OutcomeSuccess:
	case commands.OutcomeUnknown:
		p.Session.PrintWarning(err.Error())
	default:
		p.Session.PrintError(err)
	}
	p.flush()

	for _, cmd := range p.Session.Drain() {
		p.deliver(p.wait(cmd))
	}

	if err == nil {
		p.Prompt = p.Session.Config().View.Prompt
		if rerr := p.rebuild(); rerr != nil {
			p.Session.PrintError(rerr)
			p.flush()
		}
	}
	return err
}

// wait runs cmd, with a spinner while it blocks when Spin is set.
func (p *Plain) wait(cmd tea.Cmd) tea.Msg {
	if !p.Spin || p.Session.Jobs().Len() == 0 {
		return cmd()
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(p.Out))
	s.Suffix = fmt.Sprintf(" %d job(s) running", p.Session.Jobs().Len())
	s.Start()
	defer s.Stop()
	return cmd()
}

// deliver handles a message produced by deferred work.
func (p *Plain) deliver(msg tea.Msg) {
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, cmd := range msg {
			if cmd != nil {
				p.deliver(cmd())
			}
		}
	case app.JobDoneMsg:
		p.Session.Jobs().Finish(msg)
		if msg.Err != nil {
			p.Session.PrintError(fmt.Errorf("job %s: %w", msg.Label, msg.Err))
		} else {
			p.Session.PrintRaw(p.Session.Theme().RenderSuccess(msg.Output))
		}
		p.flush()
	default:
		p.Logger.Debug("plain mode ignored message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// flush writes output lines not yet printed.
func (p *Plain) flush() {
	lines := p.Session.Lines()
	if len(lines) < p.printed {
		p.printed = 0
	}
	for _, line := range lines[p.printed:] {
		fmt.Fprintln(p.Out, line)
	}
	p.printed = len(lines)
}

func runPlain(cmd *cobra.Command, flags *Flags, e *env) error {
	tty := TerminalFor(cmd)
	theme := tty.Theme(flags.NoColor, e.cfg.ThemeMode())

	session := app.NewSession(e.cfg, e.path, theme, e.logger.Logger)
	session.SetWidth(tty.Width())
	p, err := NewPlain(session, app.Builtins(), tty.Out, e.logger.Logger)
	if err != nil {
		return err
	}

	var reader LineReader
	if tty.Interactive() {
		p.Spin = true
		reader = newLiner(p)
	} else {
		reader = NewScanReader(tty.In)
	}
	defer reader.Close()

	e.logger.Info("starting plain mode", zap.Bool("tty", tty.Interactive()))
	return p.Run(reader)
}
