// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package palette

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ExecutedMsg reports the result of running the command line.
type ExecutedMsg struct {
	// Input is the command line as typed
	Input string

	// Command is the resolved command name ("" if nothing resolved)
	Command string

	// Err is the error returned by Commander.Execute
	Err error

	// Outcome classifies Err
	Outcome commands.Outcome
}

// CancelledMsg reports that the bar was dismissed without running anything.
type CancelledMsg struct{}

// =============================================================================
// COMMAND BAR
// =============================================================================

// Bar is a bubbletea component that drives a Commander from key events and
// draws it with a Renderer.
//
// The Commander owns the command line; the text field mirrors it for
// cursor handling and editing keys.
type Bar[Ctx any] struct {
	commander *commands.Commander[Ctx]
	ctx       Ctx

	input    textinput.Model
	keys     KeyMap
	renderer *Renderer
	opts     Options
}

// NewBar creates a bar over commander. ctx is passed to every command.
func NewBar[Ctx any](commander *commands.Commander[Ctx], ctx Ctx, theme *styles.Theme, opts Options) *Bar[Ctx] {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0 // the Commander buffer is unbounded
	ti.PlaceholderStyle = theme.PaletteHint
	ti.TextStyle = theme.PaletteInput

	return &Bar[Ctx]{
		commander: commander,
		ctx:       ctx,
		input:     ti,
		keys:      DefaultKeyMap(),
		renderer:  NewRenderer(theme),
		opts:      opts,
	}
}

// Commander returns the driven Commander.
func (b *Bar[Ctx]) Commander() *commands.Commander[Ctx] {
	return b.commander
}

// Keys returns the key bindings.
func (b *Bar[Ctx]) Keys() KeyMap {
	return b.keys
}

// SetKeys replaces the key bindings.
func (b *Bar[Ctx]) SetKeys(k KeyMap) {
	b.keys = k
}

// Renderer returns the renderer so the host can adjust layout.
func (b *Bar[Ctx]) Renderer() *Renderer {
	return b.renderer
}

// SetOptions replaces the projection options.
func (b *Bar[Ctx]) SetOptions(opts Options) {
	b.opts = opts
}

// Options returns the projection options.
func (b *Bar[Ctx]) Options() Options {
	return b.opts
}

// SetWidth sets the total width available to the bar.
func (b *Bar[Ctx]) SetWidth(width int) {
	b.renderer.Width = width
	if w := width - 8; w > 0 {
		b.input.Width = w
	}
}

// Active reports whether the bar is capturing keys.
func (b *Bar[Ctx]) Active() bool {
	return b.commander.IsActive()
}

// Activate opens the bar with an empty command line.
func (b *Bar[Ctx]) Activate() tea.Cmd {
	b.commander.Start()
	b.commander.ResetInput()
	b.sync()
	return b.input.Focus()
}

// Deactivate closes the bar and discards the command line.
func (b *Bar[Ctx]) Deactivate() {
	b.commander.Reset()
	b.input.Reset()
	b.input.Blur()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the bar.
func (b *Bar[Ctx]) Init() tea.Cmd {
	return nil
}

// Update handles a message. When inactive only the activate key is handled.
func (b *Bar[Ctx]) Update(msg tea.Msg) (*Bar[Ctx], tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if !b.commander.IsActive() {
		if isKey && key.Matches(keyMsg, b.keys.Activate) {
			return b, b.Activate()
		}
		return b, nil
	}

	if !isKey {
		var cmd tea.Cmd
		b.input, cmd = b.input.Update(msg)
		return b, cmd
	}

	switch {
	case key.Matches(keyMsg, b.keys.Cancel):
		// A selection is dropped first, falling back to the best match
		if _, ok := b.commander.Selected(); ok {
			b.commander.ClearSelection()
			return b, nil
		}
		b.Deactivate()
		return b, func() tea.Msg { return CancelledMsg{} }

	case key.Matches(keyMsg, b.keys.Execute):
		return b, b.execute()

	case key.Matches(keyMsg, b.keys.Next):
		b.commander.SelectNext()
		return b, nil

	case key.Matches(keyMsg, b.keys.Prev):
		b.commander.SelectPrevious()
		return b, nil

	case key.Matches(keyMsg, b.keys.Complete):
		if b.commander.CompleteSelection() {
			b.sync()
		}
		return b, nil

	case key.Matches(keyMsg, b.keys.HistoryPrev):
		if b.commander.HistoryPrevious() {
			b.sync()
		}
		return b, nil

	case key.Matches(keyMsg, b.keys.HistoryNext):
		if b.commander.HistoryNext() {
			b.sync()
		}
		return b, nil

	case keyMsg.Type == tea.KeyBackspace && b.commander.Input() == "":
		// Backspace on an empty line leaves command mode, as in Vim
		b.Deactivate()
		return b, func() tea.Msg { return CancelledMsg{} }
	}

	before := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if after := b.input.Value(); after != before {
		b.commander.SetInput(after)
	}
	return b, cmd
}

// View renders the bar, or "" when inactive.
func (b *Bar[Ctx]) View() string {
	plan := b.Plan()
	if !plan.Visible {
		return ""
	}
	b.input.TextStyle = b.renderer.InputStyle(plan.Status)
	line := b.renderer.Theme.PalettePrompt.Render(plan.Prompt) + b.input.View()
	return b.renderer.RenderWith(plan, line)
}

// Plan projects the current state. The hint follows the bar's key map
// unless Options.Hint is set.
func (b *Bar[Ctx]) Plan() Plan {
	opts := b.opts
	if opts.Hint == "" {
		opts.Hint = HintFor(b.keys)
	}
	return Project(b.commander, opts)
}

// =============================================================================
// INTERNAL METHODS
// =============================================================================

// execute runs the command line and reports the result as an ExecutedMsg.
// The handler runs here, on the UI loop.
func (b *Bar[Ctx]) execute() tea.Cmd {
	input := b.commander.Input()
	name, _ := b.commander.Resolve()

	err := b.commander.Execute(b.ctx)

	switch {
	case errors.Is(err, commands.ErrEmptyCommand):
		b.Deactivate()
	case err != nil:
		// keep the line so it can be fixed
	case b.commander.IsActive():
		b.sync()
	default:
		b.input.Reset()
		b.input.Blur()
	}

	msg := ExecutedMsg{
		Input:   input,
		Command: name,
		Err:     err,
		Outcome: commands.OutcomeOf(err),
	}
	return func() tea.Msg { return msg }
}

// sync copies the Commander's input into the text field, cursor at the end.
func (b *Bar[Ctx]) sync() {
	b.input.SetValue(b.commander.Input())
	b.input.CursorEnd()
}
