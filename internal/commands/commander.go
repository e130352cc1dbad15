// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jeranaias/commander-tui/internal/match"
)

// =============================================================================
// COMMANDER
// =============================================================================

// Commander is the command registry together with one input session.
//
// The registry (names, entries, matcher settings) is fixed by Build and may be
// read from any goroutine. The session state (input buffer, active flag,
// selection, history) belongs to the host's UI loop and is not synchronized.
//
// State machine:
//
//	Inactive --Start()--> Active
//	Active --Reset() or successful Execute() with close-on-success--> Inactive
type Commander[Ctx any] struct {
	// Registry, fixed after Build
	entries        map[string]Entry[Ctx]
	names          []string
	caseSensitive  bool
	closeOnSuccess bool
	exactMatch     bool
	tokenize       Tokenizer
	matcher        match.Matcher
	log            *zap.Logger

	// Session state
	input    []byte
	active   bool
	selected int // -1 means no selection: use the best match
	history  *history
}

// CommandInfo describes a registered command for listings.
type CommandInfo struct {
	Name string
	Help Help
}

// key maps a name to its registry key.
func (c *Commander[Ctx]) key(name string) string {
	if c.caseSensitive {
		return name
	}
	return foldKey(name)
}

// =============================================================================
// REGISTRY QUERIES
// =============================================================================

// Names returns the registered names in registration order.
func (c *Commander[Ctx]) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of registered commands.
func (c *Commander[Ctx]) Len() int {
	return len(c.names)
}

// Has reports whether name is registered (per the case rule).
func (c *Commander[Ctx]) Has(name string) bool {
	_, ok := c.entries[c.key(name)]
	return ok
}

// Lookup returns the entry registered under name (per the case rule).
func (c *Commander[Ctx]) Lookup(name string) (Entry[Ctx], bool) {
	e, ok := c.entries[c.key(name)]
	return e, ok
}

// Commands lists registered commands with their help, in registration order.
func (c *Commander[Ctx]) Commands() []CommandInfo {
	out := make([]CommandInfo, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, CommandInfo{Name: name, Help: c.entries[c.key(name)].Help()})
	}
	return out
}

// =============================================================================
// ACTIVE FLAG
// =============================================================================

// Start activates the input session.
func (c *Commander[Ctx]) Start() {
	c.active = true
}

// Reset deactivates the session and clears the input and selection.
// Work already dispatched by command handlers is not affected.
func (c *Commander[Ctx]) Reset() {
	c.active = false
	c.clearInput()
	c.history.reset()
}

// IsActive reports whether the host should route keystrokes to the session.
func (c *Commander[Ctx]) IsActive() bool {
	return c.active
}

// =============================================================================
// INPUT BUFFER
// =============================================================================

// Input returns the raw input text.
func (c *Commander[Ctx]) Input() string {
	return string(c.input)
}

// SetInput replaces the input text.
func (c *Commander[Ctx]) SetInput(text string) {
	c.input = append(c.input[:0], text...)
	c.selected = -1
}

// PushChar appends one rune to the input.
func (c *Commander[Ctx]) PushChar(r rune) {
	c.input = utf8.AppendRune(c.input, r)
	c.selected = -1
}

// Backspace removes the last rune of the input, if any.
func (c *Commander[Ctx]) Backspace() {
	if len(c.input) == 0 {
		return
	}
	_, size := utf8.DecodeLastRune(c.input)
	c.input = c.input[:len(c.input)-size]
	c.selected = -1
}

// ResetInput clears the input and the selection.
func (c *Commander[Ctx]) ResetInput() {
	c.clearInput()
}

func (c *Commander[Ctx]) clearInput() {
	c.input = c.input[:0]
	c.selected = -1
}

// =============================================================================
// SUGGESTIONS & SELECTION
// =============================================================================

// Suggestions returns the ranked command names for the current command
// token. With no token every name is returned in registration order.
// Argument tokens never affect suggestions.
func (c *Commander[Ctx]) Suggestions() []string {
	return match.Names(c.SuggestionResults())
}

// SuggestionResults is Suggestions with scores and matched positions.
func (c *Commander[Ctx]) SuggestionResults() []match.Result {
	token, _ := splitCommand(c.Input())
	return c.matcher.Rank(token, c.names)
}

// Selected returns the selected suggestion index, if any.
func (c *Commander[Ctx]) Selected() (int, bool) {
	if c.selected < 0 {
		return 0, false
	}
	if c.selected >= len(c.SuggestionResults()) {
		return 0, false
	}
	return c.selected, true
}

// SelectNext moves the selection down, wrapping to the first suggestion.
// With no selection it selects the first suggestion. No-op when there are
// no suggestions.
func (c *Commander[Ctx]) SelectNext() {
	n := len(c.SuggestionResults())
	if n == 0 {
		c.selected = -1
		return
	}
	if c.selected < 0 || c.selected >= n-1 {
		c.selected = 0
		return
	}
	c.selected++
}

// SelectPrevious moves the selection up, wrapping to the last suggestion.
// With no selection it selects the last suggestion. No-op when there are
// no suggestions.
func (c *Commander[Ctx]) SelectPrevious() {
	n := len(c.SuggestionResults())
	if n == 0 {
		c.selected = -1
		return
	}
	if c.selected <= 0 || c.selected >= n {
		c.selected = n - 1
		return
	}
	c.selected--
}

// ClearSelection drops the selection so the best match is used again.
func (c *Commander[Ctx]) ClearSelection() {
	c.selected = -1
}

// CompleteSelection replaces the command token with the selected suggestion
// (or the best one when nothing is selected), keeping the argument text.
// Returns false if there is nothing to complete to.
func (c *Commander[Ctx]) CompleteSelection() bool {
	results := c.SuggestionResults()
	if len(results) == 0 {
		return false
	}

	idx := 0
	if c.selected >= 0 && c.selected < len(results) {
		idx = c.selected
	}

	_, rest := splitCommand(c.Input())
	c.SetInput(results[idx].Name + " " + rest)
	return true
}

// =============================================================================
// RESOLUTION
// =============================================================================

// resolve picks the command the current input refers to. Validity checks and
// Execute both go through here, so what is highlighted as valid is what runs.
//
// Order: explicit selection, exact name, then (unless exact-match mode) the
// top-ranked suggestion.
func (c *Commander[Ctx]) resolve() (Entry[Ctx], []string, error) {
	token, rest := splitCommand(c.Input())
	if token == "" {
		return Entry[Ctx]{}, nil, ErrEmptyCommand
	}
	args := c.tokenize(rest)

	if c.selected >= 0 {
		if results := c.SuggestionResults(); c.selected < len(results) {
			return c.entries[c.key(results[c.selected].Name)], args, nil
		}
	}

	if e, ok := c.entries[c.key(token)]; ok {
		return e, args, nil
	}

	if !c.exactMatch {
		if results := c.matcher.Rank(token, c.names); len(results) > 0 {
			return c.entries[c.key(results[0].Name)], args, nil
		}
	}

	return Entry[Ctx]{}, args, &UnknownCommandError{Name: token}
}

// Resolve returns the name of the command Execute would run right now.
func (c *Commander[Ctx]) Resolve() (string, error) {
	e, _, err := c.resolve()
	if err != nil {
		return "", err
	}
	return e.Name(), nil
}

// CurrentArgsAreValid runs the resolved command's IsValid over the current
// argument tokens. It returns ErrEmptyCommand for empty input and an
// *UnknownCommandError when nothing resolves.
func (c *Commander[Ctx]) CurrentArgsAreValid() (bool, error) {
	e, args, err := c.resolve()
	if err != nil {
		return false, err
	}
	return e.IsValid(args), nil
}

// IsUnknownCommand reports whether the current token resolves to nothing.
func (c *Commander[Ctx]) IsUnknownCommand() bool {
	_, _, err := c.resolve()
	var unknown *UnknownCommandError
	return errors.As(err, &unknown)
}

// =============================================================================
// EXECUTION
// =============================================================================

// Execute runs the command the input resolves to with ctx.
//
// Errors:
//   - ErrEmptyCommand: the input is empty or whitespace only
//   - *UnknownCommandError: nothing matches the command token
//   - *CommandError: IsValid, Parse or Execute of the command failed
//
// No handler is invoked unless IsValid and Parse both succeed. On success the
// input is recorded in the session history and cleared, and the session is
// deactivated when close-on-success is set. On failure the input is kept so
// the user can fix it.
func (c *Commander[Ctx]) Execute(ctx Ctx) error {
	input := strings.TrimSpace(c.Input())

	entry, args, err := c.resolve()
	if err != nil {
		c.log.Debug("command not resolved", zap.String("input", input), zap.Error(err))
		return err
	}
	name := entry.Name()

	if !entry.IsValid(args) {
		// Parse is only consulted for a descriptive reason; the handler
		// never runs.
		reason := ErrInvalidArguments
		if _, perr := entry.cell.parse(entry.cell, args); perr != nil {
			reason = perr
		}
		err := &CommandError{Command: name, Phase: PhaseValidate, Err: reason}
		c.log.Debug("command arguments rejected", zap.String("command", name), zap.Error(err))
		return err
	}

	prepared, err := entry.Parse(args)
	if err != nil {
		c.log.Debug("command parse failed", zap.String("command", name), zap.Error(err))
		return err
	}

	if err := entry.Run(ctx, prepared); err != nil {
		c.log.Warn("command failed", zap.String("command", name), zap.Error(err))
		return err
	}

	c.log.Debug("command executed", zap.String("command", name), zap.Int("args", len(args)))

	c.history.push(input)
	c.clearInput()
	if c.closeOnSuccess {
		c.active = false
	}
	return nil
}

// =============================================================================
// HISTORY
// =============================================================================

// HistoryPrevious replaces the input with the previous executed input.
// Returns false when there is no history.
func (c *Commander[Ctx]) HistoryPrevious() bool {
	text, ok := c.history.previous(c.Input())
	if ok {
		c.SetInput(text)
	}
	return ok
}

// HistoryNext replaces the input with the next executed input, ending at
// the text that was being typed before navigation started.
func (c *Commander[Ctx]) HistoryNext() bool {
	text, ok := c.history.next()
	if ok {
		c.SetInput(text)
	}
	return ok
}

// History returns this session's executed inputs, oldest first.
func (c *Commander[Ctx]) History() []string {
	return c.history.list()
}
