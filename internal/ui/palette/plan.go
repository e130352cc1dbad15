// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package palette

import (
	"errors"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/match"
)

// =============================================================================
// STATE
// =============================================================================

// State is the read-only view of a Commander that projection needs.
// *commands.Commander[Ctx] satisfies it for any Ctx.
type State interface {
	IsActive() bool
	Input() string
	SuggestionResults() []match.Result
	Selected() (int, bool)
	CurrentArgsAreValid() (bool, error)
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options control projection.
type Options struct {
	// Prompt is drawn before the input text
	Prompt string

	// MaxRows caps the suggestion panel. Zero means no cap.
	MaxRows int

	// ShowHint adds the key hint line
	ShowHint bool

	// Hint overrides the line built from DefaultKeyMap
	Hint string
}

// DefaultOptions returns the options the demo host starts with.
func DefaultOptions() Options {
	return Options{
		Prompt:   ":",
		MaxRows:  8,
		ShowHint: true,
	}
}

// =============================================================================
// PLAN
// =============================================================================

// Status styles the input line.
type Status int

const (
	StatusNormal  Status = iota // Empty input or a valid command line
	StatusInvalid               // The resolved command rejects the arguments
	StatusUnknown               // The command token matches nothing
)

// String returns a lowercase label.
func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusUnknown:
		return "unknown"
	default:
		return "normal"
	}
}

// Row is one visible suggestion.
type Row struct {
	Name      string
	Selected  bool
	Positions []int // rune indexes of Name to highlight
}

// Plan is everything needed to draw the palette for one frame.
// The zero Plan draws nothing.
type Plan struct {
	Visible bool
	Prompt  string
	Input   string
	Status  Status

	// Rows are the visible window of suggestions
	Rows []Row

	// Offset is the index of Rows[0] among all suggestions
	Offset int

	// Total is the number of suggestions
	Total int

	// More is the number of suggestions below the window
	More int

	Hint string
}

// Project derives a Plan from s. It only reads s, so calling it again
// without an intervening mutation yields an equal Plan.
func Project(s State, opts Options) Plan {
	if !s.IsActive() {
		return Plan{}
	}

	p := Plan{
		Visible: true,
		Prompt:  opts.Prompt,
		Input:   s.Input(),
		Status:  statusOf(s),
	}
	if opts.ShowHint {
		p.Hint = opts.Hint
		if p.Hint == "" {
			p.Hint = HintFor(DefaultKeyMap())
		}
	}

	results := s.SuggestionResults()
	sel, hasSel := s.Selected()
	start, end := window(len(results), sel, hasSel, opts.MaxRows)

	p.Total = len(results)
	p.Offset = start
	p.More = len(results) - end
	if end > start {
		p.Rows = make([]Row, 0, end-start)
	}
	for i := start; i < end; i++ {
		p.Rows = append(p.Rows, Row{
			Name:      results[i].Name,
			Selected:  hasSel && i == sel,
			Positions: results[i].Positions,
		})
	}
	return p
}

// statusOf maps validity to an input style.
func statusOf(s State) Status {
	valid, err := s.CurrentArgsAreValid()
	switch {
	case errors.Is(err, commands.ErrEmptyCommand):
		return StatusNormal
	case err != nil:
		var unknown *commands.UnknownCommandError
		if errors.As(err, &unknown) {
			return StatusUnknown
		}
		return StatusInvalid
	case !valid:
		return StatusInvalid
	default:
		return StatusNormal
	}
}

// window returns the [start, end) slice of n suggestions to show so that the
// selection, if any, is visible. Without a selection the window is the top.
func window(n, sel int, hasSel bool, maxRows int) (int, int) {
	if maxRows <= 0 || n <= maxRows {
		return 0, n
	}
	start := 0
	if hasSel && sel >= maxRows {
		start = sel - maxRows + 1
	}
	return start, start + maxRows
}
