// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

const (
	// DefaultTerminalWidth is used when Out is not a terminal
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest width output is wrapped to
	MinTerminalWidth = 40
)

// Terminal is the pair of streams a command talks to. Either may be a
// pipe or buffer, in which case it is treated as non-interactive.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// TerminalFor returns cmd's streams (os.Stdin/os.Stdout unless overridden).
func TerminalFor(cmd *cobra.Command) Terminal {
	return Terminal{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
}

// fd returns the descriptor of v when it is a terminal.
func fd(v any) (int, bool) {
	f, ok := v.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	return int(f.Fd()), true
}

// Interactive reports whether In is a terminal. Line mode is used otherwise.
func (t Terminal) Interactive() bool {
	_, ok := fd(t.In)
	return ok
}

// Width returns Out's column count, clamped to MinTerminalWidth.
func (t Terminal) Width() int {
	n, ok := fd(t.Out)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(n)
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// Profile picks the color profile for Out. noColor, NO_COLOR and a
// non-terminal Out give Ascii; FORCE_COLOR gives ANSI256 even when piped.
// See https://no-color.org/ for NO_COLOR.
func (t Terminal) Profile(noColor bool) termenv.Profile {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return termenv.ANSI256
	}
	if _, ok := fd(t.Out); !ok {
		return termenv.Ascii
	}
	return termenv.NewOutput(t.Out).ColorProfile()
}

// Theme builds a theme rendering for Out.
func (t Terminal) Theme(noColor bool, mode styles.Mode) *styles.Theme {
	return NewTheme(t.Out, t.Profile(noColor), mode)
}

// NewTheme builds a theme whose styles render for w with the given profile.
func NewTheme(w io.Writer, profile termenv.Profile, mode styles.Mode) *styles.Theme {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	return styles.NewThemeWithRenderer(r, mode)
}
