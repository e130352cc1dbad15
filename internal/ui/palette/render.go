// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package palette

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/commander-tui/internal/ui/styles"
	"github.com/jeranaias/commander-tui/internal/util"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer draws a Plan with lipgloss. It holds no session state.
type Renderer struct {
	Theme *styles.Theme

	// Width is the total width including the border. Zero means natural width.
	Width int

	// InputOnTop draws the input line above the suggestions (Vim draws it
	// below, at the bottom of the screen).
	InputOnTop bool

	// HighlightSymbol marks the selected row
	HighlightSymbol string

	// Border wraps the palette in the theme's box
	Border bool

	// InputLineFunc, if set, rewrites the styled input line (prompt and
	// text) before the status marker is appended.
	InputLineFunc func(line string) string

	// RowFunc, if set, rewrites each styled suggestion row. i is the row's
	// index among all suggestions, not within the visible window.
	RowFunc func(i int, row string) string
}

// NewRenderer creates a renderer with the default layout.
func NewRenderer(theme *styles.Theme) *Renderer {
	return &Renderer{
		Theme:           theme,
		HighlightSymbol: "> ",
		Border:          true,
	}
}

// Render draws p. An invisible plan renders as "".
func (r *Renderer) Render(p Plan) string {
	if !p.Visible {
		return ""
	}
	return r.RenderWith(p, r.inputLine(p))
}

// RenderWith draws p using inputLine in place of the plain input text, so a
// live text field (with its cursor) can be embedded.
func (r *Renderer) RenderWith(p Plan, inputLine string) string {
	if !p.Visible {
		return ""
	}
	t := r.Theme
	width := r.ContentWidth()

	if r.InputLineFunc != nil {
		inputLine = r.InputLineFunc(inputLine)
	}
	if marker := r.statusMarker(p.Status); marker != "" {
		inputLine += "  " + marker
	}

	var list []string
	if p.Offset > 0 {
		list = append(list, t.PaletteMore.Render("  ... "+strconv.Itoa(p.Offset)+" above"))
	}
	for i, row := range p.Rows {
		line := r.renderRow(row, width)
		if r.RowFunc != nil {
			line = r.RowFunc(p.Offset+i, line)
		}
		list = append(list, line)
	}
	if p.More > 0 {
		list = append(list, t.PaletteMore.Render("  ... "+strconv.Itoa(p.More)+" more"))
	}
	if p.Total == 0 && p.Input != "" {
		list = append(list, t.PaletteMore.Render("  no matching commands"))
	}

	var parts []string
	if r.InputOnTop {
		parts = append(parts, inputLine)
		if len(list) > 0 {
			parts = append(parts, r.separator(width))
			parts = append(parts, list...)
		}
	} else {
		if len(list) > 0 {
			parts = append(parts, list...)
			parts = append(parts, r.separator(width))
		}
		parts = append(parts, inputLine)
	}
	if p.Hint != "" {
		hint := p.Hint
		if width > 0 {
			hint = util.TruncateWidth(hint, width)
		}
		parts = append(parts, t.PaletteHint.Render(hint))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if !r.Border {
		return content
	}

	box := t.PaletteBox
	if r.Width > 0 {
		box = box.Width(r.Width - box.GetHorizontalBorderSize())
	}
	return box.Render(content)
}

// InputStyle returns the style for the input text in the given status.
func (r *Renderer) InputStyle(s Status) lipgloss.Style {
	switch s {
	case StatusInvalid:
		return r.Theme.PaletteInputInvalid
	case StatusUnknown:
		return r.Theme.PaletteInputUnknown
	default:
		return r.Theme.PaletteInput
	}
}

// =============================================================================
// INTERNAL METHODS
// =============================================================================

// ContentWidth is the width inside the border, or 0 when unconstrained.
func (r *Renderer) ContentWidth() int {
	if r.Width <= 0 {
		return 0
	}
	w := r.Width
	if r.Border {
		w -= r.Theme.PaletteBox.GetHorizontalFrameSize()
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (r *Renderer) inputLine(p Plan) string {
	return r.Theme.PalettePrompt.Render(p.Prompt) + r.InputStyle(p.Status).Render(p.Input)
}

func (r *Renderer) statusMarker(s Status) string {
	switch s {
	case StatusInvalid:
		return r.Theme.ErrorStyle.Render(styles.StatusIndicators.Error)
	case StatusUnknown:
		return r.Theme.WarningStyle.Render(styles.StatusIndicators.Warning)
	default:
		return ""
	}
}

func (r *Renderer) separator(width int) string {
	if width <= 0 {
		width = 20
	}
	return r.Theme.PaletteSeparator.Render(strings.Repeat("-", width))
}

// renderRow draws one suggestion with its matched runes highlighted.
func (r *Renderer) renderRow(row Row, width int) string {
	t := r.Theme

	indicator := strings.Repeat(" ", util.StringWidth(r.HighlightSymbol))
	base, hit := t.PaletteItem, t.PaletteMatch
	if row.Selected {
		indicator = r.HighlightSymbol
		base, hit = t.PaletteItemSelected, t.PaletteMatchSelected
	}

	name, positions := row.Name, row.Positions
	if width > 0 {
		name = util.TruncateWidth(name, width-util.StringWidth(indicator))
		if name != row.Name {
			positions = clip(positions, utf8.RuneCountInString(strings.TrimSuffix(name, util.Ellipsis)))
		}
	}

	return indicator + highlight(name, positions, base, hit)
}

// clip drops positions at or beyond limit.
func clip(positions []int, limit int) []int {
	var out []int
	for _, p := range positions {
		if p < limit {
			out = append(out, p)
		}
	}
	return out
}

// highlight renders runs of matched and unmatched runes with their styles.
// Positions beyond a truncated name are ignored.
func highlight(name string, positions []int, base, hit lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(name)
	}

	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	var (
		out    strings.Builder
		run    []rune
		inHit  bool
		runeAt int
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		if inHit {
			out.WriteString(hit.Render(string(run)))
		} else {
			out.WriteString(base.Render(string(run)))
		}
		run = run[:0]
	}

	for _, ch := range name {
		isHit := matched[runeAt]
		if isHit != inHit {
			flush()
			inHit = isHit
		}
		run = append(run, ch)
		runeAt++
	}
	flush()
	return out.String()
}
