// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects how adaptive colors are resolved.
type Mode int

const (
	ModeAuto  Mode = iota // Detect the terminal background
	ModeDark              // Force dark variants
	ModeLight             // Force light variants
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDark:
		return "dark"
	case ModeLight:
		return "light"
	default:
		return "auto"
	}
}

// ParseMode parses "auto", "dark" or "light" (case-insensitive).
// An empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "dark":
		return ModeDark, nil
	case "light":
		return ModeLight, nil
	default:
		return ModeAuto, fmt.Errorf("unknown theme %q (want auto, dark or light)", s)
	}
}

// ModeNames lists the valid mode spellings.
var ModeNames = []string{"auto", "dark", "light"}

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	Mode         Mode
	IsDark       bool
	ColorProfile termenv.Profile
	Renderer     *lipgloss.Renderer

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// COMMAND PALETTE STYLES
	// ==========================================================================

	PaletteBox           lipgloss.Style
	PalettePrompt        lipgloss.Style
	PaletteInput         lipgloss.Style
	PaletteInputInvalid  lipgloss.Style
	PaletteInputUnknown  lipgloss.Style
	PaletteItem          lipgloss.Style
	PaletteItemSelected  lipgloss.Style
	PaletteMatch         lipgloss.Style
	PaletteMatchSelected lipgloss.Style
	PaletteMore          lipgloss.Style
	PaletteHint          lipgloss.Style
	PaletteSeparator     lipgloss.Style

	// ==========================================================================
	// OUTPUT PANE STYLES
	// ==========================================================================

	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	OutputCommand lipgloss.Style
	OutputText    lipgloss.Style
	OutputMuted   lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme on the default renderer.
func NewTheme(mode Mode) *Theme {
	return NewThemeWithRenderer(lipgloss.DefaultRenderer(), mode)
}

// NewThemeWithRenderer creates a theme whose styles all come from r.
func NewThemeWithRenderer(r *lipgloss.Renderer, mode Mode) *Theme {
	t := &Theme{Renderer: r}
	t.SetMode(mode)
	return t
}

// SetMode switches between detected, dark and light colors and rebuilds
// every style.
func (t *Theme) SetMode(mode Mode) {
	t.Mode = mode
	switch mode {
	case ModeDark:
		t.Renderer.SetHasDarkBackground(true)
	case ModeLight:
		t.Renderer.SetHasDarkBackground(false)
	}
	t.IsDark = t.Renderer.HasDarkBackground()
	t.ColorProfile = t.Renderer.ColorProfile()
	t.initStyles()
}

// initStyles rebuilds every style from DefaultColors.
func (t *Theme) initStyles() {
	s := t.Renderer.NewStyle
	c := DefaultColors

	// Command bar
	t.PaletteBox = s().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c.Accent).Padding(0, 1)
	t.PalettePrompt = s().Foreground(c.Command).Bold(true)
	t.PaletteInput = s().Foreground(c.Text)
	t.PaletteInputInvalid = s().Foreground(c.Invalid)
	t.PaletteInputUnknown = s().Foreground(c.Unknown).Italic(true)
	t.PaletteItem = s().Foreground(c.Secondary)
	t.PaletteItemSelected = s().Foreground(c.Inverse).Background(c.Accent).Bold(true)
	t.PaletteMatch = s().Foreground(c.Command).Bold(true)
	t.PaletteMatchSelected = t.PaletteItemSelected.Underline(true)
	t.PaletteMore = s().Foreground(c.Muted).Italic(true)
	t.PaletteHint = s().Foreground(c.Muted)
	t.PaletteSeparator = s().Foreground(c.Rule)

	// Output pane
	t.Header = s().Bold(true).Foreground(c.Command).Background(c.Chrome).Padding(0, 1)
	t.HeaderTitle = s().Bold(true).Foreground(c.Accent)
	t.OutputCommand = s().Foreground(c.Command)
	t.OutputText = s().Foreground(c.Text)
	t.OutputMuted = s().Foreground(c.Muted).Italic(true)

	// Status bar
	t.StatusBar = s().Background(c.Chrome).Foreground(c.Secondary).Padding(0, 1)
	t.ShortcutKey = s().Foreground(c.Command).Bold(true)
	t.ShortcutDesc = s().Foreground(c.Muted)
	t.Spinner = s().Foreground(c.Accent)

	// Outcomes
	t.SuccessStyle = s().Foreground(c.Valid).Bold(true)
	t.ErrorStyle = s().Foreground(c.Invalid).Bold(true)
	t.WarningStyle = s().Foreground(c.Unknown).Bold(true)
	t.InfoStyle = s().Foreground(c.Command)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode classifies the current width. Narrow layouts drop the
// header summary and the status bar shortcuts.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// =============================================================================
// STATUS RENDERING
// =============================================================================

// RenderSuccess renders a message with the success indicator.
func (t *Theme) RenderSuccess(message string) string {
	return t.SuccessStyle.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders a message with the error indicator.
func (t *Theme) RenderError(message string) string {
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a message with the warning indicator.
func (t *Theme) RenderWarning(message string) string {
	return t.WarningStyle.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders a message with the info indicator.
func (t *Theme) RenderInfo(message string) string {
	return t.InfoStyle.Render(StatusIndicators.Info + " " + message)
}
