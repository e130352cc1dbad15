// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// COLOR ROLES
// =============================================================================

// Colors assigns an adaptive color to every role the command bar and the
// output pane draw with. Light variants are used on light backgrounds.
type Colors struct {
	Accent    lipgloss.AdaptiveColor // bar border, selected row, job spinner
	Command   lipgloss.AdaptiveColor // prompt, command names, matched runes
	Valid     lipgloss.AdaptiveColor // command output that succeeded
	Invalid   lipgloss.AdaptiveColor // input whose arguments fail validation
	Unknown   lipgloss.AdaptiveColor // input naming no command
	Text      lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor // unselected suggestions, status bar text
	Muted     lipgloss.AdaptiveColor // hints, "... N more", help descriptions
	Inverse   lipgloss.AdaptiveColor // text on the accent background
	Chrome    lipgloss.AdaptiveColor // header and status bar background
	Rule      lipgloss.AdaptiveColor // separator between input and rows
}

// DefaultColors is the palette every Theme starts from.
var DefaultColors = Colors{
	Accent:    lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"},
	Command:   lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"},
	Valid:     lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"},
	Invalid:   lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"},
	Unknown:   lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"},
	Text:      lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"},
	Secondary: lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"},
	Muted:     lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"},
	Inverse:   lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"},
	Chrome:    lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"},
	Rule:      lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"},
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet prefixes output lines by outcome.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are ASCII so an outcome reads the same without color.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}
