// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the commander TUI.

# Colors (colors.go)

Colors are assigned by role in DefaultColors. Every role is a Lip Gloss
AdaptiveColor, so one palette serves light and dark terminals. Accent draws
the bar border and the selected row. Command draws the prompt and names.
Invalid and Unknown tint the input while it cannot run.

Status indicators are ASCII ([OK], [X], [!], [i]) so state is readable without
color.

# Theme (theme.go)

A Theme binds every style to one lipgloss.Renderer. The renderer decides the
color profile and whether AdaptiveColor resolves to its light or dark variant.
Mode forces the choice or leaves it to terminal detection:

	theme := styles.NewTheme(styles.ModeAuto)
	theme.SetMode(styles.ModeLight)

Tests build themes on an Ascii renderer so rendered text carries no escape
sequences:

	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
	theme := styles.NewThemeWithRenderer(r, styles.ModeDark)

# Spinners (animations.go)

Spinner frame sets are ASCII, looked up by the view.spinner config value with
SpinnerByName, and convert to bubbles spinner.Spinner values for the
background job indicator.
*/
package styles
