// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package palette draws a Commander as a Vim-style command line.
//
// Drawing is split in two. Project reads the Commander and returns a Plan
// (input text, status, the visible window of suggestions). Renderer turns a
// Plan into a lipgloss string. Neither step mutates the Commander, so a frame
// can be drawn any number of times.
//
// Bar wires both into bubbletea: ":" opens it, keys edit the line, Enter runs
// the command and emits ExecutedMsg, Esc closes it.
//
//	bar := palette.NewBar(commander, session, theme, palette.DefaultOptions())
//	bar, cmd = bar.Update(msg)
//	view := bar.View()
package palette
