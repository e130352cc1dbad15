// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package palette

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY BINDINGS
// =============================================================================

// KeyMap defines the key bindings of the command bar.
type KeyMap struct {
	Activate    key.Binding
	Cancel      key.Binding
	Execute     key.Binding
	Next        key.Binding
	Prev        key.Binding
	Complete    key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
}

// DefaultKeyMap returns the Vim-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Activate: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
		Execute: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+j"),
			key.WithHelp("down", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+k"),
			key.WithHelp("up", "previous"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "older"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "newer"),
		),
	}
}

// ShortHelp returns the bindings shown in the hint line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Execute, k.Complete, k.Prev, k.Next}
}

// FullHelp returns all bindings grouped for a help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Activate, k.Execute, k.Cancel},
		{k.Next, k.Prev, k.Complete},
		{k.HistoryPrev, k.HistoryNext},
	}
}

// HintFor builds a hint line from the short help bindings,
// e.g. "esc cancel | enter run".
func HintFor(k KeyMap) string {
	var hint string
	for _, b := range k.ShortHelp() {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		if hint != "" {
			hint += " | "
		}
		hint += h.Key + " " + h.Desc
	}
	return hint
}
