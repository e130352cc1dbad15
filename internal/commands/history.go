// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// DefaultHistorySize is the number of executed inputs remembered per session.
const DefaultHistorySize = 50

// history is a bounded list of executed inputs for the current session only.
// pos == len(entries) means "not navigating".
type history struct {
	entries []string
	max     int
	pos     int
	draft   string
}

func newHistory(max int) *history {
	return &history{max: max}
}

// push records an executed input. Empty inputs and repeats of the newest
// entry are skipped.
func (h *history) push(input string) {
	defer h.reset()
	if h.max <= 0 || input == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == input {
		return
	}
	h.entries = append(h.entries, input)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// previous steps back. current is saved as the draft when navigation starts.
func (h *history) previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos >= len(h.entries) {
		h.pos = len(h.entries)
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// next steps forward, ending at the saved draft.
func (h *history) next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

func (h *history) reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

func (h *history) list() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
