// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package palette

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

// =============================================================================
// FIXTURES
// =============================================================================

type session struct {
	lines []string
}

func asciiTheme() *styles.Theme {
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
	return styles.NewThemeWithRenderer(r, styles.ModeDark)
}

func simple(name string, defs []commands.ArgDef) commands.Entry[*session] {
	return commands.Erase[*session, []string](commands.Simple[*session]{
		CommandName: name,
		Args:        defs,
		Handler: func(s *session, args []string) error {
			s.lines = append(s.lines, name+":"+strings.Join(args, ","))
			return nil
		},
	})
}

func newCommander(t *testing.T, names ...string) *commands.Commander[*session] {
	t.Helper()
	b := commands.NewBuilder[*session]()
	for _, n := range names {
		b.WithCommand(simple(n, nil))
	}
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

// =============================================================================
// PROJECTION
// =============================================================================

func TestProject_Inactive(t *testing.T) {
	c := newCommander(t, "echo")
	require.Equal(t, Plan{}, Project(c, DefaultOptions()))
}

func TestProject_IsIdempotent(t *testing.T) {
	c := newCommander(t, "echo", "edit", "exit", "quit")
	c.Start()
	c.SetInput("e")
	c.SelectNext()
	c.SelectNext()

	opts := DefaultOptions()
	first := Project(c, opts)
	second := Project(c, opts)
	require.Equal(t, first, second)

	idx, ok := c.Selected()
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, "e", c.Input())
}

func TestProject_Rows(t *testing.T) {
	c := newCommander(t, "echo", "edit", "quit")
	c.Start()
	c.SetInput("e")
	c.SelectNext()

	p := Project(c, DefaultOptions())
	require.True(t, p.Visible)
	require.Equal(t, ":", p.Prompt)
	require.Equal(t, "e", p.Input)
	require.Equal(t, StatusNormal, p.Status)
	require.Equal(t, 2, p.Total)
	require.Equal(t, 0, p.More)
	require.Equal(t, []Row{
		{Name: "echo", Selected: true, Positions: []int{0}},
		{Name: "edit", Positions: []int{0}},
	}, p.Rows)
	require.Equal(t, HintFor(DefaultKeyMap()), p.Hint)
}

func TestProject_Status(t *testing.T) {
	b := commands.NewBuilder[*session]().
		WithExactMatch(true).
		WithCommand(simple("set", []commands.ArgDef{{Name: "key", Required: true}}))
	c, err := b.Build()
	require.NoError(t, err)
	c.Start()

	tests := []struct {
		input    string
		expected Status
	}{
		{"", StatusNormal},
		{"   ", StatusNormal},
		{"set k", StatusNormal},
		{"set", StatusInvalid},
		{"set a b", StatusInvalid},
		{"se", StatusUnknown},
		{"zzz", StatusUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			c.SetInput(tc.input)
			require.Equal(t, tc.expected, Project(c, Options{}).Status)
		})
	}
}

func TestProject_WindowFollowsSelection(t *testing.T) {
	names := []string{"a1", "a2", "a3", "a4", "a5", "a6"}
	c := newCommander(t, names...)
	c.Start()
	opts := Options{MaxRows: 3}

	p := Project(c, opts)
	require.Len(t, p.Rows, 3)
	require.Equal(t, 0, p.Offset)
	require.Equal(t, 3, p.More)
	require.Equal(t, 6, p.Total)

	// Select a5 (index 4)
	for i := 0; i < 5; i++ {
		c.SelectNext()
	}
	p = Project(c, opts)
	require.Equal(t, 2, p.Offset)
	require.Equal(t, 1, p.More)
	require.Equal(t, "a5", p.Rows[2].Name)
	require.True(t, p.Rows[2].Selected)

	// Wrap back to the top
	c.SelectNext()
	c.SelectNext()
	p = Project(c, opts)
	require.Equal(t, 0, p.Offset)
	require.True(t, p.Rows[0].Selected)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		n, sel     int
		hasSel     bool
		max        int
		start, end int
	}{
		{"no cap", 10, 0, false, 0, 0, 10},
		{"fits", 3, 2, true, 5, 0, 3},
		{"top without selection", 10, 0, false, 4, 0, 4},
		{"selection inside", 10, 3, true, 4, 0, 4},
		{"selection below", 10, 6, true, 4, 3, 7},
		{"last", 10, 9, true, 4, 6, 10},
		{"empty", 0, 0, false, 4, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, end := window(tc.n, tc.sel, tc.hasSel, tc.max)
			require.Equal(t, tc.start, start)
			require.Equal(t, tc.end, end)
		})
	}
}

// =============================================================================
// RENDERING
// =============================================================================

func TestRenderer_Plain(t *testing.T) {
	r := NewRenderer(asciiTheme())
	r.Border = false

	p := Plan{
		Visible: true,
		Prompt:  ":",
		Input:   "e",
		Rows: []Row{
			{Name: "echo", Selected: true, Positions: []int{0}},
			{Name: "edit", Positions: []int{0}},
		},
		Total: 5,
		More:  3,
		Hint:  "esc cancel",
	}

	lines := strings.Split(r.Render(p), "\n")
	require.Equal(t, []string{
		"> echo",
		"  edit",
		"  ... 3 more",
		"--------------------",
		":e",
		"esc cancel",
	}, trimRight(lines))
}

func TestRenderer_InputOnTopAndMarkers(t *testing.T) {
	r := NewRenderer(asciiTheme())
	r.Border = false
	r.InputOnTop = true

	out := r.Render(Plan{Visible: true, Prompt: ":", Input: "zzz", Status: StatusUnknown})
	lines := trimRight(strings.Split(out, "\n"))
	require.Equal(t, ":zzz  [!]", lines[0])
	require.Contains(t, out, "no matching commands")

	out = r.Render(Plan{Visible: true, Prompt: ":", Input: "set", Status: StatusInvalid, Total: 1,
		Rows: []Row{{Name: "set"}}})
	lines = trimRight(strings.Split(out, "\n"))
	require.Equal(t, ":set  [X]", lines[0])
	require.Equal(t, "  set", lines[2])
}

func TestRenderer_LineFuncs(t *testing.T) {
	r := NewRenderer(asciiTheme())
	r.Border = false
	r.InputLineFunc = func(line string) string { return "[" + line + "]" }
	r.RowFunc = func(i int, row string) string { return strconv.Itoa(i) + row }

	p := Plan{
		Visible: true,
		Prompt:  ":",
		Input:   "zz",
		Status:  StatusUnknown,
		Rows:    []Row{{Name: "echo"}, {Name: "edit", Selected: true}},
		Offset:  2,
		Total:   4,
	}

	lines := trimRight(strings.Split(r.Render(p), "\n"))
	require.Equal(t, []string{
		"  ... 2 above",
		"2  echo",
		"3> edit",
		"--------------------",
		"[:zz]  [!]",
	}, lines)
}

func TestRenderer_Invisible(t *testing.T) {
	r := NewRenderer(asciiTheme())
	require.Empty(t, r.Render(Plan{}))
}

func TestRenderer_TruncatesToWidth(t *testing.T) {
	r := NewRenderer(asciiTheme())
	r.Border = false
	r.Width = 10

	out := r.Render(Plan{
		Visible: true,
		Prompt:  ":",
		Rows:    []Row{{Name: "write-and-quit-everything", Positions: []int{0, 20}}},
		Total:   1,
	})
	lines := trimRight(strings.Split(out, "\n"))
	require.Equal(t, "  write...", lines[0])
	for _, l := range lines {
		require.LessOrEqual(t, lipgloss.Width(l), 10)
	}
}

func TestRenderer_Border(t *testing.T) {
	r := NewRenderer(asciiTheme())
	r.Width = 30

	out := r.Render(Plan{Visible: true, Prompt: ":", Input: "q"})
	for _, l := range strings.Split(out, "\n") {
		require.Equal(t, 30, lipgloss.Width(l))
	}
	require.Contains(t, out, ":q")
}

func TestHighlight(t *testing.T) {
	base := lipgloss.NewStyle()
	require.Equal(t, "write-quit", highlight("write-quit", []int{0, 6}, base, base))
	require.Equal(t, "日本語", highlight("日本語", []int{1}, base, base))
	require.Equal(t, "", highlight("", nil, base, base))
}

func TestClip(t *testing.T) {
	require.Equal(t, []int{0, 3}, clip([]int{0, 3, 7, 9}, 7))
	require.Nil(t, clip(nil, 4))
}

func trimRight(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l, " ")
	}
	return out
}

// =============================================================================
// BAR
// =============================================================================

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(b *Bar[*session], text string) *Bar[*session] {
	for _, r := range text {
		b, _ = b.Update(runes(string(r)))
	}
	return b
}

func newBar(t *testing.T, c *commands.Commander[*session], s *session) *Bar[*session] {
	t.Helper()
	return NewBar(c, s, asciiTheme(), DefaultOptions())
}

func TestBar_ActivateTypeExecute(t *testing.T) {
	c := newCommander(t, "echo", "quit")
	s := &session{}
	bar := newBar(t, c, s)

	// Keys other than ":" are ignored while inactive
	bar, cmd := bar.Update(runes("x"))
	require.Nil(t, cmd)
	require.False(t, bar.Active())
	require.Empty(t, bar.View())

	bar, _ = bar.Update(runes(":"))
	require.True(t, bar.Active())

	bar = typeText(bar, "ech hi there")
	require.Equal(t, "ech hi there", c.Input())
	require.Equal(t, []string{"echo"}, c.Suggestions())

	bar, cmd = bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(ExecutedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	require.Equal(t, commands.OutcomeSuccess, msg.Outcome)
	require.Equal(t, "echo", msg.Command)
	require.Equal(t, "ech hi there", msg.Input)

	require.Equal(t, []string{"echo:hi,there"}, s.lines)
	require.False(t, bar.Active())
}

func TestBar_FailedExecuteKeepsLine(t *testing.T) {
	c := newCommander(t, "echo")
	bar := newBar(t, c, &session{})

	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "zz")
	bar, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := cmd().(ExecutedMsg)
	var unknown *commands.UnknownCommandError
	require.True(t, errors.As(msg.Err, &unknown))
	require.Equal(t, commands.OutcomeUnknown, msg.Outcome)
	require.True(t, bar.Active())
	require.Equal(t, "zz", c.Input())
	require.Contains(t, bar.View(), "[!]")
}

func TestBar_EnterOnEmptyLineCloses(t *testing.T) {
	c := newCommander(t, "echo")
	bar := newBar(t, c, &session{})

	bar, _ = bar.Update(runes(":"))
	bar, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd().(ExecutedMsg)
	require.Equal(t, commands.OutcomeNone, msg.Outcome)
	require.False(t, bar.Active())
}

func TestBar_CancelAndBackspace(t *testing.T) {
	c := newCommander(t, "echo")
	bar := newBar(t, c, &session{})

	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "ec")
	bar, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.IsType(t, CancelledMsg{}, cmd())
	require.False(t, bar.Active())
	require.Empty(t, c.Input())

	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "e")
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.True(t, bar.Active())
	require.Empty(t, c.Input())
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.False(t, bar.Active())
}

func TestBar_SelectAndComplete(t *testing.T) {
	c := newCommander(t, "echo", "edit", "quit")
	s := &session{}
	bar := newBar(t, c, s)

	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "e")
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	idx, ok := c.Selected()
	require.True(t, ok)
	require.Equal(t, 1, idx)

	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyUp})
	idx, _ = c.Selected()
	require.Equal(t, 0, idx)

	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "echo ", c.Input())

	bar = typeText(bar, "x")
	require.Equal(t, "echo x", c.Input())

	_, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NoError(t, cmd().(ExecutedMsg).Err)
	require.Equal(t, []string{"echo:x"}, s.lines)
}

func TestBar_History(t *testing.T) {
	c, err := commands.NewBuilder[*session]().
		WithCloseOnSuccess(false).
		WithCommand(simple("echo", nil)).
		Build()
	require.NoError(t, err)
	bar := newBar(t, c, &session{})

	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "echo one")
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, bar.Active())
	require.Empty(t, c.Input())

	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	require.Equal(t, "echo one", c.Input())
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Empty(t, c.Input())
}

func TestBar_ViewShowsSuggestions(t *testing.T) {
	c := newCommander(t, "echo", "edit")
	bar := newBar(t, c, &session{})
	bar.SetWidth(40)

	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "e")

	view := bar.View()
	require.Contains(t, view, "echo")
	require.Contains(t, view, "edit")
	require.Contains(t, view, "esc cancel")
	require.Equal(t, view, bar.View())
}

func TestBar_HintFollowsKeys(t *testing.T) {
	c := newCommander(t, "echo")
	bar := newBar(t, c, &session{})
	bar, _ = bar.Update(runes(":"))

	k := DefaultKeyMap()
	k.Cancel = key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "abort"))
	bar.SetKeys(k)

	require.True(t, strings.HasPrefix(bar.Plan().Hint, "ctrl+g abort | enter run"))
	require.Contains(t, bar.View(), "ctrl+g abort")

	opts := bar.Options()
	opts.Hint = "custom"
	bar.SetOptions(opts)
	require.Equal(t, "custom", bar.Plan().Hint)
}

func TestBar_CancelDropsSelectionFirst(t *testing.T) {
	c := newCommander(t, "echo", "edit")
	bar := newBar(t, c, &session{})

	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "e")
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	bar, _ = bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	idx, ok := c.Selected()
	require.True(t, ok)
	require.Equal(t, 1, idx)

	bar, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, cmd)
	require.True(t, bar.Active())
	_, ok = c.Selected()
	require.False(t, ok)
	require.Equal(t, "e", c.Input())

	bar, cmd = bar.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.IsType(t, CancelledMsg{}, cmd())
	require.False(t, bar.Active())
}

func TestBar_LongLineIsNotTruncated(t *testing.T) {
	c := newCommander(t, "echo")
	s := &session{}
	bar := newBar(t, c, s)

	long := strings.Repeat("x", 400)
	bar, _ = bar.Update(runes(":"))
	bar = typeText(bar, "echo "+long)
	require.Equal(t, "echo "+long, c.Input())

	_, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NoError(t, cmd().(ExecutedMsg).Err)
	require.Equal(t, []string{"echo:" + long}, s.lines)
}

func TestKeyMap(t *testing.T) {
	k := DefaultKeyMap()
	require.Len(t, k.FullHelp(), 3)
	hint := HintFor(k)
	require.True(t, strings.HasPrefix(hint, "esc cancel | enter run"))
}

var _ State = (*commands.Commander[*session])(nil)
