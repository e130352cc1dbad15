// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/config"
	"github.com/jeranaias/commander-tui/internal/match"
	"github.com/jeranaias/commander-tui/internal/ui/palette"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

func asciiTheme() *styles.Theme {
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
	return styles.NewThemeWithRenderer(r, styles.ModeDark)
}

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Theme == nil {
		opts.Theme = asciiTheme()
	}
	m, err := New(opts)
	require.NoError(t, err)
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// run types ":" + line + Enter and delivers the ExecutedMsg. It returns the
// messages produced by whatever the command deferred.
func run(t *testing.T, m Model, line string) (Model, []tea.Msg) {
	t.Helper()
	if m.Bar().Active() {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	require.True(t, m.Bar().Active())
	if line != "" {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	}

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	var after []tea.Msg
	for _, msg := range collect(cmd) {
		exec, ok := msg.(palette.ExecutedMsg)
		if !ok {
			continue
		}
		var next tea.Cmd
		m, next = send(t, m, exec)
		after = append(after, collect(next)...)
	}
	return m, after
}

func output(m Model) string {
	return strings.Join(m.Session().Lines(), "\n")
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())
}

// =============================================================================
// COMMAND ROUND TRIPS
// =============================================================================

func TestModel_EchoByPrefix(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "ech hello world")

	require.Contains(t, m.Session().Lines(), "hello world")
	require.False(t, m.Bar().Active(), "successful command closes the line")
	require.Equal(t, []string{"ech hello world"}, m.Bar().Commander().History())
}

func TestModel_UnknownCommandKeepsLine(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "zzz now")

	out := output(m)
	require.Contains(t, out, ":zzz now")
	require.Contains(t, out, styles.StatusIndicators.Warning)
	require.True(t, m.Bar().Active())
	require.Equal(t, "zzz now", m.Bar().Commander().Input())
}

func TestModel_InvalidArguments(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "count abc")

	out := output(m)
	require.Contains(t, out, styles.StatusIndicators.Error)
	require.Contains(t, out, "count")
	require.True(t, m.Bar().Active())
}

func TestModel_EmptyLineCloses(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "")

	require.False(t, m.Bar().Active())
	require.Empty(t, m.Session().Lines())
}

func TestModel_Count(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "count 5")
	require.Contains(t, m.Session().Lines(), "1 2 3 4 5")
}

func TestModel_History(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "echo a")
	m, _ = run(t, m, "echo b")
	m, _ = run(t, m, "history")

	out := output(m)
	require.Contains(t, out, "1  echo a")
	require.Contains(t, out, "2  echo b")
}

func TestModel_Clear(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "echo a")
	require.NotEmpty(t, m.Session().Lines())
	m, _ = run(t, m, "clear")
	require.Empty(t, m.Session().Lines())
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestModel_GetAndSet(t *testing.T) {
	m := newModel(t, Options{Config: config.Default()})

	m, _ = run(t, m, "get view.max_rows")
	require.Contains(t, m.Session().Lines(), "view.max_rows = 8")

	m, _ = run(t, m, "set view.max_rows 3")
	require.Equal(t, 3, m.Session().Config().View.MaxRows)
	require.Equal(t, 3, m.Bar().Options().MaxRows)

	m, _ = run(t, m, "set view.max_rows many")
	require.Equal(t, 3, m.Session().Config().View.MaxRows)
	require.Contains(t, output(m), "expected an integer")
}

func TestModel_SetRejectsUnknownKeyBeforeRunning(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "set colour red")

	require.Contains(t, output(m), "validate")
	require.True(t, m.Bar().Active())
}

func TestModel_SetMatchPolicyRebuildsCommander(t *testing.T) {
	m := newModel(t, Options{})
	before := m.Bar().Commander()

	m, _ = run(t, m, "set commander.match_policy fuzzy")

	require.Equal(t, match.PolicyFuzzy, m.Session().Config().Policy())
	require.NotSame(t, before, m.Bar().Commander())
	require.Same(t, m.Bar().Commander(), m.Session().Commander())

	// "eho" only reaches echo as a subsequence
	m, _ = run(t, m, "eho hi")
	require.Contains(t, m.Session().Lines(), "hi")
}

func TestModel_Theme(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "theme light")

	require.Equal(t, "light", m.Session().Config().View.Theme)
	require.Equal(t, styles.ModeLight, m.Session().Theme().Mode)
}

func TestModel_Write(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	m := newModel(t, Options{ConfigPath: path})

	m, _ = run(t, m, "set view.prompt /")
	m, _ = run(t, m, "write")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/", loaded.View.Prompt)
}

func TestModel_WriteWithoutPath(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "write")
	require.Contains(t, output(m), ErrNoConfigPath.Error())
}

// =============================================================================
// HELP
// =============================================================================

func TestModel_Help(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = run(t, m, "help")
	out := output(m)
	for _, name := range []string{"quit", "echo", "sleep", "theme"} {
		require.Contains(t, out, name)
	}

	m, _ = run(t, m, "help count")
	require.Contains(t, output(m), "count <n>")

	m, _ = run(t, m, "help nothing")
	require.Contains(t, output(m), `no command named "nothing"`)
}

func TestHelpMarkdown(t *testing.T) {
	md := HelpMarkdown([]commands.CommandInfo{
		{Name: "echo", Help: commands.Help{Usage: "echo [text...]", Description: "Print"}},
		{Name: "bare"},
	})
	require.Contains(t, md, "| echo | `echo [text...]` | Print |")
	require.Contains(t, md, "| bare | `bare` |  |")
}

// =============================================================================
// JOBS AND QUIT
// =============================================================================

func TestModel_SleepRunsInBackground(t *testing.T) {
	m := newModel(t, Options{})

	m, after := run(t, m, "sleep 10ms")
	require.Contains(t, output(m), "started job")
	require.Equal(t, 1, m.Session().Jobs().Len())

	var done *JobDoneMsg
	for _, msg := range after {
		if d, ok := msg.(JobDoneMsg); ok {
			done = &d
		}
	}
	require.NotNil(t, done)
	require.NoError(t, done.Err)

	m, _ = send(t, m, *done)
	require.Equal(t, 0, m.Session().Jobs().Len())
	require.Contains(t, output(m), "slept 10ms")
}

func TestModel_SleepRejectsOutOfRange(t *testing.T) {
	m := newModel(t, Options{})

	m, after := run(t, m, "sleep 2h")
	require.Empty(t, after)
	require.Equal(t, 0, m.Session().Jobs().Len())
}

func TestModel_QuitCommand(t *testing.T) {
	m := newModel(t, Options{})

	m, after := run(t, m, "q")

	require.Contains(t, after, tea.Msg(tea.QuitMsg{}))
	require.Empty(t, m.View())
}

func TestModel_QuitKey(t *testing.T) {
	m := newModel(t, Options{})

	// q while typing is text
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.Equal(t, "q", m.Bar().Commander().Input())
	require.NotEmpty(t, m.View())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.Contains(t, collect(cmd), tea.Msg(tea.QuitMsg{}))
}

// =============================================================================
// RELOAD AND VIEW
// =============================================================================

func TestModel_ConfigReload(t *testing.T) {
	m := newModel(t, Options{})

	cfg := config.Default()
	cfg.View.MaxRows = 2
	cfg.View.InputOnTop = true
	m, _ = send(t, m, configMsg{event: config.Event{Config: cfg}, ok: true})

	require.Equal(t, 2, m.Bar().Options().MaxRows)
	require.True(t, m.Bar().Renderer().InputOnTop)
	require.Contains(t, output(m), "config reloaded")

	m, _ = send(t, m, configMsg{event: config.Event{Err: errors.New("bad toml")}, ok: true})
	require.Contains(t, output(m), "bad toml")
	require.Same(t, cfg, m.Session().Config(), "a failed reload keeps the old config")
}

func TestModel_ConfigReloadStopsWhenClosed(t *testing.T) {
	m := newModel(t, Options{})
	_, cmd := send(t, m, configMsg{ok: false})
	require.Nil(t, cmd)
}

func TestModel_View(t *testing.T) {
	m := newModel(t, Options{})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	view := m.View()
	require.Contains(t, view, "commander")
	require.Contains(t, view, "NORMAL")
	require.Equal(t, 20, lipgloss.Height(view))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	view = m.View()
	require.Contains(t, view, "COMMAND")
	require.Contains(t, view, "echo")
	require.Equal(t, 20, lipgloss.Height(view))
}

func TestModel_SuggestionsShowDescriptions(t *testing.T) {
	m := newModel(t, Options{})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ech")})

	view := m.View()
	require.Contains(t, view, "Print the arguments")
	require.Equal(t, 30, lipgloss.Height(view))
}

func TestModel_ViewNarrow(t *testing.T) {
	m := newModel(t, Options{})

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	view := m.View()
	require.Contains(t, view, "prefix match")
	require.Contains(t, view, "quit")

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	view = m.View()
	require.NotContains(t, view, "prefix match")
	require.NotContains(t, view, "quit")
	require.Equal(t, 20, lipgloss.Height(view))
}

func TestBuildCommander_RejectsDuplicates(t *testing.T) {
	entries := append(Builtins(), commands.Erase[*Session, []string](echoCommand()))
	_, err := BuildCommander(config.Default(), entries, nil)

	var dup *commands.DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "echo", dup.Name)

	_, err = New(Options{Theme: asciiTheme(), Commands: entries})
	require.Error(t, err)
}

// =============================================================================
// TYPED COMMANDS
// =============================================================================

func TestCountCommand(t *testing.T) {
	tests := []struct {
		args  []string
		valid bool
	}{
		{[]string{"3"}, true},
		{[]string{"0"}, true},
		{[]string{"1000"}, true},
		{[]string{"1001"}, false},
		{[]string{"-1"}, false},
		{[]string{"x"}, false},
		{nil, false},
		{[]string{"1", "2"}, false},
	}

	c := countCommand{}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, ","), func(t *testing.T) {
			require.Equal(t, tt.valid, c.IsValid(tt.args))
			_, err := c.Parse(tt.args)
			require.Equal(t, tt.valid, err == nil)
		})
	}
}

func TestSleepCommand(t *testing.T) {
	tests := []struct {
		args  []string
		valid bool
	}{
		{[]string{"1s"}, true},
		{[]string{"250ms"}, true},
		{[]string{"1m"}, true},
		{[]string{"61s"}, false},
		{[]string{"0s"}, false},
		{[]string{"soon"}, false},
		{nil, false},
	}

	c := sleepCommand{}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, ","), func(t *testing.T) {
			require.Equal(t, tt.valid, c.IsValid(tt.args))
			_, err := c.Parse(tt.args)
			require.Equal(t, tt.valid, err == nil)
		})
	}
}

func TestMain(m *testing.M) {
	// Keep user settings out of every test
	for _, k := range []string{"COMMANDER_MATCH", "COMMANDER_THEME", "COMMANDER_LOG_LEVEL", "COMMANDER_LOG_FILE"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}
