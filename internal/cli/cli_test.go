// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/commander-tui/internal/app"
	"github.com/jeranaias/commander-tui/internal/config"
	"github.com/jeranaias/commander-tui/internal/logging"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.HomeEnv, dir)
	for _, k := range []string{"COMMANDER_MATCH", "COMMANDER_THEME", "COMMANDER_LOG_LEVEL", "COMMANDER_LOG_FILE"} {
		t.Setenv(k, "")
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func newPlain(t *testing.T, out io.Writer) *Plain {
	t.Helper()
	theme := NewTheme(io.Discard, termenv.Ascii, styles.ModeDark)
	session := app.NewSession(config.Default(), "", theme, nil)
	p, err := NewPlain(session, app.Builtins(), out, nil)
	require.NoError(t, err)
	return p
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Contains(t, out, "commander "+Version)
}

func TestConfigInitShowPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sub", "config.toml")

	out, err := execute(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+path)

	_, err = execute(t, "", "config", "init", "--config", path)
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "", "config", "init", "--force", "--config", path)
	require.NoError(t, err)

	out, err = execute(t, "", "config", "show", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "[commander]")

	out, err = execute(t, "", "config", "path", "--config", path)
	require.NoError(t, err)
	require.Equal(t, path+"\n", out)

	out, err = execute(t, "", "config", "path")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)
}

func TestConfigKeys(t *testing.T) {
	out, err := execute(t, "", "config", "keys")
	require.NoError(t, err)
	require.Equal(t, config.Keys(), strings.Fields(out))
}

func TestCommandsList(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "commands")
	require.NoError(t, err)
	require.Contains(t, out, "echo [text...]")
	require.Contains(t, out, "Exit the application")

	out, err = execute(t, "", "commands", "--markdown")
	require.NoError(t, err)
	require.Contains(t, out, "| quit | `quit` |")
}

func TestRoot_BadLogLevel(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "--plain", "--log-level", "loud")
	require.ErrorContains(t, err, "--log-level")
}

func TestRoot_PlainFromStdin(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "echo hi\ncount 3\nquit\necho never\n",
		"--plain", "--no-color", "--log-level", "debug")
	require.NoError(t, err)
	require.Contains(t, out, "hi\n")
	require.Contains(t, out, "1 2 3\n")
	require.NotContains(t, out, "never")

	// Logs go to the config directory, never stdout
	_, err = os.Stat(filepath.Join(dir, "commander.log"))
	require.NoError(t, err)
}

// =============================================================================
// PLAIN MODE
// =============================================================================

func TestPlain_Outcomes(t *testing.T) {
	var out bytes.Buffer
	p := newPlain(t, &out)

	err := p.Run(NewScanReader(strings.NewReader("ech one\n\nzzz\ncount x\nsleep 5ms\n")))
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "one\n")
	require.Contains(t, text, styles.StatusIndicators.Warning+" unknown command: zzz")
	require.Contains(t, text, styles.StatusIndicators.Error+" count: validate:")
	require.Contains(t, text, "started job")
	require.Contains(t, text, "slept 5ms")
	require.Equal(t, 0, p.Session.Jobs().Len())
}

func TestPlain_SpinWhileJobsRun(t *testing.T) {
	var out bytes.Buffer
	p := newPlain(t, &out)
	p.Spin = true

	require.NoError(t, p.Exec("sleep 5ms"))
	require.Contains(t, out.String(), "slept 5ms")
	require.Equal(t, 0, p.Session.Jobs().Len())
}

func TestPlain_ClearResetsOutput(t *testing.T) {
	var out bytes.Buffer
	p := newPlain(t, &out)

	require.NoError(t, p.Exec("echo a"))
	require.NoError(t, p.Exec("clear"))
	require.NoError(t, p.Exec("echo b"))
	require.Equal(t, "a\nb\n", out.String())
}

func TestPlain_SetRebuildsCommander(t *testing.T) {
	var out bytes.Buffer
	p := newPlain(t, &out)
	before := p.Commander

	require.NoError(t, p.Exec("set commander.match_policy fuzzy"))
	require.NotSame(t, before, p.Commander)
	require.Same(t, p.Commander, p.Session.Commander())

	require.NoError(t, p.Exec("eho fuzzy"))
	require.Contains(t, out.String(), "fuzzy\n")

	require.NoError(t, p.Exec("set view.prompt >"))
	require.Equal(t, ">", p.Prompt)
}

func TestCompleteLine(t *testing.T) {
	p := newPlain(t, io.Discard)

	require.Equal(t, []string{"echo"}, completeLine(p.Commander, "ec"))
	require.ElementsMatch(t, []string{"set", "sleep"}, completeLine(p.Commander, "s"))
	require.Nil(t, completeLine(p.Commander, "echo hi"))
	require.Empty(t, p.Commander.Input(), "completion leaves no input behind")
}

// =============================================================================
// TERMINAL
// =============================================================================

func TestTerminal_Profile(t *testing.T) {
	tty := Terminal{In: strings.NewReader(""), Out: &bytes.Buffer{}}

	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	require.Equal(t, termenv.Ascii, tty.Profile(true))
	require.Equal(t, termenv.Ascii, tty.Profile(false), "a buffer is not a terminal")

	t.Setenv("NO_COLOR", "1")
	require.Equal(t, termenv.Ascii, tty.Profile(false))

	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "1")
	require.Equal(t, termenv.ANSI256, tty.Profile(false))
}

func TestTerminal_NotInteractive(t *testing.T) {
	tty := Terminal{In: strings.NewReader("echo hi\n"), Out: io.Discard}
	require.False(t, tty.Interactive())
	require.Equal(t, DefaultTerminalWidth, tty.Width())
}

func TestRoot_PipedStdinUsesLineMode(t *testing.T) {
	isolate(t)
	out, err := execute(t, "echo piped\n", "--no-color")
	require.NoError(t, err)
	require.Equal(t, "piped\n", out)
}

func TestWatchConfig(t *testing.T) {
	t.Run("creates the directory", func(t *testing.T) {
		var logs bytes.Buffer
		logger, err := logging.NewWriter(&logs, "warn", "json")
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "nested", "config.toml")
		reloads, stop := watchConfig(context.Background(), path, logger)
		defer stop()

		require.NotNil(t, reloads)
		require.DirExists(t, filepath.Dir(path))
		require.Empty(t, logs.String())
	})

	t.Run("directory error is logged", func(t *testing.T) {
		var logs bytes.Buffer
		logger, err := logging.NewWriter(&logs, "warn", "json")
		require.NoError(t, err)

		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		path := filepath.Join(blocker, "sub", "config.toml")

		reloads, stop := watchConfig(context.Background(), path, logger)
		defer stop()

		require.Nil(t, reloads)
		require.Contains(t, logs.String(), "config directory not created")
		require.Contains(t, logs.String(), `"dir":"`+filepath.Dir(path)+`"`)
		require.Contains(t, logs.String(), "config hot reload disabled")
	})
}
