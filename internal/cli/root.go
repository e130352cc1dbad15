// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/commander-tui/internal/app"
	"github.com/jeranaias/commander-tui/internal/config"
	"github.com/jeranaias/commander-tui/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// Flags holds the persistent flags shared by every subcommand.
type Flags struct {
	ConfigPath string
	Plain      bool
	LogLevel   string
	NoColor    bool
}

// env is what every subcommand starts from.
type env struct {
	cfg    *config.Config
	path   string
	logger *logging.Logger
}

// load resolves the config path, loads the file and opens the log.
func (f *Flags) load() (*env, error) {
	path := f.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if f.LogLevel != "" {
		if _, err := logging.ParseLevel(f.LogLevel); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = f.LogLevel
	}

	logger, err := logging.New(cfg.LogOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return &env{cfg: cfg, path: path, logger: logger}, nil
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &Flags{}

	root := &cobra.Command{
		Use:   "commander",
		Short: "A Vim-style command line for the terminal",
		Long: `commander opens a full-screen terminal UI with a ":" command line.

Type ":" then a command name (or any unambiguous prefix of one) and press
Enter. Up/Down choose a suggestion, Tab completes it, Esc cancels.

When stdin is not a terminal, or with --plain, commands are read one per line.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load()
			if err != nil {
				return err
			}
			defer e.logger.Close()

			if flags.Plain || !TerminalFor(cmd).Interactive() {
				return runPlain(cmd, flags, e)
			}
			return runTUI(cmd, flags, e)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "config file (default ~/.commander/config.toml)")
	pf.BoolVar(&flags.Plain, "plain", false, "read commands line by line instead of opening the TUI")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colors")

	root.AddCommand(
		newCommandsCmd(flags),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// =============================================================================
// TUI MODE
// =============================================================================

func runTUI(cmd *cobra.Command, flags *Flags, e *env) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tty := TerminalFor(cmd)
	theme := tty.Theme(flags.NoColor, e.cfg.ThemeMode())

	opts := app.Options{
		Config:     e.cfg,
		ConfigPath: e.path,
		Theme:      theme,
		Logger:     e.logger,
	}

	reloads, stop := watchConfig(ctx, e.path, e.logger)
	defer stop()
	opts.Reloads = reloads

	m, err := app.New(opts)
	if err != nil {
		return err
	}

	e.logger.Info("starting tui", zap.String("config", e.path), zap.String("version", Version))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(tty.In), tea.WithOutput(tty.Out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// watchConfig starts a watcher on path. A nil channel means hot reload is
// off; the reason is logged at warn.
func watchConfig(ctx context.Context, path string, logger *logging.Logger) (<-chan config.Event, func()) {
	// The directory must exist to be watched
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("config directory not created", zap.String("dir", dir), zap.Error(err))
	}
	watcher, err := config.NewWatcher(path, config.DefaultDebounce, logger.Logger)
	if err != nil {
		logger.Warn("config hot reload disabled", zap.Error(err))
		return nil, func() {}
	}
	go watcher.Run(ctx)
	return watcher.Events(), func() { watcher.Close() }
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "commander %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
