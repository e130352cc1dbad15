// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/config"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

// MaxSleep caps the ":sleep" command.
const MaxSleep = time.Minute

// MaxCount caps the ":count" command.
const MaxCount = 1000

// Builtins returns the demo command set in display order.
func Builtins() []commands.Entry[*Session] {
	return []commands.Entry[*Session]{
		commands.Erase[*Session, []string](quitCommand()),
		commands.Erase[*Session, []string](echoCommand()),
		commands.Erase[*Session, []string](setCommand()),
		commands.Erase[*Session, []string](getCommand()),
		commands.Erase[*Session, []string](writeCommand()),
		commands.Erase[*Session, int](countCommand{}),
		commands.Erase[*Session, time.Duration](sleepCommand{}),
		commands.Erase[*Session, []string](jobsCommand()),
		commands.Erase[*Session, []string](themeCommand()),
		commands.Erase[*Session, []string](helpCommand()),
		commands.Erase[*Session, []string](historyCommand()),
		commands.Erase[*Session, []string](clearCommand()),
	}
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

func quitCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "quit",
		Description: "Exit the application",
		Args:        []commands.ArgDef{},
		Handler: func(s *Session, _ []string) error {
			s.Quit()
			return nil
		},
	}
}

func echoCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "echo",
		Description: "Print the arguments",
		Args: []commands.ArgDef{
			{Name: "text", Variadic: true, Description: "text to print"},
		},
		Handler: func(s *Session, args []string) error {
			s.Print(strings.Join(args, " "))
			return nil
		},
	}
}

func clearCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "clear",
		Description: "Clear the output pane",
		Args:        []commands.ArgDef{},
		Handler: func(s *Session, _ []string) error {
			s.Clear()
			return nil
		},
	}
}

func historyCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "history",
		Description: "List command lines run in this session",
		Args:        []commands.ArgDef{},
		Handler: func(s *Session, _ []string) error {
			entries := s.Commander().History()
			if len(entries) == 0 {
				s.Print("(no history)")
				return nil
			}
			for i, line := range entries {
				s.Printf("%3d  %s", i+1, line)
			}
			return nil
		},
	}
}

// =============================================================================
// CONFIG COMMANDS
// =============================================================================

func setCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "set",
		Description: "Change a setting for this session",
		Usage:       "set <key> <value>",
		Args: []commands.ArgDef{
			{Name: "key", Required: true, Type: commands.ArgTypeEnum, Values: config.Keys(), Description: "setting key"},
			{Name: "value", Required: true, Variadic: true, Description: "new value"},
		},
		Handler: func(s *Session, args []string) error {
			key, value := strings.ToLower(args[0]), strings.Join(args[1:], " ")
			if err := s.cfg.Set(key, value); err != nil {
				return err
			}
			v, _ := s.cfg.Get(key)
			s.Printf("%s = %v", key, v)
			return nil
		},
	}
}

func getCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "get",
		Description: "Show one setting, or all of them",
		Usage:       "get [key]",
		Args: []commands.ArgDef{
			{Name: "key", Type: commands.ArgTypeEnum, Values: config.Keys(), Description: "setting key"},
		},
		Handler: func(s *Session, args []string) error {
			if len(args) == 0 {
				s.Print(strings.TrimRight(s.cfg.String(), "\n"))
				return nil
			}
			key := strings.ToLower(args[0])
			v, err := s.cfg.Get(key)
			if err != nil {
				return err
			}
			s.Printf("%s = %v", key, v)
			return nil
		},
	}
}

// ErrNoConfigPath is returned by ":write" when the session has no file.
var ErrNoConfigPath = errors.New("no config file for this session")

func writeCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "write",
		Description: "Save the current settings to the config file",
		Args:        []commands.ArgDef{},
		Handler: func(s *Session, _ []string) error {
			if s.configPath == "" {
				return ErrNoConfigPath
			}
			if err := config.Save(s.configPath, s.cfg); err != nil {
				return err
			}
			s.Printf("written %s", s.configPath)
			return nil
		},
	}
}

func themeCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "theme",
		Description: "Switch between auto, dark and light colors",
		Args: []commands.ArgDef{
			{Name: "mode", Required: true, Type: commands.ArgTypeEnum, Values: styles.ModeNames},
		},
		Handler: func(s *Session, args []string) error {
			mode, err := styles.ParseMode(args[0])
			if err != nil {
				return err
			}
			s.cfg.View.Theme = mode.String()
			s.theme.SetMode(mode)
			s.Printf("theme %s", mode)
			return nil
		},
	}
}

// =============================================================================
// TYPED COMMANDS
// =============================================================================

// countCommand prints 1..n. Its argument is parsed to an int.
type countCommand struct{}

func (countCommand) Name() string { return "count" }

func (countCommand) Describe() commands.Help {
	return commands.Help{
		Usage:       "count <n>",
		Description: fmt.Sprintf("Print the numbers 1 to n (n <= %d)", MaxCount),
	}
}

func (countCommand) IsValid(args []string) bool {
	if len(args) != 1 {
		return false
	}
	n, err := strconv.Atoi(args[0])
	return err == nil && n >= 0 && n <= MaxCount
}

func (countCommand) Parse(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("want exactly one number, got %d arguments", len(args))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", args[0])
	}
	if n < 0 || n > MaxCount {
		return 0, fmt.Errorf("%d is out of range 0-%d", n, MaxCount)
	}
	return n, nil
}

func (countCommand) Execute(s *Session, n int) error {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(i + 1)
	}
	s.Print(strings.Join(parts, " "))
	return nil
}

// sleepCommand waits in the background and reports when it is done.
type sleepCommand struct{}

func (sleepCommand) Name() string { return "sleep" }

func (sleepCommand) Describe() commands.Help {
	return commands.Help{
		Usage:       "sleep <duration>",
		Description: "Start a background job that waits (e.g. 2s, 500ms)",
	}
}

func (sleepCommand) IsValid(args []string) bool {
	if len(args) != 1 {
		return false
	}
	d, err := time.ParseDuration(args[0])
	return err == nil && d > 0 && d <= MaxSleep
}

func (sleepCommand) Parse(args []string) (time.Duration, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("want exactly one duration, got %d arguments", len(args))
	}
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return 0, err
	}
	if d <= 0 || d > MaxSleep {
		return 0, fmt.Errorf("duration must be between 0 and %s", MaxSleep)
	}
	return d, nil
}

func (sleepCommand) Execute(s *Session, d time.Duration) error {
	id, cmd := s.jobs.Start("sleep "+d.String(), func(ctx context.Context) (string, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return "slept " + d.String(), nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	s.Defer(cmd)
	s.Printf("started job %s", shortID(id))
	return nil
}

func jobsCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "jobs",
		Description: "List running background jobs",
		Args:        []commands.ArgDef{},
		Handler: func(s *Session, _ []string) error {
			running := s.jobs.Running()
			if len(running) == 0 {
				s.Print("(no running jobs)")
				return nil
			}
			for _, job := range running {
				s.Printf("%s  %-20s %s", job.ShortID(), job.Label, time.Since(job.Started).Round(time.Millisecond))
			}
			return nil
		},
	}
}
