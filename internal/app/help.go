// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
)

func helpCommand() commands.Simple[*Session] {
	return commands.Simple[*Session]{
		CommandName: "help",
		Description: "List commands, or describe one",
		Usage:       "help [command]",
		Args: []commands.ArgDef{
			{Name: "command", Description: "command name"},
		},
		Handler: func(s *Session, args []string) error {
			if len(args) == 1 {
				entry, ok := s.Commander().Lookup(args[0])
				if !ok {
					return fmt.Errorf("no command named %q", args[0])
				}
				s.PrintRaw(describe(s.Theme(), entry.Name(), entry.Help()))
				return nil
			}

			out, err := RenderHelp(s.Commander().Commands(), s.Theme(), s.Width())
			if err != nil {
				return err
			}
			s.PrintRaw(out)
			return nil
		},
	}
}

// HelpMarkdown lists commands as a markdown table.
func HelpMarkdown(infos []commands.CommandInfo) string {
	var b strings.Builder
	b.WriteString("# Commands\n\n")
	b.WriteString("Type `:` to open the command line. Names can be abbreviated.\n\n")
	b.WriteString("| Command | Usage | Description |\n")
	b.WriteString("|---|---|---|\n")
	for _, info := range infos {
		usage := info.Help.Usage
		if usage == "" {
			usage = info.Name
		}
		fmt.Fprintf(&b, "| %s | `%s` | %s |\n", info.Name, usage, info.Help.Description)
	}
	return b.String()
}

// RenderHelp renders the command table with glamour for the theme's
// background and color profile.
func RenderHelp(infos []commands.CommandInfo, theme *styles.Theme, width int) (string, error) {
	style := "light"
	switch {
	case theme.ColorProfile == termenv.Ascii:
		style = "notty"
	case theme.IsDark:
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create help renderer: %w", err)
	}
	out, err := r.Render(HelpMarkdown(infos))
	if err != nil {
		return "", fmt.Errorf("failed to render help: %w", err)
	}
	return out, nil
}

func describe(theme *styles.Theme, name string, help commands.Help) string {
	usage := help.Usage
	if usage == "" {
		usage = name
	}
	lines := []string{theme.OutputCommand.Render(usage)}
	if help.Description != "" {
		lines = append(lines, theme.OutputMuted.Render("  "+help.Description))
	}
	return strings.Join(lines, "\n")
}
