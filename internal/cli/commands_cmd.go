// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/commander-tui/internal/app"
	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/util"
)

func newCommandsCmd(flags *Flags) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the commands available on the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load()
			if err != nil {
				return err
			}
			defer e.logger.Close()

			c, err := app.BuildCommander(e.cfg, app.Builtins(), e.logger.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if markdown {
				_, err := io.WriteString(out, app.HelpMarkdown(c.Commands()))
				return err
			}
			writeCommandTable(out, c.Commands())
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "print a markdown table")
	return cmd
}

// writeCommandTable prints one aligned row per command.
func writeCommandTable(w io.Writer, infos []commands.CommandInfo) {
	usageWidth := 0
	for _, info := range infos {
		if n := util.StringWidth(usageOf(info)); n > usageWidth {
			usageWidth = n
		}
	}
	for _, info := range infos {
		fmt.Fprintf(w, "  %s  %s\n", util.PadRight(usageOf(info), usageWidth), info.Help.Description)
	}
}

func usageOf(info commands.CommandInfo) string {
	if info.Help.Usage != "" {
		return info.Help.Usage
	}
	return info.Name
}
