// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is the commander command-line entry point.
//
// # Commands
//
//	commander                  open the TUI (or plain mode without a terminal)
//	commander --plain          read command lines from stdin
//	commander commands         list the available commands
//	commander config init      write the default config file
//	commander config show      print the effective config
//	commander config path      print the config file path
//	commander config keys      list keys accepted by :set
//	commander version          print version information
//
// # Global Flags
//
//	-c, --config FILE    config file (default ~/.commander/config.toml)
//	    --plain          line mode instead of the TUI
//	    --log-level LVL  debug, info, warn or error
//	    --no-color       disable colors
package cli
