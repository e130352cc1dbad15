// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the ":" command system for terminal UIs.
//
// It owns the command registry and the input session around it: the text
// typed after the trigger key, the active flag, the suggestion selection and
// the execute-on-confirm step that turns free-form tokens into a typed
// handler call.
//
// # Key Types
//
//   - Command: the contract every command implements (name, parse, validity, execute)
//   - Entry: a type-erased command cell stored in the registry
//   - Commander: the registry plus the live input session
//   - Builder: configures and builds a Commander
//   - ArgDef: declarative positional argument definitions for Simple commands
//
// # Usage
//
// Register commands and build the session:
//
//	cmdr, err := commands.NewBuilder[*Session]().
//	    WithCaseSensitive(false).
//	    WithMatchPolicy(match.PolicyFuzzy).
//	    WithCommand(commands.Erase[*Session, EchoArgs](EchoCommand{})).
//	    Build()
//
// Drive it from the host's input loop:
//
//	cmdr.Start()
//	cmdr.SetInput("ech hello world")
//	cmdr.Suggestions()          // ["echo"]
//	err = cmdr.Execute(session) // parses ["hello", "world"] and runs echo
//
// Errors returned by Execute are either registry-native (ErrEmptyCommand,
// *UnknownCommandError) or a *CommandError wrapping the command's own error.
// OutcomeOf classifies them for display.
package commands
