// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "slices"

// =============================================================================
// COMMAND CONTRACT
// =============================================================================

// Command is a named action with its own argument type.
//
// Ctx is the host-defined handle passed to Execute (typically a pointer into
// application state). Args is whatever Parse produces.
//
// IsValid and Parse must agree: anything IsValid accepts, Parse must not
// reject because of the shape of the arguments. IsValid is called on every
// keystroke and every frame, so it must be cheap and free of side effects.
type Command[Ctx, Args any] interface {
	// Name is the registry key. It must be non-empty and contain no whitespace.
	Name() string

	// Parse turns raw argument tokens into typed arguments.
	Parse(args []string) (Args, error)

	// IsValid is a fast check over raw argument tokens.
	IsValid(args []string) bool

	// Execute runs the command. It is only called after IsValid and Parse succeed.
	Execute(ctx Ctx, args Args) error
}

// =============================================================================
// FUNC ADAPTER
// =============================================================================

// Func adapts plain functions to the Command interface.
//
// ValidFn may be nil, in which case every argument list is considered valid
// and Parse is the only gate.
type Func[Ctx, Args any] struct {
	CommandName string
	ParseFn     func(args []string) (Args, error)
	ValidFn     func(args []string) bool
	RunFn       func(ctx Ctx, args Args) error
}

// Name implements Command.
func (f Func[Ctx, Args]) Name() string { return f.CommandName }

// Parse implements Command.
func (f Func[Ctx, Args]) Parse(args []string) (Args, error) {
	if f.ParseFn == nil {
		var zero Args
		return zero, nil
	}
	return f.ParseFn(args)
}

// IsValid implements Command.
func (f Func[Ctx, Args]) IsValid(args []string) bool {
	if f.ValidFn == nil {
		return true
	}
	return f.ValidFn(args)
}

// Execute implements Command.
func (f Func[Ctx, Args]) Execute(ctx Ctx, args Args) error {
	if f.RunFn == nil {
		return nil
	}
	return f.RunFn(ctx, args)
}

// =============================================================================
// SIMPLE COMMAND
// =============================================================================

// Simple is a command whose arguments stay as strings and whose validity is
// described declaratively by ArgDefs.
type Simple[Ctx any] struct {
	// CommandName is the registry key (e.g., "echo")
	CommandName string

	// Description is shown in help listings
	Description string

	// Usage shows argument syntax (e.g., "set <key> <value>").
	// Empty means derived from Args.
	Usage string

	// Args defines the expected positional arguments.
	// A nil slice accepts any arguments.
	Args []ArgDef

	// Handler executes the command
	Handler func(ctx Ctx, args []string) error
}

// Name implements Command.
func (s Simple[Ctx]) Name() string { return s.CommandName }

// IsValid implements Command.
func (s Simple[Ctx]) IsValid(args []string) bool {
	return ValidateArgs(s.CommandName, s.Args, args) == nil
}

// Parse implements Command. The returned slice is a copy.
func (s Simple[Ctx]) Parse(args []string) ([]string, error) {
	if err := ValidateArgs(s.CommandName, s.Args, args); err != nil {
		return nil, err
	}
	return slices.Clone(args), nil
}

// Describe implements Describer. Without an explicit Usage, one is built
// from Args.
func (s Simple[Ctx]) Describe() Help {
	usage := s.Usage
	if usage == "" && s.Args != nil {
		usage = UsageFor(s.CommandName, s.Args)
	}
	return Help{Usage: usage, Description: s.Description}
}

// Execute implements Command.
func (s Simple[Ctx]) Execute(ctx Ctx, args []string) error {
	if s.Handler == nil {
		return nil
	}
	return s.Handler(ctx, args)
}
