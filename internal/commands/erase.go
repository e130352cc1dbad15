// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// =============================================================================
// TYPE-ERASED COMMAND CELL
// =============================================================================

// Entry is a command with its argument type erased, so commands with
// different Args types can share one registry. Build one with Erase.
//
// The zero Entry is not usable.
type Entry[Ctx any] struct {
	cell *cell[Ctx]
}

// cell holds the closures captured by Erase. Its address identifies the
// command that produced a PreparedArgs.
type cell[Ctx any] struct {
	name    string
	help    Help
	isValid func(args []string) bool
	parse   func(c *cell[Ctx], args []string) (PreparedArgs[Ctx], error)
}

// PreparedArgs holds arguments that a command's Parse step accepted, bound to
// that command's run step. It can only be run by the Entry that produced it.
type PreparedArgs[Ctx any] struct {
	owner *cell[Ctx]
	run   func(ctx Ctx) error
}

// Help is optional descriptive text for a command.
type Help struct {
	Usage       string
	Description string
}

// Describer is implemented by commands that carry help text.
type Describer interface {
	Describe() Help
}

// Erase wraps a concretely typed command in an Entry.
//
// Both type parameters are spelled out at the call site:
//
//	commands.Erase[*Session, EchoArgs](EchoCommand{})
//
// The parse closure and the run closure are built here with the same Args,
// and the parsed value never leaves the closure, so no type assertion is
// needed when the command runs.
func Erase[Ctx, Args any](cmd Command[Ctx, Args]) Entry[Ctx] {
	c := &cell[Ctx]{
		name:    cmd.Name(),
		isValid: cmd.IsValid,
		parse: func(owner *cell[Ctx], raw []string) (PreparedArgs[Ctx], error) {
			args, err := cmd.Parse(raw)
			if err != nil {
				return PreparedArgs[Ctx]{}, err
			}
			return PreparedArgs[Ctx]{
				owner: owner,
				run: func(ctx Ctx) error {
					return cmd.Execute(ctx, args)
				},
			}, nil
		},
	}
	if d, ok := any(cmd).(Describer); ok {
		c.help = d.Describe()
	}
	return Entry[Ctx]{cell: c}
}

// Name returns the command name as declared.
func (e Entry[Ctx]) Name() string {
	if e.cell == nil {
		return ""
	}
	return e.cell.name
}

// Help returns the command's help text, if it has any.
func (e Entry[Ctx]) Help() Help {
	if e.cell == nil {
		return Help{}
	}
	return e.cell.help
}

// IsValid runs the command's fast validity check.
func (e Entry[Ctx]) IsValid(args []string) bool {
	if e.cell == nil {
		return false
	}
	return e.cell.isValid(args)
}

// Parse runs the command's parser. A parse failure is returned as a
// *CommandError with PhaseParse.
func (e Entry[Ctx]) Parse(args []string) (PreparedArgs[Ctx], error) {
	if e.cell == nil {
		return PreparedArgs[Ctx]{}, ErrForeignArgs
	}
	prepared, err := e.cell.parse(e.cell, args)
	if err != nil {
		return PreparedArgs[Ctx]{}, &CommandError{Command: e.cell.name, Phase: PhaseParse, Err: err}
	}
	return prepared, nil
}

// Run executes prepared arguments. Arguments prepared by a different Entry
// are rejected with ErrForeignArgs. An execution failure is returned as a
// *CommandError with PhaseExecute.
func (e Entry[Ctx]) Run(ctx Ctx, args PreparedArgs[Ctx]) error {
	if e.cell == nil || args.owner != e.cell || args.run == nil {
		return ErrForeignArgs
	}
	if err := args.run(ctx); err != nil {
		return &CommandError{Command: e.cell.name, Phase: PhaseExecute, Err: err}
	}
	return nil
}
