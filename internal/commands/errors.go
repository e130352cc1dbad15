// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
)

// =============================================================================
// REGISTRY ERRORS
// =============================================================================

// ErrEmptyCommand is returned when the input holds no command token.
// It is a no-op condition, not a failure.
var ErrEmptyCommand = errors.New("empty command")

// ErrInvalidArguments is wrapped in a *CommandError with PhaseValidate when a
// command's IsValid rejects the argument tokens.
var ErrInvalidArguments = errors.New("invalid arguments")

// ErrForeignArgs is returned when prepared arguments are run by an Entry
// other than the one that parsed them.
var ErrForeignArgs = errors.New("prepared arguments belong to another command")

// UnknownCommandError is returned when the command token matches nothing.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command: " + e.Name
}

// =============================================================================
// COMMAND ERRORS
// =============================================================================

// Phase is the step of the execute protocol that failed.
type Phase int

const (
	PhaseValidate Phase = iota // IsValid rejected the arguments
	PhaseParse                 // Parse returned an error
	PhaseExecute               // Execute returned an error
)

// String returns a lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseValidate:
		return "validate"
	case PhaseParse:
		return "parse"
	case PhaseExecute:
		return "execute"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// CommandError wraps an error raised by a command. The command's own error
// is kept unchanged and is reachable with errors.As / errors.Is.
type CommandError struct {
	Command string
	Phase   Phase
	Err     error
}

func (e *CommandError) Error() string {
	return e.Command + ": " + e.Phase.String() + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// =============================================================================
// BUILD ERRORS
// =============================================================================

// DuplicateCommandError is returned by Build when two commands share a name
// (after case folding in case-insensitive mode).
type DuplicateCommandError struct {
	Name     string // name of the rejected registration
	Existing string // name of the registration that was kept
}

func (e *DuplicateCommandError) Error() string {
	if e.Name == e.Existing {
		return fmt.Sprintf("duplicate command %q", e.Name)
	}
	return fmt.Sprintf("duplicate command %q (collides with %q)", e.Name, e.Existing)
}

// InvalidNameError is returned by Build for names that cannot be typed as a
// single command token.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid command name %q: %s", e.Name, e.Reason)
}

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome classifies the result of Execute for display.
type Outcome int

const (
	OutcomeSuccess     Outcome = iota // Command ran
	OutcomeNone                       // Empty input, nothing attempted
	OutcomeUnknown                    // Token matched no command
	OutcomeInvalid                    // IsValid rejected the arguments
	OutcomeParseFailed                // Parse returned an error
	OutcomeExecFailed                 // Execute returned an error
)

// String returns a short human-readable label.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNone:
		return "no command"
	case OutcomeUnknown:
		return "unknown command"
	case OutcomeInvalid:
		return "invalid arguments"
	case OutcomeParseFailed:
		return "parse failed"
	case OutcomeExecFailed:
		return "execution failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// OutcomeOf classifies an error returned by Commander.Execute.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, ErrEmptyCommand) {
		return OutcomeNone
	}

	var unknown *UnknownCommandError
	if errors.As(err, &unknown) {
		return OutcomeUnknown
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Phase {
		case PhaseValidate:
			return OutcomeInvalid
		case PhaseParse:
			return OutcomeParseFailed
		}
	}
	return OutcomeExecFailed
}

// IsRegistryError reports whether err originates in the registry itself
// (empty or unknown command) rather than in a command.
func IsRegistryError(err error) bool {
	switch OutcomeOf(err) {
	case OutcomeNone, OutcomeUnknown:
		return true
	default:
		return false
	}
}
