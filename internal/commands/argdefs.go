// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ARGUMENT DEFINITIONS
// =============================================================================

// ArgDef defines a positional argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines how the value is checked
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types (matched case-insensitively)
	Values []string

	// Variadic lets the last argument absorb every remaining token
	Variadic bool
}

// ArgType indicates what kind of value an argument holds.
type ArgType int

const (
	ArgTypeString   ArgType = iota // Free-form string
	ArgTypeInt                     // Base-10 integer
	ArgTypeBool                    // strconv.ParseBool syntax
	ArgTypeDuration                // time.ParseDuration syntax
	ArgTypeEnum                    // One of predefined values
)

// String returns a short type label used in usage text.
func (t ArgType) String() string {
	switch t {
	case ArgTypeInt:
		return "int"
	case ArgTypeBool:
		return "bool"
	case ArgTypeDuration:
		return "duration"
	case ArgTypeEnum:
		return "enum"
	default:
		return "string"
	}
}

// check validates a single value against the definition.
func (d ArgDef) check(value string) (msg, expected string, ok bool) {
	switch d.Type {
	case ArgTypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return "not an integer", "integer", false
		}
	case ArgTypeBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return "not a boolean", "true or false", false
		}
	case ArgTypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return "not a duration", "duration like 1s or 250ms", false
		}
	case ArgTypeEnum:
		if len(d.Values) == 0 {
			return "", "", true
		}
		for _, v := range d.Values {
			if strings.EqualFold(value, v) {
				return "", "", true
			}
		}
		return "invalid value", strings.Join(d.Values, ", "), false
	}
	return "", "", true
}

// ValidateArgs validates argument tokens against a command's definitions.
//
// A nil defs slice accepts anything. Otherwise required arguments must be
// present, every value must match its type, and extra tokens are rejected
// unless the last definition is variadic.
func ValidateArgs(command string, defs []ArgDef, args []string) error {
	if defs == nil {
		return nil
	}

	for i, def := range defs {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{
					Command:  command,
					Arg:      def.Name,
					Message:  "required argument missing",
					Expected: def.Description,
				}
			}
			continue
		}

		values := args[i : i+1]
		if def.Variadic && i == len(defs)-1 {
			values = args[i:]
		}
		for _, v := range values {
			if msg, expected, ok := def.check(v); !ok {
				return &ValidationError{
					Command:  command,
					Arg:      def.Name,
					Message:  msg,
					Got:      v,
					Expected: expected,
				}
			}
		}
	}

	if len(args) > len(defs) {
		if len(defs) == 0 || !defs[len(defs)-1].Variadic {
			return &ValidationError{
				Command:  command,
				Message:  "too many arguments",
				Got:      strconv.Itoa(len(args)),
				Expected: "at most " + strconv.Itoa(len(defs)),
			}
		}
	}

	return nil
}

// UsageFor builds a usage line from definitions, e.g. "set <key> [value]".
func UsageFor(command string, defs []ArgDef) string {
	var b strings.Builder
	b.WriteString(command)
	for _, def := range defs {
		name := def.Name
		if def.Type == ArgTypeEnum && len(def.Values) > 0 {
			name = strings.Join(def.Values, "|")
		}
		if def.Variadic {
			name += "..."
		}
		b.WriteByte(' ')
		if def.Required {
			b.WriteString("<" + name + ">")
		} else {
			b.WriteString("[" + name + "]")
		}
	}
	return b.String()
}

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError represents an argument validation error.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	msg := e.Command + ": " + e.Message
	if e.Arg != "" {
		msg += " for argument '" + e.Arg + "'"
	}
	if e.Got != "" {
		msg += " (got: " + e.Got + ")"
	}
	if e.Expected != "" {
		msg += " - expected: " + e.Expected
	}
	return msg
}
