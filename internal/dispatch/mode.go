package dispatch

import (
	"fmt"

	"pipeline-generator/internal/common"
)

// Mode selects the calling convention of the generated dispatch code.
type Mode int

const (
	// ModeNone wires handlers that take no auxiliary argument.
	ModeNone Mode = iota
	// ModeWith wires handlers that receive a read-only auxiliary argument,
	// passed by value.
	ModeWith
	// ModeWithMut wires handlers that receive a mutable auxiliary
	// argument, passed by pointer.
	ModeWithMut
)

// ParamName is the default identifier of the auxiliary argument in
// generated code, overridable via CompilerConfig.
const ParamName = "arg"

// PlaceholderPrefix is the prefix of synthesized binding names for
// positional fields. A positional field at 1-based position n binds as
// "F<n>".
const PlaceholderPrefix = "F"

// String returns the mode name as used in manifests and CLI flags.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "execute"
	case ModeWith:
		return "execute_with"
	case ModeWithMut:
		return "execute_with_mut"
	default:
		return common.UnknownStr
	}
}

// TakesArg returns true for the two argument-taking modes.
func (m Mode) TakesArg() bool {
	return m != ModeNone
}

// ContractMethod returns the runtime contract method generated for this
// mode.
func (m Mode) ContractMethod() string {
	switch m {
	case ModeWith:
		return "ExecuteWith"
	case ModeWithMut:
		return "ExecuteWithMut"
	default:
		return "Execute"
	}
}

// funcSuffix distinguishes the generated dispatch functions of one enum
// compiled under different modes.
func (m Mode) funcSuffix() string {
	switch m {
	case ModeWith:
		return "With"
	case ModeWithMut:
		return "WithMut"
	default:
		return ""
	}
}

// ParseMode parses a mode name as used in manifests and CLI flags.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "execute":
		return ModeNone, nil
	case "execute_with":
		return ModeWith, nil
	case "execute_with_mut":
		return ModeWithMut, nil
	default:
		return ModeNone, fmt.Errorf("unknown mode %q (want execute, execute_with or execute_with_mut)", s)
	}
}
