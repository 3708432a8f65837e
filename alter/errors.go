package alter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownGravity      = errors.New("unknown gravity")
	ErrUnhandledAttributes = errors.New("unhandled attributes")
	ErrExternalTool        = errors.New("external image tool failed")
)

// UnknownGravityError reports a gravity code outside the gravity table
type UnknownGravityError struct {
	Code string
}

func (e *UnknownGravityError) Error() string {
	return fmt.Sprintf("unknown gravity %q (want one of %s)", e.Code, strings.Join(GravityCodes(), ", "))
}

func (e *UnknownGravityError) Is(target error) bool { return target == ErrUnknownGravity }

// UnhandledAttributesError lists attributes the planner could not translate,
// in the order they were supplied.
type UnhandledAttributesError struct {
	Keys []string
}

func (e *UnhandledAttributesError) Error() string {
	return fmt.Sprintf("unhandled attributes (%s)", strings.Join(e.Keys, ", "))
}

func (e *UnhandledAttributesError) Is(target error) bool { return target == ErrUnhandledAttributes }

// ToolError carries the output of a failed tool invocation
type ToolError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed: %v\nOutput: %s", e.Tool, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error { return e.Err }

func (e *ToolError) Is(target error) bool { return target == ErrExternalTool }
