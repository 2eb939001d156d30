package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when a line can't be split into commands.
	ErrParse = errors.New("parse error")
	// ErrLineTooLong is returned for lines over the configured maximum length.
	ErrLineTooLong = fmt.Errorf("%w: line too long", ErrParse)

	// ErrInvalidArgumentCount is returned when a command has no tokens.
	ErrInvalidArgumentCount = errors.New("invalid number of arguments for command")
	// ErrTooManyArguments is returned when a command has more tokens than allowed.
	ErrTooManyArguments = errors.New("too many arguments")
	// ErrEmptyCommand is returned by the per-stage check right before a process
	// is created.
	ErrEmptyCommand = errors.New("command cannot be empty")
	// ErrTooManyCommands is returned when a line holds more commands than a
	// pipeline can.
	ErrTooManyCommands = errors.New("too many commands")

	// ErrUnsupported is returned when the connector and command count don't
	// select any strategy.
	ErrUnsupported = errors.New("unsupported command or operation")
)

// tooManyArguments reports the limit the same way for the parser and the
// per-stage check.
func tooManyArguments(max int) error {
	return fmt.Errorf("%w (max %d allowed)", ErrTooManyArguments, max)
}

// ResourceError is returned when the shell can't acquire an OS resource
// (pipe, process or file) while dispatching a line.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ExecError describes a program that couldn't be run. It never escapes the
// spawner as an error; it's reported on the command's stderr and the command
// completes with a failure status.
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execvp failed: %v", e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
