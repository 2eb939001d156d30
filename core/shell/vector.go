package shell

import (
	"strings"
)

// Vector is a single command: the program name followed by its arguments.
// Vectors built by Vectorize or NewVector are never empty and never longer
// than the limit they were built with.
type Vector struct {
	argv []string
}

// NewVector checks the argument count and copies tokens into a Vector.
func NewVector(tokens []string, maxArgs int) (Vector, error) {
	switch {
	case len(tokens) == 0:
		return Vector{}, ErrInvalidArgumentCount
	case maxArgs > 0 && len(tokens) > maxArgs:
		return Vector{}, tooManyArguments(maxArgs)
	}

	for _, tok := range tokens {
		if tok == "" {
			return Vector{}, ErrInvalidArgumentCount
		}
	}

	return Vector{argv: append([]string(nil), tokens...)}, nil
}

// Vectorize splits a raw command on spaces. Tabs and other whitespace stay
// part of the token.
func Vectorize(raw string, maxArgs int) (Vector, error) {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' '
	})
	return NewVector(tokens, maxArgs)
}

// Len returns the number of tokens including the program name.
func (v Vector) Len() int {
	return len(v.argv)
}

// Name returns the program name, or "" for the zero Vector.
func (v Vector) Name() string {
	if len(v.argv) == 0 {
		return ""
	}
	return v.argv[0]
}

// Argv returns a copy of all tokens.
func (v Vector) Argv() []string {
	return append([]string(nil), v.argv...)
}

// Args returns a copy of the tokens after the program name.
func (v Vector) Args() []string {
	if len(v.argv) == 0 {
		return nil
	}
	return append([]string(nil), v.argv[1:]...)
}

func (v Vector) String() string {
	return strings.Join(v.argv, " ")
}

// Validate is the check made immediately before a process is created.
func (v Vector) Validate(maxArgs int) error {
	switch {
	case maxArgs > 0 && len(v.argv) > maxArgs:
		return tooManyArguments(maxArgs)
	case len(v.argv) < 1:
		return ErrEmptyCommand
	}
	return nil
}
