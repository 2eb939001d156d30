package shell

// A line goes through these steps:
//
// 1. The line is scanned for a connector (see connectorTable) and split into
// raw command substrings.
//
// 2. Each substring is broken into space-separated tokens forming a Vector.
// A command with no tokens or too many tokens rejects the whole line before
// anything runs.
//
// 3. The Orchestrator picks a strategy from the connector. Single commands
// (alone or in a sequence) have their redirections resolved and removed from
// the Vector.
//
// 4. Child processes are created with their standard input and output wired
// to pipes or files, and the shell waits for them to complete, collecting
// the exit status where the strategy needs it.

// Limits bounds the size of lines, commands and pipelines.
type Limits struct {
	MaxArgs       int
	MaxCommands   int
	MaxLineLength int
	// StrictPipelineCap rejects lines with more commands than MaxCommands
	// instead of dropping the extra commands.
	StrictPipelineCap bool
}

// DefaultLimits matches the sizes the shell has always used.
var DefaultLimits = Limits{
	MaxArgs:           5,
	MaxCommands:       6,
	MaxLineLength:     1024,
	StrictPipelineCap: true,
}

// Pipeline is a fully parsed line.
type Pipeline struct {
	Connector Connector
	Commands  []Vector
	// Ops holds the operator in front of Commands[i+1] for logical connectors.
	Ops []Connector
}

// Parse classifies and tokenizes a trimmed, non-empty line.
func Parse(line string, limits Limits) (*Pipeline, error) {
	if line == "" {
		return nil, ErrInvalidArgumentCount
	}
	if limits.MaxLineLength > 0 && len(line) > limits.MaxLineLength {
		return nil, ErrLineTooLong
	}

	classified := Classify(line, limits.MaxCommands)
	if classified.Truncated && limits.StrictPipelineCap {
		return nil, ErrTooManyCommands
	}

	out := &Pipeline{
		Connector: classified.Connector,
		Ops:       classified.Ops,
	}
	for _, part := range classified.Parts {
		vec, err := Vectorize(part, limits.MaxArgs)
		if err != nil {
			return nil, err
		}
		out.Commands = append(out.Commands, vec)
	}

	return out, nil
}
