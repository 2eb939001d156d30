package shell

import (
	"strings"
)

// Classified is a line split on its connector, before tokenization.
type Classified struct {
	Connector Connector
	// Parts holds the raw command substrings with surrounding spaces trimmed.
	Parts []string
	// Ops holds the operator between Parts[i] and Parts[i+1] for logical
	// connectors, nil otherwise.
	Ops []Connector
	// Truncated is set when the line held more commands than the cap and the
	// extra ones were dropped.
	Truncated bool
}

// Classify finds the line's connector and splits it into at most maxCommands
// raw command substrings.
func Classify(line string, maxCommands int) *Classified {
	out := &Classified{Connector: DetectConnector(line)}

	switch {
	case out.Connector == ConnectorNone:
		out.Parts = []string{line}
	case out.Connector.Logical():
		out.Parts, out.Ops = splitLogical(line)
	default:
		out.Parts = splitAny(line, out.Connector.Symbol())
	}

	for i, part := range out.Parts {
		out.Parts[i] = strings.Trim(part, " ")
	}

	if maxCommands > 0 && len(out.Parts) > maxCommands {
		out.Parts = out.Parts[:maxCommands]
		if out.Ops != nil {
			out.Ops = out.Ops[:maxCommands-1]
		}
		out.Truncated = true
	}

	return out
}

// splitAny splits on every character in delims, skipping empty pieces
// between adjacent delimiters.
func splitAny(s, delims string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})
}

// splitLogical splits on && and ||, recording which one sat in each gap so
// both can be mixed on one line.
func splitLogical(s string) (parts []string, ops []Connector) {
	start := 0
	for i := 0; i+1 < len(s); {
		var op Connector
		switch s[i : i+2] {
		case "&&":
			op = ConnectorAnd
		case "||":
			op = ConnectorOr
		default:
			i++
			continue
		}

		parts = append(parts, s[start:i])
		ops = append(ops, op)
		i += 2
		start = i
	}
	parts = append(parts, s[start:])
	return parts, ops
}
