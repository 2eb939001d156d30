package shell

import "strings"

// Connector is the token that selects how the commands on a line are run.
type Connector int

const (
	ConnectorNone Connector = iota
	ConnectorPipe
	ConnectorReversePipe
	ConnectorAppend
	ConnectorWordCount
	ConnectorConcatenate
	ConnectorSequence
	ConnectorAnd
	ConnectorOr
)

var connectorNames = map[Connector]string{
	ConnectorNone:        "none",
	ConnectorPipe:        "pipe",
	ConnectorReversePipe: "reverse-pipe",
	ConnectorAppend:      "append",
	ConnectorWordCount:   "word-count",
	ConnectorConcatenate: "concatenate",
	ConnectorSequence:    "sequence",
	ConnectorAnd:         "and",
	ConnectorOr:          "or",
}

var connectorSymbols = map[Connector]string{
	ConnectorPipe:        "|",
	ConnectorReversePipe: "=",
	ConnectorAppend:      "~",
	ConnectorWordCount:   "#",
	ConnectorConcatenate: "+",
	ConnectorSequence:    ";",
	ConnectorAnd:         "&&",
	ConnectorOr:          "||",
}

func (c Connector) String() string {
	if name, ok := connectorNames[c]; ok {
		return name
	}
	return "unknown"
}

// Symbol returns the literal form of the connector, empty for ConnectorNone.
func (c Connector) Symbol() string {
	return connectorSymbols[c]
}

// Logical reports whether the connector gates commands on exit status.
func (c Connector) Logical() bool {
	return c == ConnectorAnd || c == ConnectorOr
}

type connectorRule struct {
	pattern   string
	connector Connector
	// prefix also matches the pattern without its leading space at the very
	// start of the line.
	prefix bool
}

// connectorTable is scanned top to bottom and the first pattern present in
// the line wins, even if a later one also occurs. New connectors are added
// here, not by reordering.
var connectorTable = []connectorRule{
	{pattern: " | ", connector: ConnectorPipe},
	{pattern: " = ", connector: ConnectorReversePipe},
	{pattern: " ~ ", connector: ConnectorAppend},
	{pattern: " # ", connector: ConnectorWordCount, prefix: true},
	{pattern: " + ", connector: ConnectorConcatenate},
	{pattern: " ; ", connector: ConnectorSequence},
	{pattern: " && ", connector: ConnectorAnd},
	{pattern: " || ", connector: ConnectorOr},
}

// DetectConnector returns the highest priority connector in the line. A
// connector only counts with a space on both sides, except that a line
// starting with "# " is a word count.
func DetectConnector(line string) Connector {
	for _, rule := range connectorTable {
		if strings.Contains(line, rule.pattern) {
			return rule.connector
		}
		if rule.prefix && strings.HasPrefix(line, rule.pattern[1:]) {
			return rule.connector
		}
	}
	return ConnectorNone
}
