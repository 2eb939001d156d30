package logger

// LogEntry is a single line in the event log. Exactly one event field is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	Line          *Line          `json:"line,omitempty"`
	Dispatch      *Dispatch      `json:"dispatch,omitempty"`
	ProcessStart  *ProcessStart  `json:"process_start,omitempty"`
	ProcessExit   *ProcessExit   `json:"process_exit,omitempty"`
	DispatchError *DispatchError `json:"dispatch_error,omitempty"`
	Builtin       *Builtin       `json:"builtin,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	setOn(le *LogEntry)
}

// GetLogType returns the event held by the entry, or nil.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.Line != nil:
		return le.Line
	case le.Dispatch != nil:
		return le.Dispatch
	case le.ProcessStart != nil:
		return le.ProcessStart
	case le.ProcessExit != nil:
		return le.ProcessExit
	case le.DispatchError != nil:
		return le.DispatchError
	case le.Builtin != nil:
		return le.Builtin
	default:
		return nil
	}
}

// Line is recorded for every non-empty line read by the shell.
type Line struct {
	Text string `json:"text"`
}

func (e *Line) setOn(le *LogEntry) { le.Line = e }

// Dispatch is recorded once a line has been parsed and is about to run.
type Dispatch struct {
	Connector string     `json:"connector"`
	Commands  [][]string `json:"commands"`
}

func (e *Dispatch) setOn(le *LogEntry) { le.Dispatch = e }

// ProcessStart is recorded after a child is created.
type ProcessStart struct {
	Pid  int      `json:"pid"`
	Argv []string `json:"argv"`
}

func (e *ProcessStart) setOn(le *LogEntry) { le.ProcessStart = e }

// ProcessExit is recorded after a child is reaped.
type ProcessExit struct {
	Pid    int      `json:"pid"`
	Argv   []string `json:"argv"`
	Status string   `json:"status"`
	Code   int      `json:"code"`
	// Background is set for stages reaped after their pipeline was aborted.
	// Their exits are written whenever the child ends, which can be after
	// the events of later lines in the same session.
	Background bool `json:"background,omitempty"`
}

func (e *ProcessExit) setOn(le *LogEntry) { le.ProcessExit = e }

// DispatchError is recorded when a line is rejected or a strategy aborts.
type DispatchError struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

func (e *DispatchError) setOn(le *LogEntry) { le.DispatchError = e }

// Builtin is recorded when a line is handled by the shell itself.
type Builtin struct {
	Name string `json:"name"`
}

func (e *Builtin) setOn(le *LogEntry) { le.Builtin = e }
