package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		DispatchError: DispatchErrorReport{
			Errors: NewPathCounter("kind", "error"),
		},
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`
	Sessions       StrCounter `json:"sessions"`

	Line          LineReport          `json:"line_report"`
	Dispatch      DispatchReport      `json:"dispatch_report"`
	Process       ProcessReport       `json:"process_report"`
	DispatchError DispatchErrorReport `json:"dispatch_error_report"`
	Builtin       BuiltinReport       `json:"builtin_report"`
}

// Update adds the entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch event := le.GetLogType().(type) {
	case *Line:
		r.Line.update(event)
	case *Dispatch:
		r.Dispatch.update(event)
	case *ProcessStart:
		r.Process.updateStart(event)
	case *ProcessExit:
		r.Process.updateExit(event)
	case *DispatchError:
		r.DispatchError.update(event)
	case *Builtin:
		r.Builtin.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type LineReport struct {
	Count int `json:"count"`
}

func (r *LineReport) update(*Line) {
	r.Count++
}

type DispatchReport struct {
	// Connectors counts the strategy selected for each line.
	Connectors StrCounter `json:"connectors"`
	// Stages counts how many commands each line held.
	Stages StrCounter `json:"stages"`
}

func (r *DispatchReport) update(d *Dispatch) {
	r.Connectors.Increment(d.Connector)
	r.Stages.Increment(fmt.Sprint(len(d.Commands)))
}

type ProcessReport struct {
	Started int `json:"started"`
	Reaped  int `json:"reaped"`
	// BackgroundReaped counts the reaped stages of aborted pipelines.
	BackgroundReaped int        `json:"background_reaped,omitempty"`
	CommandNames     StrCounter `json:"command_names"`
	Statuses         StrCounter `json:"statuses"`
}

func (r *ProcessReport) updateStart(ps *ProcessStart) {
	r.Started++
	if len(ps.Argv) > 0 {
		r.CommandNames.Increment(ps.Argv[0])
	}
}

func (r *ProcessReport) updateExit(pe *ProcessExit) {
	r.Reaped++
	if pe.Background {
		r.BackgroundReaped++
	}
	r.Statuses.Increment(pe.Status)
}

type DispatchErrorReport struct {
	Errors *PathCounter `json:"errors"`
}

func (r *DispatchErrorReport) update(de *DispatchError) {
	if r.Errors == nil {
		r.Errors = NewPathCounter("kind", "error")
	}
	r.Errors.Increment(de.Kind, de.Error)
}

type BuiltinReport struct {
	Names StrCounter `json:"names"`
}

func (r *BuiltinReport) update(b *Builtin) {
	r.Names.Increment(b.Name)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of distinct tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
