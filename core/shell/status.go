package shell

import (
	"fmt"
	"syscall"
)

// ExitKind says how a child terminated.
type ExitKind int

const (
	ExitOther ExitKind = iota
	ExitNormal
	ExitSignaled
)

// ExitStatus is the outcome of one child process.
type ExitStatus struct {
	Kind   ExitKind
	Code   int
	Signal syscall.Signal
}

// ExitedNormally is the status of a child that called exit(code).
func ExitedNormally(code int) ExitStatus {
	return ExitStatus{Kind: ExitNormal, Code: code}
}

// KilledBySignal is the status of a child terminated by sig.
func KilledBySignal(sig syscall.Signal) ExitStatus {
	return ExitStatus{Kind: ExitSignaled, Signal: sig}
}

func exitStatusFromWait(ws syscall.WaitStatus) ExitStatus {
	switch {
	case ws.Exited():
		return ExitedNormally(ws.ExitStatus())
	case ws.Signaled():
		return KilledBySignal(ws.Signal())
	default:
		return ExitStatus{}
	}
}

// Success reports whether the child exited normally with code 0.
func (s ExitStatus) Success() bool {
	return s.Kind == ExitNormal && s.Code == 0
}

// ExitCode folds the status into a single shell-style code.
func (s ExitStatus) ExitCode() int {
	switch s.Kind {
	case ExitNormal:
		return s.Code
	case ExitSignaled:
		return 128 + int(s.Signal)
	default:
		return 1
	}
}

func (s ExitStatus) String() string {
	switch s.Kind {
	case ExitNormal:
		return fmt.Sprintf("exited(%d)", s.Code)
	case ExitSignaled:
		return fmt.Sprintf("signaled(%s)", s.Signal)
	default:
		return "other"
	}
}

// Tracker remembers the status of the most recent command that actually ran.
// Skipped commands don't touch it.
type Tracker struct {
	last ExitStatus
	ran  int
}

// Record stores the status of a command that ran.
func (t *Tracker) Record(s ExitStatus) {
	t.last = s
	t.ran++
}

// Last returns the most recently recorded status.
func (t *Tracker) Last() ExitStatus {
	return t.last
}

// Ran returns how many statuses were recorded.
func (t *Tracker) Ran() int {
	return t.ran
}

// ShouldRun decides whether the command following op runs: && needs a clean
// exit, || needs anything else.
func (t *Tracker) ShouldRun(op Connector) bool {
	switch op {
	case ConnectorAnd:
		return t.last.Success()
	case ConnectorOr:
		return !t.last.Success()
	default:
		return true
	}
}
