package shell

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/w25shell/core/logger"
)

// Orchestrator runs parsed pipelines as child processes. It's synchronous:
// every method returns only after the children it waits on have been reaped.
type Orchestrator struct {
	Spawner Spawner
	// Stdio is what children inherit when a stream isn't wired to a pipe or
	// redirected to a file.
	Stdio  Stdio
	Limits Limits

	// Diag receives diagnostics for problems that don't abort the dispatch,
	// defaults to Stdio.Err.
	Diag io.Writer
	// Report is called for errors that stop one command of a sequence
	// without stopping the sequence.
	Report func(error)

	Log    *log.Logger
	Events *logger.SessionLogger
}

// NewOrchestrator creates an Orchestrator that runs real programs.
func NewOrchestrator(stdio Stdio, limits Limits) *Orchestrator {
	return &Orchestrator{
		Spawner: &ExecSpawner{},
		Stdio:   stdio,
		Limits:  limits,
	}
}

// Dispatch runs p with the strategy its connector selects and returns the
// status of the command that ends the data flow. Connectors handled outside
// the orchestrator (file utilities) return ErrUnsupported.
func (o *Orchestrator) Dispatch(p *Pipeline) (ExitStatus, error) {
	if len(p.Commands) == 0 {
		return ExitStatus{}, ErrInvalidArgumentCount
	}

	o.Events.Record(&logger.Dispatch{
		Connector: p.Connector.String(),
		Commands:  commandsArgv(p.Commands),
	})

	switch p.Connector {
	case ConnectorNone:
		if len(p.Commands) != 1 {
			return ExitStatus{}, ErrUnsupported
		}
		return o.RunSingle(p.Commands[0])
	case ConnectorPipe:
		return o.RunPipeline(p.Commands)
	case ConnectorReversePipe:
		return o.RunReversePipeline(p.Commands)
	case ConnectorSequence:
		return o.RunSequence(p.Commands), nil
	case ConnectorAnd, ConnectorOr:
		return o.RunConditional(p.Commands, p.Ops)
	default:
		return ExitStatus{}, ErrUnsupported
	}
}

// RunSingle resolves redirections on v, runs it and waits for it.
func (o *Orchestrator) RunSingle(v Vector) (ExitStatus, error) {
	if err := v.Validate(o.Limits.MaxArgs); err != nil {
		return ExitStatus{}, err
	}

	var files FileSet
	defer files.Close()

	argv, redir := ResolveRedirection(v, &files, o.diag())
	if argv.Len() == 0 {
		return ExitStatus{}, ErrEmptyCommand
	}

	stdio := o.Stdio
	if redir.Stdin != nil {
		stdio.In = redir.Stdin
	}
	if redir.Stdout != nil {
		stdio.Out = redir.Stdout
	}

	proc, err := o.spawn(argv, stdio)
	// The child holds its own copies now.
	files.Close()
	if err != nil {
		return ExitStatus{}, err
	}

	return o.wait(argv, proc), nil
}

// RunSequence runs each command through RunSingle in order. A failing command
// is reported and doesn't stop the ones after it.
func (o *Orchestrator) RunSequence(cmds []Vector) ExitStatus {
	var last ExitStatus
	for _, v := range cmds {
		status, err := o.RunSingle(v)
		if err != nil {
			o.report(err)
			continue
		}
		last = status
	}
	return last
}

// RunConditional runs cmds[0], then each following command only if the
// operator in front of it accepts the status of the last command that ran.
func (o *Orchestrator) RunConditional(cmds []Vector, ops []Connector) (ExitStatus, error) {
	if len(ops) < len(cmds)-1 {
		return ExitStatus{}, fmt.Errorf("%w: %d commands but %d operators", ErrParse, len(cmds), len(ops))
	}

	var tracker Tracker
	for i, v := range cmds {
		if i > 0 && !tracker.ShouldRun(ops[i-1]) {
			o.logDebug("skipping command", "argv", v.String(), "after", ops[i-1].Symbol(), "status", tracker.Last())
			continue
		}

		if err := v.Validate(o.Limits.MaxArgs); err != nil {
			return tracker.Last(), err
		}
		proc, err := o.spawn(v, o.Stdio)
		if err != nil {
			return tracker.Last(), err
		}
		tracker.Record(o.wait(v, proc))
	}

	return tracker.Last(), nil
}

// RunPipeline connects the standard output of each command to the standard
// input of the next.
func (o *Orchestrator) RunPipeline(cmds []Vector) (ExitStatus, error) {
	return o.runPipes(cmds, false)
}

// RunReversePipeline wires the commands so data flows from the last command
// listed to the first: "A = B = C" behaves like "C | B | A".
func (o *Orchestrator) RunReversePipeline(cmds []Vector) (ExitStatus, error) {
	return o.runPipes(cmds, true)
}

func (o *Orchestrator) runPipes(cmds []Vector, reverse bool) (ExitStatus, error) {
	n := len(cmds)
	if n == 0 {
		return ExitStatus{}, ErrInvalidArgumentCount
	}

	var files FileSet
	defer files.Close()

	pipes, err := files.Pipes(n - 1)
	if err != nil {
		return ExitStatus{}, err
	}

	procs := make([]Process, n)
	var started []int

	abort := func(err error) (ExitStatus, error) {
		files.Close()
		o.reapInBackground(cmds, procs, started)
		return ExitStatus{}, err
	}

	for k := 0; k < n; k++ {
		i := k
		if reverse {
			i = n - 1 - k
		}

		if err := cmds[i].Validate(o.Limits.MaxArgs); err != nil {
			return abort(err)
		}

		stdio := o.Stdio
		if reverse {
			if i < pipes.Len() {
				stdio.In = pipes.Reader(i)
			}
			if i > 0 {
				stdio.Out = pipes.Writer(i - 1)
			}
		} else {
			if i > 0 {
				stdio.In = pipes.Reader(i - 1)
			}
			if i < pipes.Len() {
				stdio.Out = pipes.Writer(i)
			}
		}

		proc, err := o.spawn(cmds[i], stdio)
		if err != nil {
			return abort(err)
		}
		procs[i] = proc
		started = append(started, i)
	}

	// Every child exists, so the parent's ends must go or readers never see EOF.
	o.logDebug("closing pipes", "descriptors", files.Len())
	if err := files.Close(); err != nil {
		o.logDebug("closing pipes", "err", err)
	}

	var statuses = make([]ExitStatus, n)
	for _, i := range started {
		statuses[i] = o.wait(cmds[i], procs[i])
	}

	if reverse {
		return statuses[0], nil
	}
	return statuses[n-1], nil
}

// reapInBackground waits for stages started before a pipeline was aborted.
// They keep running to completion on their own and their exits are recorded
// as background events whenever they happen.
func (o *Orchestrator) reapInBackground(cmds []Vector, procs []Process, started []int) {
	for _, i := range started {
		go o.reap(cmds[i], procs[i], true)
	}
}

func (o *Orchestrator) spawn(argv Vector, stdio Stdio) (Process, error) {
	if o.Spawner == nil {
		return nil, &ResourceError{Op: "fork", Err: errors.New("no spawner configured")}
	}

	proc, err := o.Spawner.Spawn(argv, stdio)
	if err != nil {
		o.logDebug("spawn failed", "argv", argv.String(), "err", err)
		return nil, err
	}

	o.logDebug("spawned", "argv", argv.String(), "pid", proc.Pid())
	o.Events.Record(&logger.ProcessStart{Pid: proc.Pid(), Argv: argv.Argv()})
	return proc, nil
}

func (o *Orchestrator) wait(argv Vector, proc Process) ExitStatus {
	return o.reap(argv, proc, false)
}

func (o *Orchestrator) reap(argv Vector, proc Process, background bool) ExitStatus {
	status := proc.Wait()

	o.logDebug("reaped", "argv", argv.String(), "pid", proc.Pid(), "status", status, "background", background)
	o.Events.Record(&logger.ProcessExit{
		Pid:        proc.Pid(),
		Argv:       argv.Argv(),
		Status:     status.String(),
		Code:       status.ExitCode(),
		Background: background,
	})
	return status
}

func (o *Orchestrator) diag() io.Writer {
	switch {
	case o.Diag != nil:
		return o.Diag
	case o.Stdio.Err != nil:
		return o.Stdio.Err
	default:
		return io.Discard
	}
}

func (o *Orchestrator) report(err error) {
	if o.Report != nil {
		o.Report(err)
		return
	}
	fmt.Fprintf(o.diag(), "w25shell: %v\n", err)
}

func (o *Orchestrator) logDebug(msg string, keyvals ...interface{}) {
	if o.Log != nil {
		o.Log.Debug(msg, keyvals...)
	}
}

func commandsArgv(cmds []Vector) [][]string {
	out := make([][]string, 0, len(cmds))
	for _, v := range cmds {
		out = append(out, v.Argv())
	}
	return out
}
