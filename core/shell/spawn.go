package shell

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Stdio holds the streams a child is started with. An *os.File is handed to
// the child directly; any other reader or writer is copied through a pipe by
// os/exec. A nil stream is connected to the null device.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Process is a started child.
type Process interface {
	Pid() int
	// Wait blocks until the child terminates and reaps it.
	Wait() ExitStatus
}

// Spawner creates child processes.
type Spawner interface {
	// Spawn starts argv with the given streams. A program that can't be
	// executed is not an error: it's reported on stdio.Err and the returned
	// process has already exited with status 1. Errors are ResourceErrors.
	Spawn(argv Vector, stdio Stdio) (Process, error)
}

// ExecSpawner starts real programs found on $PATH.
type ExecSpawner struct {
	// Env is the child environment, nil inherits the shell's.
	Env []string
	// Dir is the working directory, empty inherits the shell's.
	Dir string
}

var _ Spawner = (*ExecSpawner)(nil)

// Spawn implements Spawner.
func (e *ExecSpawner) Spawn(argv Vector, stdio Stdio) (Process, error) {
	if argv.Len() == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := exec.Command(argv.Name(), argv.Args()...)
	cmd.Env = e.Env
	cmd.Dir = e.Dir
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err

	if err := cmd.Start(); err != nil {
		if !isExecFailure(err) {
			return nil, &ResourceError{Op: "fork", Err: err}
		}

		if stdio.Err != nil {
			fmt.Fprintln(stdio.Err, &ExecError{Name: argv.Name(), Err: err})
		}
		return &exitedProcess{status: ExitedNormally(1)}, nil
	}

	return &execProcess{cmd: cmd}, nil
}

// isExecFailure separates "this program can't run" from "the system is out
// of processes or descriptors".
func isExecFailure(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.ENOENT, unix.EACCES, unix.ENOEXEC, unix.EISDIR,
			unix.ENOTDIR, unix.ELOOP, unix.ENAMETOOLONG, unix.ETXTBSY, unix.EPERM:
			return true
		}
	}
	return false
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Wait() ExitStatus {
	// A non-nil error is either the non-zero exit already captured in
	// ProcessState or a failed copy of a non-file stream.
	_ = p.cmd.Wait()

	state := p.cmd.ProcessState
	if state == nil {
		return ExitStatus{}
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		return exitStatusFromWait(ws)
	}
	return ExitedNormally(state.ExitCode())
}

// exitedProcess stands in for a child whose program image could not be run.
type exitedProcess struct {
	status ExitStatus
}

func (p *exitedProcess) Pid() int {
	return 0
}

func (p *exitedProcess) Wait() ExitStatus {
	return p.status
}
