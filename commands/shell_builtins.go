package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// ListBuiltins returns the names of all builtins in order.
func ListBuiltins() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Killterm quits the shell.
func Killterm(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "killterm",
		Short: "Terminate this shell.",
	}

	return cmd.Run(s.Env, args, func() int {
		fmt.Fprintln(s.Env.Stdout, "Killing current terminal...")
		s.Quit = true
		s.ExitCode = 0
		return 0
	})
}

// Killallterms sends SIGTERM to every other running shell, then quits.
func Killallterms(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "killallterms",
		Short: "Terminate every running shell, this one last.",
	}

	return cmd.Run(s.Env, args, func() int {
		fmt.Fprintf(s.Env.Stdout, "Killing all %s terminals...\n", s.Config.Killall.ProcessName)

		argv, err := s.Config.Killall.ListArgv()
		if err == nil && len(argv) == 0 {
			err = errors.New("empty list command")
		}
		if err != nil {
			fmt.Fprintf(s.Env.Stderr, "Failed to run %q: %v\n", s.Config.Killall.ListCommand, err)
			return 1
		}

		pids, err := s.ListProcesses(argv)
		if err != nil {
			fmt.Fprintf(s.Env.Stderr, "Failed to run %s: %v\n", argv[0], err)
			return 1
		}

		for _, pid := range pids {
			// This shell exits on its own below.
			if pid == s.Pid {
				continue
			}
			if err := s.Signal(pid, unix.SIGTERM); err != nil {
				s.Log.Warn("signaling shell", "pid", pid, "err", err)
				continue
			}
			s.Log.Debug("signaled shell", "pid", pid)
		}

		s.Quit = true
		s.ExitCode = 0
		return 0
	})
}

// listProcesses runs argv and reads one pid per line from its output.
func listProcesses(argv []string) ([]int, error) {
	out, err := exec.Command(argv[0], argv[1:]...).Output()

	// pgrep exits 1 when nothing matched, the output is still what counts.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}

	return parsePids(out), nil
}

// parsePids reads positive integers one per line, skipping anything else.
func parsePids(out []byte) []int {
	var pids []int
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		pid, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}

func signalProcess(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

func init() {
	AllBuiltins["killterm"] = ShellBuiltinFunc(Killterm)
	AllBuiltins["killallterms"] = ShellBuiltinFunc(Killallterms)
}
