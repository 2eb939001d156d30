package commands

import (
	"errors"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/josephlewis42/w25shell/core/config"
	"github.com/josephlewis42/w25shell/core/logger"
	"github.com/josephlewis42/w25shell/core/shell"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const DefaultPrompt = "w25shell$ "

// Options configures a Shell. Zero values fall back to the process's own
// streams, the OS filesystem and the built in configuration.
type Options struct {
	Config *config.Configuration
	Fs     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log    *log.Logger
	Events *logger.SessionLogger
	// Spawner creates child processes, nil runs real programs.
	Spawner shell.Spawner
}

// Shell reads lines, parses them and dispatches them to built-ins, file
// utilities or child processes.
type Shell struct {
	Config       *config.Configuration
	Orchestrator *shell.Orchestrator
	Env          *Env
	Readline     *readline.Instance
	Color        *ColorPrinter

	Log    *log.Logger
	Events *logger.SessionLogger

	// Pid is excluded when killallterms signals the other shells.
	Pid int
	// ListProcesses and Signal are used by killallterms.
	ListProcesses func(argv []string) ([]int, error)
	Signal        func(pid int, sig unix.Signal) error

	lastRet int

	// Set to true to quit the shell
	Quit bool
	// ExitCode is returned once Quit is set.
	ExitCode int
}

// NewShell creates a shell with the given options.
func NewShell(opts Options) *Shell {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Log == nil {
		opts.Log = log.New(io.Discard)
	}

	env := &Env{
		Fs:     opts.Fs,
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}

	// Children only share real files; anything else stays with the line reader.
	childStdio := shell.Stdio{Out: opts.Stdout, Err: opts.Stderr}
	if f, ok := opts.Stdin.(*os.File); ok {
		childStdio.In = f
	}

	orch := shell.NewOrchestrator(childStdio, opts.Config.Limits.ShellLimits())
	if opts.Spawner != nil {
		orch.Spawner = opts.Spawner
	}
	orch.Log = opts.Log
	orch.Events = opts.Events

	s := &Shell{
		Config:        opts.Config,
		Orchestrator:  orch,
		Env:           env,
		Color:         NewColorPrinter(opts.Config.Color, opts.Stderr),
		Log:           opts.Log,
		Events:        opts.Events,
		Pid:           os.Getpid(),
		ListProcesses: listProcesses,
		Signal:        signalProcess,
	}
	orch.Diag = opts.Stderr
	orch.Report = s.printError

	return s
}

func (s *Shell) prompt() string {
	if s.Config.Prompt == "" {
		return DefaultPrompt
	}
	return s.Config.Prompt
}

func (s *Shell) initReadline() error {
	cfg := &readline.Config{
		Prompt:      s.prompt(),
		HistoryFile: s.Config.HistoryFile,
		// Closing the line reader must not close the shell's input.
		Stdin:       io.NopCloser(s.Env.Stdin),
		Stdout:      s.Env.Stdout,
		Stderr:      s.Env.Stderr,
		FuncGetWidth: func() int {
			if f, ok := s.Env.Stdout.(*os.File); ok {
				if width, _, err := term.GetSize(int(f.Fd())); err == nil {
					return width
				}
			}
			return 80
		},
		FuncIsTerminal: func() bool {
			return isTerminal(s.Env.Stdin) && isTerminal(s.Env.Stdout)
		},
	}

	if err := cfg.Init(); err != nil {
		return err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	s.Readline = rl
	return nil
}

// RunInteractive reads and executes lines until end of input or a built-in
// quits the shell, then returns the exit code.
func (s *Shell) RunInteractive() (int, error) {
	if err := s.initReadline(); err != nil {
		return 1, err
	}
	defer s.Readline.Close()

	for !s.Quit {
		s.Readline.SetPrompt(s.prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			// Input closed, quit.
			io.WriteString(s.Env.Stdout, "\n")
			return 0, nil

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			s.Log.Error("reading line", "err", err)
			continue

		default:
			s.Execute(line)
		}
	}

	return s.ExitCode, nil
}

// RunCommand executes a single line and returns the exit code.
func (s *Shell) RunCommand(line string) int {
	s.Execute(line)
	if s.Quit {
		return s.ExitCode
	}
	return s.lastRet
}

// LastReturn is the exit code of the most recently executed line.
func (s *Shell) LastReturn() int {
	return s.lastRet
}

// Execute parses and runs one line. Every error is reported to the user and
// none of them stop the shell.
func (s *Shell) Execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	s.Events.Record(&logger.Line{Text: line})

	pipeline, err := shell.Parse(line, s.Orchestrator.Limits)
	if err != nil {
		s.fail(err)
		return
	}
	s.Log.Debug("parsed line", "connector", pipeline.Connector, "commands", len(pipeline.Commands))

	if len(pipeline.Commands) == 1 {
		if builtin, ok := AllBuiltins[pipeline.Commands[0].Name()]; ok {
			s.Events.Record(&logger.Builtin{Name: pipeline.Commands[0].Name()})
			s.lastRet = builtin.Main(s, pipeline.Commands[0].Argv())
			return
		}
	}

	if utility, ok := AllFileUtilities[pipeline.Connector]; ok {
		if !utility.Accepts(len(pipeline.Commands)) {
			s.fail(shell.ErrUnsupported)
			return
		}

		var argvs [][]string
		for _, cmd := range pipeline.Commands {
			argvs = append(argvs, cmd.Argv())
		}
		s.Events.Record(&logger.Dispatch{Connector: pipeline.Connector.String(), Commands: argvs})
		s.lastRet = utility.Run(s.Env, fileOperands(pipeline.Commands))
		return
	}

	status, err := s.Orchestrator.Dispatch(pipeline)
	if err != nil {
		s.fail(err)
		return
	}
	s.lastRet = status.ExitCode()
}

// fileOperands takes the first token of every command as a file name.
func fileOperands(cmds []shell.Vector) []string {
	var files []string
	for _, cmd := range cmds {
		files = append(files, cmd.Name())
	}
	return files
}

func (s *Shell) fail(err error) {
	s.lastRet = 1
	s.Events.Record(&logger.DispatchError{Kind: errorKind(err), Error: err.Error()})
	s.printError(err)
}

func (s *Shell) printError(err error) {
	s.Color.Fprintln(ColorBoldRed, "w25shell: %s", capitalize(err.Error()))
}

func capitalize(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

func errorKind(err error) string {
	var resourceErr *shell.ResourceError
	switch {
	case errors.Is(err, shell.ErrParse):
		return "parse"
	case errors.Is(err, shell.ErrInvalidArgumentCount),
		errors.Is(err, shell.ErrTooManyArguments),
		errors.Is(err, shell.ErrEmptyCommand),
		errors.Is(err, shell.ErrTooManyCommands):
		return "arguments"
	case errors.Is(err, shell.ErrUnsupported):
		return "unsupported"
	case errors.As(err, &resourceErr):
		return "resource"
	default:
		return "other"
	}
}
