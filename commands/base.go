package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/josephlewis42/w25shell/core/shell"
	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// Env holds the filesystem and streams a built-in or file utility runs with.
type Env struct {
	Fs     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// FileUtilityFunc runs a file utility on the named files.
type FileUtilityFunc func(env *Env, files []string) int

// FileUtility is a utility selected by a connector rather than a name.
type FileUtility struct {
	Name      string
	Connector shell.Connector
	// Arity is the exact number of files required, 0 accepts any number.
	Arity int
	Run   FileUtilityFunc
}

// Accepts reports whether the utility can run on n files.
func (u FileUtility) Accepts(n int) bool {
	return u.Arity == 0 || u.Arity == n
}

// AllFileUtilities holds the registered file utilities by connector.
var AllFileUtilities = make(map[shell.Connector]FileUtility)

// addFileUtility registers a utility under a connector.
func addFileUtility(connector shell.Connector, name string, arity int, run FileUtilityFunc) {
	AllFileUtilities[connector] = FileUtility{Name: name, Connector: connector, Arity: arity, Run: run}
}

// ListFileUtilities returns the registered utilities ordered by connector.
func ListFileUtilities() []FileUtility {
	var connectors []shell.Connector
	for c := range AllFileUtilities {
		connectors = append(connectors, c)
	}
	sort.Slice(connectors, func(i, j int) bool { return connectors[i] < connectors[j] })

	var out []FileUtility
	for _, c := range connectors {
		out = append(out, AllFileUtilities[c])
	}
	return out
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was successful call the callback.
func (s *SimpleCommand) Run(env *Env, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(args, nil)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %s\n\n", err)

		s.PrintHelp(env.Stdout)
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(env.Stdout)
		return 0
	}

	return callback()
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var ColorBoldRed = color.New(color.FgRed, color.Bold)

// ColorPrinter decides whether output to a stream gets colored.
type ColorPrinter struct {
	mode string
	out  io.Writer
}

// NewColorPrinter creates a printer for out using mode always, auto or never.
// In auto mode output is colored only when out is a terminal.
func NewColorPrinter(mode string, out io.Writer) *ColorPrinter {
	return &ColorPrinter{mode: mode, out: out}
}

func (c *ColorPrinter) ShouldColor() bool {
	switch c.mode {
	case colorNever:
		return false
	case colorAlways:
		return true
	default:
		return isTerminal(c.out)
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		// The package default follows os.Stdout, which may not be c.out.
		forced := *color
		forced.EnableColor()
		return forced.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

// Fprintln writes one colored line to the printer's stream.
func (c *ColorPrinter) Fprintln(color *color.Color, format string, a ...interface{}) {
	fmt.Fprintln(c.out, c.Sprintf(color, format, a...))
}

func isTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
