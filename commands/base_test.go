package commands

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/josephlewis42/w25shell/core/config"
	"github.com/josephlewis42/w25shell/core/shell"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestAllBuiltins(t *testing.T) {
	assert.Equal(t, []string{"killallterms", "killterm"}, ListBuiltins())
	for _, name := range ListBuiltins() {
		t.Run(name, func(t *testing.T) {
			if AllBuiltins[name] == nil {
				t.Fatal("nil builtin", name)
			}
		})
	}
}

func TestAllFileUtilities(t *testing.T) {
	utilities := ListFileUtilities()
	assert.Len(t, utilities, 3)
	for _, utility := range utilities {
		t.Run(utility.Name, func(t *testing.T) {
			if utility.Run == nil {
				t.Fatal("nil utility", utility.Name)
			}
		})
	}

	assert.True(t, AllFileUtilities[shell.ConnectorAppend].Accepts(2))
	assert.False(t, AllFileUtilities[shell.ConnectorAppend].Accepts(3))
	assert.True(t, AllFileUtilities[shell.ConnectorConcatenate].Accepts(6))

	var connectors []shell.Connector
	for _, utility := range utilities {
		connectors = append(connectors, utility.Connector)
	}
	assert.Equal(t, []shell.Connector{shell.ConnectorAppend, shell.ConnectorWordCount, shell.ConnectorConcatenate}, connectors)
}

// syncBuffer collects output from children that write concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testShell creates a shell on an in-memory filesystem with stdout and
// stderr going to the same buffer.
func testShell(t *testing.T, files map[string]string) (*Shell, *syncBuffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, contents := range files {
		if err := afero.WriteFile(fs, name, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Color = colorNever

	out := &syncBuffer{}
	s := NewShell(Options{
		Config: cfg,
		Fs:     fs,
		Stdin:  strings.NewReader(""),
		Stdout: out,
		Stderr: out,
	})
	return s, out
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Line string
	// Files are created before the line runs and dumped after it.
	Files map[string]string
}

func (gts goldenTestSuite) Run(t *testing.T) {
	t.Helper()

	for _, name := range []string{"echo", "tr", "true", "false"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			s, out := testShell(t, tc.Files)
			code := s.RunCommand(tc.Line)

			transcript := &bytes.Buffer{}
			transcript.WriteString(out.String())
			fmt.Fprintf(transcript, "exit: %d\n", code)

			var names []string
			for name := range tc.Files {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				contents, err := afero.ReadFile(s.Env.Fs, name)
				if err != nil {
					t.Fatal(err)
				}
				fmt.Fprintf(transcript, "file %s: %q\n", name, contents)
			}

			g.Assert(t, tn, transcript.Bytes())
		})
	}
}

func TestColorPrinter(t *testing.T) {
	cases := map[string]struct {
		mode    string
		colored bool
	}{
		"always": {colorAlways, true},
		"never":  {colorNever, false},
		// A buffer is never a terminal.
		"auto": {colorAuto, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			var out bytes.Buffer
			printer := NewColorPrinter(tc.mode, &out)
			printer.Fprintln(ColorBoldRed, "w25shell: %s", "oops")

			assert.Equal(t, tc.colored, printer.ShouldColor())
			assert.Contains(t, out.String(), "w25shell: oops")
			assert.Equal(t, tc.colored, strings.Contains(out.String(), "\x1b["))
		})
	}
}

func TestSimpleCommand(t *testing.T) {
	t.Run("bad flag", func(t *testing.T) {
		env, stdout, stderr := testEnv(t, nil)
		cmd := &SimpleCommand{Use: "thing", Short: "Does a thing."}

		called := false
		ret := cmd.Run(env, []string{"thing", "--bogus"}, func() int {
			called = true
			return 0
		})

		assert.Equal(t, 1, ret)
		assert.False(t, called)
		assert.Contains(t, stderr.String(), "error: ")
		assert.Contains(t, stdout.String(), "usage: thing")
	})

	t.Run("runs callback", func(t *testing.T) {
		env, _, _ := testEnv(t, nil)
		cmd := &SimpleCommand{Use: "thing", Short: "Does a thing."}

		assert.Equal(t, 3, cmd.Run(env, []string{"thing"}, func() int { return 3 }))
	})
}
