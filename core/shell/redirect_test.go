package shell

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustVector(t *testing.T, tokens ...string) Vector {
	t.Helper()

	v, err := NewVector(tokens, 0)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestResolveRedirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	assert.NoError(t, os.WriteFile(in, []byte("input"), 0644))

	t.Run("input and output", func(t *testing.T) {
		var files FileSet
		defer files.Close()
		var diag bytes.Buffer

		argv, redir := ResolveRedirection(mustVector(t, "sort", "<", in, ">", out), &files, &diag)
		assert.Equal(t, []string{"sort"}, argv.Argv())
		assert.NotNil(t, redir.Stdin)
		assert.NotNil(t, redir.Stdout)
		assert.Equal(t, 2, files.Len())
		assert.Empty(t, diag.String())

		got, err := io.ReadAll(redir.Stdin)
		assert.NoError(t, err)
		assert.Equal(t, "input", string(got))
	})

	t.Run("truncate then append", func(t *testing.T) {
		assert.NoError(t, os.WriteFile(out, []byte("old"), 0644))

		var files FileSet
		_, redir := ResolveRedirection(mustVector(t, "echo", ">", out), &files, io.Discard)
		_, err := redir.Stdout.WriteString("a")
		assert.NoError(t, err)
		assert.NoError(t, files.Close())

		_, redir = ResolveRedirection(mustVector(t, "echo", ">>", out), &files, io.Discard)
		_, err = redir.Stdout.WriteString("b")
		assert.NoError(t, err)
		assert.NoError(t, files.Close())

		got, err := os.ReadFile(out)
		assert.NoError(t, err)
		assert.Equal(t, "ab", string(got))
	})

	t.Run("last wins", func(t *testing.T) {
		first := filepath.Join(dir, "first.txt")

		var files FileSet
		defer files.Close()
		_, redir := ResolveRedirection(mustVector(t, "echo", ">", first, ">", out), &files, io.Discard)
		assert.Equal(t, out, redir.Stdout.Name())
		assert.Equal(t, 2, files.Len())
	})

	t.Run("missing file name", func(t *testing.T) {
		var files FileSet
		var diag bytes.Buffer

		argv, redir := ResolveRedirection(mustVector(t, "cat", "<"), &files, &diag)
		assert.Equal(t, []string{"cat"}, argv.Argv())
		assert.Nil(t, redir.Stdin)
		assert.Equal(t, "w25shell: No input file specified\n", diag.String())
	})

	t.Run("open failure continues", func(t *testing.T) {
		var files FileSet
		defer files.Close()
		var diag bytes.Buffer

		argv, redir := ResolveRedirection(
			mustVector(t, "cat", "<", filepath.Join(dir, "missing"), ">", out), &files, &diag)
		assert.Equal(t, []string{"cat"}, argv.Argv())
		assert.Nil(t, redir.Stdin)
		assert.NotNil(t, redir.Stdout)
		assert.Contains(t, diag.String(), "Failed to open input file: ")
	})

	t.Run("no operators", func(t *testing.T) {
		var files FileSet
		argv, redir := ResolveRedirection(mustVector(t, "ls", "-l"), &files, io.Discard)
		assert.Equal(t, []string{"ls", "-l"}, argv.Argv())
		assert.Equal(t, Redirection{}, redir)
		assert.Equal(t, 0, files.Len())
	})
}

func TestFileSet_Close(t *testing.T) {
	var files FileSet
	pipes, err := files.Pipes(3)
	assert.NoError(t, err)
	assert.Equal(t, 3, pipes.Len())
	assert.Equal(t, 6, files.Len())

	assert.NoError(t, files.Close())
	assert.Equal(t, 0, files.Len())
	assert.NoError(t, files.Close())

	_, err = pipes.Writer(0).Write([]byte("x"))
	assert.Error(t, err)
}
