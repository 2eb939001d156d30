package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

// testEnv creates an Env on an in-memory filesystem.
func testEnv(t *testing.T, files map[string]string) (*Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, contents := range files {
		assert.NoError(t, afero.WriteFile(fs, name, []byte(contents), 0600))
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Env{Fs: fs, Stdout: stdout, Stderr: stderr}, stdout, stderr
}

func TestWordCount(t *testing.T) {
	cases := map[string]struct {
		contents string
		want     int
	}{
		"empty":             {"", 0},
		"single":            {"hello", 1},
		"separators":        {"Hello,\nworld !", 3},
		"runs":              {"  a \t\t b\n\n c  ", 3},
		"other whitespace":  {"a\rb\vc", 1},
		"trailing newlines": {"one two\n\n\n", 2},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			var count wordCount
			count.Write([]byte(tc.contents))
			assert.Equal(t, tc.want, count.words)
		})
	}
}

func TestWordCount_splitWrites(t *testing.T) {
	var count wordCount
	count.Write([]byte("hel"))
	count.Write([]byte("lo wor"))
	count.Write([]byte("ld"))
	assert.Equal(t, 2, count.words)
}

func TestCountWords(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		env, stdout, stderr := testEnv(t, map[string]string{"foo.txt": "Hello,\nworld !"})

		assert.Equal(t, 0, CountWords(env, []string{"foo.txt"}))
		assert.Equal(t, "Number of words in foo.txt: 3\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("missing", func(t *testing.T) {
		env, stdout, stderr := testEnv(t, nil)

		assert.Equal(t, 1, CountWords(env, []string{"foo.txt"}))
		assert.Empty(t, stdout.String())
		assert.Equal(t, "Failed to open file: open foo.txt: file does not exist\n", stderr.String())
	})

	t.Run("wrong arity", func(t *testing.T) {
		env, _, stderr := testEnv(t, nil)

		assert.Equal(t, 1, CountWords(env, []string{"a", "b"}))
		assert.Contains(t, stderr.String(), "usage")
	})
}
