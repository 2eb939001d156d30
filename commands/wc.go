package commands

import (
	"fmt"
	"io"

	"github.com/josephlewis42/w25shell/core/shell"
)

// wordCount counts runs of bytes between spaces, tabs and newlines. Other
// whitespace is part of a word.
type wordCount struct {
	words  int
	inWord bool
}

func (w *wordCount) Write(data []byte) (int, error) {
	for _, c := range data {
		switch c {
		case ' ', '\n', '\t':
			w.inWord = false
		default:
			if !w.inWord {
				w.words++
			}
			w.inWord = true
		}
	}

	return len(data), nil
}

// CountWords counts the words in a file.
func CountWords(env *Env, files []string) int {
	if len(files) != 1 {
		fmt.Fprintln(env.Stderr, "usage: # FILE")
		return 1
	}
	name := files[0]

	fd, err := env.Fs.Open(name)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Failed to open file: %v\n", err)
		return 1
	}
	defer fd.Close()

	var count wordCount
	if _, err := io.Copy(&count, fd); err != nil {
		fmt.Fprintf(env.Stderr, "Failed to read file: %v\n", err)
		return 1
	}

	fmt.Fprintf(env.Stdout, "Number of words in %s: %d\n", name, count.words)
	return 0
}

var _ FileUtilityFunc = CountWords

func init() {
	addFileUtility(shell.ConnectorWordCount, "word count", 1, CountWords)
}
