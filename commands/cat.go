package commands

import (
	"fmt"
	"io"

	"github.com/josephlewis42/w25shell/core/shell"
)

// Concatenate writes each file to standard output in order. Files that can't
// be opened are reported and skipped.
func Concatenate(env *Env, files []string) int {
	ret := 0
	for _, name := range files {
		fd, err := env.Fs.Open(name)
		if err != nil {
			fmt.Fprintf(env.Stderr, "Failed to open file %s: %v\n", name, err)
			ret = 1
			continue
		}

		_, err = io.Copy(env.Stdout, fd)
		fd.Close()
		if err != nil {
			fmt.Fprintf(env.Stderr, "Failed to read file %s: %v\n", name, err)
			ret = 1
		}
	}

	return ret
}

var _ FileUtilityFunc = Concatenate

func init() {
	addFileUtility(shell.ConnectorConcatenate, "concatenate", 0, Concatenate)
}
