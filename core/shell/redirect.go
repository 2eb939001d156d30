package shell

import (
	"fmt"
	"io"
	"os"
)

const (
	redirectIn        = "<"
	redirectOut       = ">"
	redirectOutAppend = ">>"
)

// Redirection holds the files a command's standard streams are replaced with.
// A nil field leaves the inherited stream in place.
type Redirection struct {
	Stdin  *os.File
	Stdout *os.File
}

// ResolveRedirection scans v left to right for <, > and >>, opens the named
// files into files, and returns v with each operator and its file name
// removed. When a direction is redirected more than once the last one wins.
// A file that can't be opened is reported to diag and leaves that direction
// unchanged; the rest of the command is still resolved.
func ResolveRedirection(v Vector, files *FileSet, diag io.Writer) (Vector, Redirection) {
	var redir Redirection
	argv := make([]string, 0, len(v.argv))

	for i := 0; i < len(v.argv); i++ {
		tok := v.argv[i]

		var flag int
		var target **os.File
		var kind string
		switch tok {
		case redirectIn:
			flag, target, kind = os.O_RDONLY, &redir.Stdin, "input"
		case redirectOut:
			flag, target, kind = os.O_WRONLY|os.O_CREATE|os.O_TRUNC, &redir.Stdout, "output"
		case redirectOutAppend:
			flag, target, kind = os.O_WRONLY|os.O_CREATE|os.O_APPEND, &redir.Stdout, "output"
		default:
			argv = append(argv, tok)
			continue
		}

		if i+1 >= len(v.argv) {
			fmt.Fprintf(diag, "w25shell: No %s file specified\n", kind)
			continue
		}
		i++

		f, err := files.Open(v.argv[i], flag, 0644)
		if err != nil {
			fmt.Fprintf(diag, "Failed to open %s file: %v\n", kind, err)
			continue
		}
		*target = f
	}

	return Vector{argv: argv}, redir
}
