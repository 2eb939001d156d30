package commands

import (
	"fmt"
	"os"

	"github.com/josephlewis42/w25shell/core/shell"
	"github.com/spf13/afero"
)

// AppendFiles appends the second file to the first, then appends the
// combined first file to the second. Files "A" and "B" end up as "AB" and
// "BAB".
func AppendFiles(env *Env, files []string) int {
	if len(files) != 2 {
		fmt.Fprintln(env.Stderr, "usage: FILE1 ~ FILE2")
		return 1
	}
	first, second := files[0], files[1]

	if err := appendFile(env.Fs, first, second); err != nil {
		fmt.Fprintf(env.Stderr, "Failed to append %s to %s: %v\n", second, first, err)
		return 1
	}
	if err := appendFile(env.Fs, second, first); err != nil {
		fmt.Fprintf(env.Stderr, "Failed to append %s to %s: %v\n", first, second, err)
		return 1
	}

	fmt.Fprintln(env.Stdout, "Files appended successfully")
	return 0
}

// appendFile copies everything in src onto the end of dst. src is read in
// full first so a file can be appended to itself.
func appendFile(fs afero.Fs, dst, src string) error {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return err
	}

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var _ FileUtilityFunc = AppendFiles

func init() {
	addFileUtility(shell.ConnectorAppend, "append", 2, AppendFiles)
}
