package cmd

import (
	"fmt"
	"io"

	"github.com/josephlewis42/w25shell/commands"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the shell builtins and file utilities.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeBuiltins(cmd.OutOrStdout())
		return nil
	},
}

// writeBuiltins lists builtins by name, then file utilities by connector.
func writeBuiltins(w io.Writer) {
	for _, name := range commands.ListBuiltins() {
		fmt.Fprintln(w, "shell:"+name)
	}

	for _, utility := range commands.ListFileUtilities() {
		fmt.Fprintf(w, "file:%s (%s)\n", utility.Name, utility.Connector.Symbol())
	}
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
