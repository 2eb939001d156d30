package cmd

import (
	"github.com/josephlewis42/w25shell/core/config"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write the default configuration to DIR (default: the current directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		return config.Initialize(dir, newLogger(cmd.ErrOrStderr(), "info"))
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
