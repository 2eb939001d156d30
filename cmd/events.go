package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/w25shell/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report [LOG]",
	Short: "Show a report of events, read from the configured event log if LOG is empty.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var fd io.ReadCloser
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			fd = f
		} else {
			configuration, err := loadConfig(newLogger(cmd.ErrOrStderr(), "warn"))
			if err != nil {
				return err
			}
			if configuration.EventLog == "" {
				return fmt.Errorf("no event log configured, pass one as an argument")
			}
			f, err := configuration.ReadEventLog()
			if err != nil {
				return err
			}
			fd = f
		}
		defer fd.Close()

		return writeReport(cmd.OutOrStdout(), fd)
	},
}

// writeReport aggregates the JSON lines log in r and prints it as YAML.
func writeReport(w io.Writer, r io.Reader) error {
	report := logger.NewReport()
	if err := logger.ReadJSONLinesLog(r, report.Update); err != nil {
		return err
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(out))
	return err
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
}
