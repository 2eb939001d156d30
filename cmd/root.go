package cmd

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/w25shell/commands"
	"github.com/josephlewis42/w25shell/core/config"
	"github.com/josephlewis42/w25shell/core/logger"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
	exitCode    int
)

func loadConfig(logger *log.Logger) (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Error("couldn't load config, did you run init?", "path", cfgPath)
	}

	return configuration, err
}

// newLogger creates a diagnostic logger, unknown levels fall back to warn.
func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: "w25shell",
		Level:  lvl,
	})
}

// openEvents starts a session on the configured event log. The returned
// function closes the log.
func openEvents(configuration *config.Configuration) (*logger.SessionLogger, func() error, error) {
	fd, err := configuration.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}
	if fd == nil {
		return nil, func() error { return nil }, nil
	}

	return logger.NewJsonLinesLogRecorder(fd).NewSession(), fd.Close, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "w25shell",
	Short: "A small shell with pipes, redirection and file utilities.",
	Long: `w25shell reads lines from standard input and runs them.

Commands can be joined with | (pipe), = (reverse pipe), ; (sequence),
&& and || (conditional). Files can be joined with ~ (append to each other),
# (count words) and + (concatenate).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig(newLogger(cmd.ErrOrStderr(), "warn"))
		if err != nil {
			return err
		}
		diag := newLogger(cmd.ErrOrStderr(), configuration.LogLevel)

		events, closeEvents, err := openEvents(configuration)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeEvents(); err != nil {
				diag.Warn("closing event log", "err", err)
			}
		}()

		sh := commands.NewShell(commands.Options{
			Config: configuration,
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			Log:    diag,
			Events: events,
		})

		if cmd.Flags().Changed("command") {
			exitCode = sh.RunCommand(commandLine)
			return nil
		}

		exitCode, err = sh.RunInteractive()
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path, the built in configuration is used if empty")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit with its status")
}
