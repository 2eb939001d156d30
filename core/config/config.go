package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/w25shell/core/shell"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const ConfigurationName = "config.yaml"

type Configuration struct {
	configFs afero.Fs

	Prompt      string `json:"prompt" validate:"required"`
	HistoryFile string `json:"history_file"`
	EventLog    string `json:"event_log"`
	LogLevel    string `json:"log_level" validate:"oneof=debug info warn error"`
	Color       string `json:"color" validate:"oneof=auto always never"`

	Limits Limits `json:"limits"`

	Killall Killall `json:"killall"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type Limits struct {
	MaxArgs           int  `json:"max_args" validate:"gte=1,lte=64"`
	MaxCommands       int  `json:"max_commands" validate:"gte=1,lte=64"`
	MaxLineLength     int  `json:"max_line_length" validate:"gte=16,lte=65536"`
	StrictPipelineCap bool `json:"strict_pipeline_cap"`
}

// ShellLimits converts the limits to the form the parser uses.
func (l Limits) ShellLimits() shell.Limits {
	return shell.Limits{
		MaxArgs:           l.MaxArgs,
		MaxCommands:       l.MaxCommands,
		MaxLineLength:     l.MaxLineLength,
		StrictPipelineCap: l.StrictPipelineCap,
	}
}

type Killall struct {
	ProcessName string `json:"process_name" validate:"required"` // Name the processes run under e.g. "w25shell".
	ListCommand string `json:"list_command" validate:"required"` // Prints one pid per line e.g. "pgrep w25shell".
}

// ListArgv splits the list command into program and arguments.
func (k Killall) ListArgv() ([]string, error) {
	return shlex.Split(k.ListCommand, true)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// OpenEventLog opens the event log in an append only state. It returns nil
// when the event log is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, nil
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// Default returns the built in configuration.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	out.configFs = afero.NewOsFs()
	return &out
}
