package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/josephlewis42/w25shell/core/shell"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, "w25shell$ ", cfg.Prompt)
	assert.Equal(t, shell.DefaultLimits, cfg.Limits.ShellLimits())
	assert.Equal(t, "w25shell", cfg.Killall.ProcessName)
}

func TestKillall_ListArgv(t *testing.T) {
	argv, err := Killall{ListCommand: `pgrep -x "w25 shell"`}.ListArgv()
	assert.NoError(t, err)
	assert.Equal(t, []string{"pgrep", "-x", "w25 shell"}, argv)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Configuration)
		field  string
	}{
		"empty prompt":  {func(c *Configuration) { c.Prompt = "" }, "prompt"},
		"zero args":     {func(c *Configuration) { c.Limits.MaxArgs = 0 }, "max_args"},
		"huge pipeline": {func(c *Configuration) { c.Limits.MaxCommands = 65 }, "max_commands"},
		"short line":    {func(c *Configuration) { c.Limits.MaxLineLength = 8 }, "max_line_length"},
		"bad level":     {func(c *Configuration) { c.LogLevel = "loud" }, "log_level"},
		"bad color":     {func(c *Configuration) { c.Color = "rainbow" }, "color"},
		"no list cmd":   {func(c *Configuration) { c.Killall.ListCommand = "" }, "list_command"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}
