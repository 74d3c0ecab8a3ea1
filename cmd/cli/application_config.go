package cli

import (
	_ "embed"
)

//go:embed default_config.yaml
var embeddedDefaultConfiguration []byte

// EmbeddedDefaultConfiguration returns the baseline configuration compiled
// into the binary along with its format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return embeddedDefaultConfiguration, configurationTypeConstant
}

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration  `mapstructure:"common"`
	Project   ApplicationProjectConfiguration `mapstructure:"project"`
	TasksFile string                          `mapstructure:"tasks_file"`
}

// ApplicationCommonConfiguration stores logging and execution defaults shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	DryRun    bool   `mapstructure:"dry_run"`
}

// ApplicationProjectConfiguration stores the toolchain settings for the current project.
type ApplicationProjectConfiguration struct {
	Package          string `mapstructure:"package"`
	LineLength       int    `mapstructure:"line_length"`
	Sources          string `mapstructure:"sources"`
	WorkingDirectory string `mapstructure:"working_directory"`
}
