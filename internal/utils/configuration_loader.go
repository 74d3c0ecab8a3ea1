// Package utils hosts the configuration and logging plumbing shared by the
// CLI entrypoint.
package utils

import (
	"bytes"
	"errors"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorConstant   = "_"
	configurationKeySeparatorConstant = "."
	loaderNameMissingMessageConstant  = "configuration name must be provided"
	loaderTypeMissingMessageConstant  = "configuration type must be provided"
	mapstructureTagNameConstant       = "mapstructure"
)

var (
	// ErrConfigurationNameMissing indicates the loader was built without a file name.
	ErrConfigurationNameMissing = errors.New(loaderNameMissingMessageConstant)
	// ErrConfigurationTypeMissing indicates the loader was built without a file type.
	ErrConfigurationTypeMissing = errors.New(loaderTypeMissingMessageConstant)
)

// ConfigurationMetadata reports where configuration values were read from.
type ConfigurationMetadata struct {
	ConfigFileUsed string
}

// ConfigurationLoader merges embedded defaults, configuration files, and
// environment variables into typed configuration structs. Precedence, lowest
// first: embedded configuration, defaults, configuration file, environment.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// NewConfigurationLoader builds a loader for the provided file name, type,
// environment prefix, and ordered search paths.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: strings.TrimSpace(configurationName),
		configurationType: strings.TrimSpace(configurationType),
		environmentPrefix: strings.TrimSpace(environmentPrefix),
		searchPaths:       append([]string{}, searchPaths...),
	}
}

// SetEmbeddedConfiguration registers baseline configuration content merged
// beneath every other source.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	loader.embeddedConfiguration = append([]byte{}, configurationData...)
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
}

// LoadConfiguration resolves configuration values into target and reports the
// configuration file used, if any. An explicit file path overrides the search
// paths; a missing file in the search paths is not an error.
func (loader *ConfigurationLoader) LoadConfiguration(explicitFilePath string, defaultValues map[string]any, target any) (ConfigurationMetadata, error) {
	if len(loader.configurationName) == 0 {
		return ConfigurationMetadata{}, ErrConfigurationNameMissing
	}
	if len(loader.configurationType) == 0 {
		return ConfigurationMetadata{}, ErrConfigurationTypeMissing
	}

	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if len(loader.embeddedConfiguration) > 0 {
		embeddedType := loader.embeddedConfigurationType
		if len(embeddedType) == 0 {
			embeddedType = loader.configurationType
		}
		embeddedViper := viper.New()
		embeddedViper.SetConfigType(embeddedType)
		if readError := embeddedViper.ReadConfig(bytes.NewReader(loader.embeddedConfiguration)); readError != nil {
			return ConfigurationMetadata{}, readError
		}
		if mergeError := viperInstance.MergeConfigMap(embeddedViper.AllSettings()); mergeError != nil {
			return ConfigurationMetadata{}, mergeError
		}
	}

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	trimmedExplicitPath := strings.TrimSpace(explicitFilePath)
	if len(trimmedExplicitPath) > 0 {
		viperInstance.SetConfigFile(trimmedExplicitPath)
		if readError := viperInstance.ReadInConfig(); readError != nil {
			return ConfigurationMetadata{}, readError
		}
	} else {
		for _, searchPath := range loader.searchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
		if readError := viperInstance.ReadInConfig(); readError != nil {
			var notFoundError viper.ConfigFileNotFoundError
			if !errors.As(readError, &notFoundError) {
				return ConfigurationMetadata{}, readError
			}
		}
	}

	if len(loader.environmentPrefix) > 0 {
		viperInstance.SetEnvPrefix(loader.environmentPrefix)
		viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant))
		viperInstance.AutomaticEnv()
	}

	if target != nil {
		decodeError := viperInstance.Unmarshal(target, func(decoderConfig *mapstructure.DecoderConfig) {
			decoderConfig.TagName = mapstructureTagNameConstant
			decoderConfig.WeaklyTypedInput = true
		})
		if decodeError != nil {
			return ConfigurationMetadata{}, decodeError
		}
	}

	return ConfigurationMetadata{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
