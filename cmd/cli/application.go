// Package cli assembles the smoltask command hierarchy, configuration
// loading, and logging.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"smoltask/internal/catalog"
	"smoltask/internal/cleanup"
	"smoltask/internal/execshell"
	"smoltask/internal/taskfile"
	"smoltask/internal/taskrun"
	"smoltask/internal/toolchain"
	"smoltask/internal/utils"
	"smoltask/internal/version"
)

const (
	applicationNameConstant                            = "smoltask"
	applicationShortDescriptionConstant                = "Task runner for Python project maintenance"
	applicationLongDescriptionConstant                 = "smoltask runs formatting, linting, type checking, and cleanup tasks with make-style prerequisite resolution."
	configFileFlagNameConstant                         = "config"
	configFileFlagUsageConstant                        = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                           = "log-level"
	logLevelFlagUsageConstant                          = "Override the configured log level (debug, info, warn, error)."
	logFormatFlagNameConstant                          = "log-format"
	logFormatFlagUsageConstant                         = "Override the configured log format (structured or console)."
	dryRunFlagNameConstant                             = "dry-run"
	dryRunFlagUsageConstant                            = "Resolve and report the execution plan without running commands."
	tasksFileFlagNameConstant                          = "tasks-file"
	tasksFileFlagUsageConstant                         = "Optional path to a YAML file declaring additional tasks."
	lineLengthFlagNameConstant                         = "line-length"
	lineLengthFlagUsageConstant                        = "Override the configured formatter line length."
	packageFlagNameConstant                            = "package"
	packageFlagUsageConstant                           = "Override the configured package name checked by mypy."
	versionFlagNameConstant                            = "version"
	versionFlagUsageConstant                           = "Print the application version and exit"
	versionOutputTemplateConstant                      = "smoltask version: %s\n"
	commonConfigurationKeyConstant                     = "common"
	commonLogLevelConfigKeyConstant                    = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant                   = commonConfigurationKeyConstant + ".log_format"
	commonDryRunConfigKeyConstant                      = commonConfigurationKeyConstant + ".dry_run"
	projectConfigurationKeyConstant                    = "project"
	projectPackageConfigKeyConstant                    = projectConfigurationKeyConstant + ".package"
	projectLineLengthConfigKeyConstant                 = projectConfigurationKeyConstant + ".line_length"
	projectSourcesConfigKeyConstant                    = projectConfigurationKeyConstant + ".sources"
	tasksFileConfigKeyConstant                         = "tasks_file"
	environmentPrefixConstant                          = "SMOLTASK"
	configurationNameConstant                          = "config"
	configurationTypeConstant                          = "yaml"
	defaultConfigurationSearchPathConstant             = "."
	userConfigurationDirectoryNameConstant             = ".smoltask"
	configurationSearchPathEnvironmentVariableConstant = "SMOLTASK_CONFIG_SEARCH_PATH"
	xdgConfigHomeEnvironmentVariableConstant           = "XDG_CONFIG_HOME"
	configurationLoadErrorTemplateConstant             = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant                = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                    = "unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant              = "unable to determine working directory: %w"
	tasksFileLoadErrorTemplateConstant                 = "unable to load tasks file: %w"
	configurationInitializedMessageConstant            = "configuration initialized"
	configurationLogLevelFieldConstant                 = "log_level"
	configurationLogFormatFieldConstant                = "log_format"
	configurationFileFieldConstant                     = "config_file"
)

type loggerOutputsFactory interface {
	CreateLoggerOutputs(utils.LogLevel, utils.LogFormat) (utils.LoggerOutputs, error)
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         loggerOutputsFactory
	logger                *zap.Logger
	consoleLogger         *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.ConfigurationMetadata
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	dryRunFlagValue       bool
	tasksFileFlagValue    string
	lineLengthFlagValue   int
	packageFlagValue      string
	versionFlag           bool
	versionResolver       func(context.Context) string
	exitFunction          func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		loggerFactory: utils.NewLoggerFactory(),
		logger:        zap.NewNop(),
		consoleLogger: zap.NewNop(),
	}
	application.versionResolver = application.resolveVersion
	application.exitFunction = os.Exit

	application.configurationLoader = utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		application.resolveConfigurationSearchPaths(),
	)

	embeddedConfigurationData, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	application.configurationLoader.SetEmbeddedConfiguration(embeddedConfigurationData, embeddedConfigurationType)

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if initializationError := application.initializeConfiguration(command); initializationError != nil {
				return initializationError
			}

			if application.versionFlag {
				application.printVersion(command)
				application.exitFunction(0)
			}

			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(&application.dryRunFlagValue, dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.tasksFileFlagValue, tasksFileFlagNameConstant, "", tasksFileFlagUsageConstant)
	cobraCommand.PersistentFlags().IntVar(&application.lineLengthFlagValue, lineLengthFlagNameConstant, 0, lineLengthFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.packageFlagValue, packageFlagNameConstant, "", packageFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(&application.versionFlag, versionFlagNameConstant, false, versionFlagUsageConstant)

	application.registerCommands(cobraCommand)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) resolveConfigurationSearchPaths() []string {
	overrideValue := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentVariableConstant))
	if len(overrideValue) == 0 {
		defaultSearchPaths := []string{defaultConfigurationSearchPathConstant}
		defaultSearchPaths = append(defaultSearchPaths, application.resolveUserConfigurationDirectoryPaths()...)
		return defaultSearchPaths
	}

	overridePaths := strings.FieldsFunc(overrideValue, func(candidate rune) bool {
		return candidate == os.PathListSeparator
	})

	cleanedPaths := make([]string, 0, len(overridePaths))
	for _, pathCandidate := range overridePaths {
		trimmedCandidate := strings.TrimSpace(pathCandidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		cleanedPaths = append(cleanedPaths, trimmedCandidate)
	}

	if len(cleanedPaths) == 0 {
		return []string{defaultConfigurationSearchPathConstant}
	}

	return cleanedPaths
}

func (application *Application) resolveUserConfigurationDirectoryPaths() []string {
	userConfigurationDirectoryPaths := make([]string, 0, 3)

	appendConfigurationDirectory := func(baseDirectoryPath string) {
		trimmedBaseDirectoryPath := strings.TrimSpace(baseDirectoryPath)
		if len(trimmedBaseDirectoryPath) == 0 {
			return
		}

		candidateDirectoryPath := filepath.Join(trimmedBaseDirectoryPath, userConfigurationDirectoryNameConstant)
		for _, existingDirectoryPath := range userConfigurationDirectoryPaths {
			if existingDirectoryPath == candidateDirectoryPath {
				return
			}
		}

		userConfigurationDirectoryPaths = append(userConfigurationDirectoryPaths, candidateDirectoryPath)
	}

	appendConfigurationDirectory(os.Getenv(xdgConfigHomeEnvironmentVariableConstant))

	userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
	if userConfigurationDirectoryError == nil {
		appendConfigurationDirectory(userConfigurationBaseDirectoryPath)
	}

	userHomeDirectoryPath, userHomeDirectoryError := os.UserHomeDir()
	if userHomeDirectoryError == nil {
		appendConfigurationDirectory(userHomeDirectoryPath)
	}

	return userConfigurationDirectoryPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:    string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:   string(utils.LogFormatConsole),
		commonDryRunConfigKeyConstant:      false,
		projectPackageConfigKeyConstant:    toolchain.DefaultPackageName,
		projectLineLengthConfigKeyConstant: toolchain.DefaultLineLength,
		projectSourcesConfigKeyConstant:    toolchain.DefaultSourcePattern,
		tasksFileConfigKeyConstant:         "",
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, dryRunFlagNameConstant) {
		application.configuration.Common.DryRun = application.dryRunFlagValue
	}
	if application.persistentFlagChanged(command, tasksFileFlagNameConstant) {
		application.configuration.TasksFile = application.tasksFileFlagValue
	}
	if application.persistentFlagChanged(command, lineLengthFlagNameConstant) {
		application.configuration.Project.LineLength = application.lineLengthFlagValue
	}
	if application.persistentFlagChanged(command, packageFlagNameConstant) {
		application.configuration.Project.Package = application.packageFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	if application.logger == nil {
		application.logger = zap.NewNop()
	}

	application.consoleLogger = loggerOutputs.ConsoleLogger
	if application.consoleLogger == nil {
		application.consoleLogger = zap.NewNop()
	}

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	for _, flagSet := range []*pflag.FlagSet{command.Flags(), command.InheritedFlags()} {
		if resolvedFlag := flagSet.Lookup(flagName); resolvedFlag != nil {
			return resolvedFlag.Changed
		}
	}
	return false
}

func (application *Application) buildTaskRegistry() (*taskrun.Registry, error) {
	workingDirectory := strings.TrimSpace(application.configuration.Project.WorkingDirectory)
	if len(workingDirectory) == 0 {
		resolvedDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return nil, fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
		}
		workingDirectory = resolvedDirectory
	}

	commandRunner := execshell.NewOSCommandRunner(
		utils.NewFlushingWriter(os.Stdout),
		utils.NewFlushingWriter(os.Stderr),
	)
	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, commandRunner)
	if executorError != nil {
		return nil, executorError
	}

	projectToolchain, toolchainError := toolchain.NewToolchain(shellExecutor, application.logger, toolchain.Configuration{
		PackageName:      application.configuration.Project.Package,
		LineLength:       application.configuration.Project.LineLength,
		SourcePattern:    application.configuration.Project.Sources,
		WorkingDirectory: workingDirectory,
	})
	if toolchainError != nil {
		return nil, toolchainError
	}

	cleaner, cleanerError := cleanup.NewCleaner(cleanup.OSFileSystem{}, application.logger, workingDirectory)
	if cleanerError != nil {
		return nil, cleanerError
	}

	var userTasks []taskrun.Task
	tasksFilePath := strings.TrimSpace(application.configuration.TasksFile)
	if len(tasksFilePath) > 0 {
		tasksConfiguration, tasksLoadError := taskfile.LoadConfiguration(tasksFilePath)
		if tasksLoadError != nil {
			return nil, fmt.Errorf(tasksFileLoadErrorTemplateConstant, tasksLoadError)
		}
		builtTasks, buildError := taskfile.BuildTasks(tasksConfiguration, shellExecutor, workingDirectory)
		if buildError != nil {
			return nil, buildError
		}
		userTasks = builtTasks
	}

	return catalog.BuildRegistry(catalog.Dependencies{Toolchain: projectToolchain, Cleaner: cleaner}, userTasks)
}

func (application *Application) runTask(command *cobra.Command, taskName string) error {
	taskRegistry, registryError := application.buildTaskRegistry()
	if registryError != nil {
		return registryError
	}

	taskRunner, runnerError := taskrun.NewRunner(taskRegistry, application.logger, taskrun.RunnerOptions{
		DryRun: application.configuration.Common.DryRun,
	})
	if runnerError != nil {
		return runnerError
	}

	return taskRunner.Run(command.Context(), taskName)
}

func (application *Application) resolveVersion(_ context.Context) string {
	return version.NewDetector(version.Dependencies{}).Detect()
}

func (application *Application) printVersion(command *cobra.Command) {
	fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, application.versionResolver(command.Context()))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}
	if syncError := application.logger.Sync(); syncError != nil && !isIgnorableSyncError(syncError) {
		return syncError
	}
	return nil
}

func isIgnorableSyncError(syncError error) bool {
	// Syncing stderr fails with EINVAL or ENOTTY on some platforms.
	message := syncError.Error()
	return strings.Contains(message, "invalid argument") || strings.Contains(message, "inappropriate ioctl")
}
