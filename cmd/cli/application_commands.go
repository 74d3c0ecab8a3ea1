package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"smoltask/internal/catalog"
)

const (
	runCommandUseNameConstant              = "run"
	runCommandUsageTemplateConstant        = runCommandUseNameConstant + " <task>"
	runCommandShortDescriptionConstant     = "Run a registered task by name"
	runCommandLongDescriptionConstant      = "run executes any registered task, builtin or user-defined, after resolving its prerequisites."
	tasksCommandUseNameConstant            = "tasks"
	tasksCommandShortDescriptionConstant   = "List registered tasks"
	tasksCommandLongDescriptionConstant    = "tasks prints every registered task with its summary and prerequisites."
	versionCommandUseNameConstant          = "version"
	versionCommandShortDescriptionConstant = "Print the smoltask version"
	versionCommandLongDescriptionConstant  = "version prints the current smoltask release identifier."
	taskListingRowTemplateConstant         = "%s\t%s\t%s\n"
	taskListingRequiresSeparatorConstant   = ", "
)

func (application *Application) registerCommands(cobraCommand *cobra.Command) {
	for _, builtinTaskName := range catalog.BuiltinTaskNames() {
		cobraCommand.AddCommand(application.newBuiltinTaskCommand(builtinTaskName))
	}

	runCommand := &cobra.Command{
		Use:           runCommandUsageTemplateConstant,
		Short:         runCommandShortDescriptionConstant,
		Long:          runCommandLongDescriptionConstant,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runTask(command, arguments[0])
		},
	}
	cobraCommand.AddCommand(runCommand)

	tasksCommand := &cobra.Command{
		Use:           tasksCommandUseNameConstant,
		Short:         tasksCommandShortDescriptionConstant,
		Long:          tasksCommandLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.listTasks(command)
		},
	}
	cobraCommand.AddCommand(tasksCommand)

	versionCommand := &cobra.Command{
		Use:           versionCommandUseNameConstant,
		Short:         versionCommandShortDescriptionConstant,
		Long:          versionCommandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			application.printVersion(command)
			return nil
		},
	}
	cobraCommand.AddCommand(versionCommand)
}

func (application *Application) newBuiltinTaskCommand(taskName string) *cobra.Command {
	return &cobra.Command{
		Use:           taskName,
		Short:         catalog.BuiltinTaskSummary(taskName),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runTask(command, taskName)
		},
	}
}

func (application *Application) listTasks(command *cobra.Command) error {
	taskRegistry, registryError := application.buildTaskRegistry()
	if registryError != nil {
		return registryError
	}

	tableWriter := tabwriter.NewWriter(command.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, taskName := range taskRegistry.Names() {
		registeredTask, lookupError := taskRegistry.Lookup(taskName)
		if lookupError != nil {
			return lookupError
		}
		fmt.Fprintf(
			tableWriter,
			taskListingRowTemplateConstant,
			registeredTask.Name,
			registeredTask.Summary,
			strings.Join(registeredTask.Requires, taskListingRequiresSeparatorConstant),
		)
	}
	return tableWriter.Flush()
}
