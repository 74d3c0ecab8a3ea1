package taskfile

import (
	"context"
	"errors"
	"strings"

	"smoltask/internal/execshell"
	"smoltask/internal/taskrun"
)

const (
	taskfileExecutorMissingMessageConstant = "task file shell executor not configured"
	commandArgumentSeparatorConstant       = " "
)

// ErrExecutorNotConfigured indicates the shell executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(taskfileExecutorMissingMessageConstant)

type commandAction struct {
	executor         *execshell.ShellExecutor
	arguments        []string
	workingDirectory string
}

// Describe renders the command line the action will run.
func (action commandAction) Describe() string {
	return strings.Join(action.arguments, commandArgumentSeparatorConstant)
}

// Execute runs the command through the shell executor.
func (action commandAction) Execute(executionContext context.Context) error {
	command := execshell.ShellCommand{
		Name: execshell.CommandName(action.arguments[0]),
		Details: execshell.CommandDetails{
			Arguments:        action.arguments[1:],
			WorkingDirectory: action.workingDirectory,
		},
	}
	_, executionError := action.executor.Execute(executionContext, command)
	return executionError
}

// BuildTasks converts loaded definitions into runnable tasks backed by the
// shell executor.
func BuildTasks(configuration Configuration, executor *execshell.ShellExecutor, workingDirectory string) ([]taskrun.Task, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	tasks := make([]taskrun.Task, 0, len(configuration.Tasks))
	for _, definition := range configuration.Tasks {
		actions := make([]taskrun.Action, 0, len(definition.Commands))
		for _, commandArguments := range definition.Commands {
			actions = append(actions, commandAction{
				executor:         executor,
				arguments:        commandArguments,
				workingDirectory: workingDirectory,
			})
		}
		tasks = append(tasks, taskrun.Task{
			Name:     definition.Name,
			Summary:  definition.Summary,
			Requires: definition.Needs,
			Actions:  actions,
		})
	}

	return tasks, nil
}
