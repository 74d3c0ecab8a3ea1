package taskrun

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	registryNotConfiguredMessageConstant = "task runner registry not configured"
	runnerLoggerMissingMessageConstant   = "task runner logger not configured"
	taskStartMessageConstant             = "task starting"
	taskCompletedMessageConstant         = "task completed"
	actionPlannedMessageConstant         = "action planned"
	actionFailedMessageConstant          = "action failed"
	taskNameFieldNameConstant            = "task"
	actionFieldNameConstant              = "action"
)

var (
	// ErrRegistryNotConfigured indicates the registry dependency was missing.
	ErrRegistryNotConfigured = errors.New(registryNotConfiguredMessageConstant)
	// ErrRunnerLoggerNotConfigured indicates the logger dependency was missing.
	ErrRunnerLoggerNotConfigured = errors.New(runnerLoggerMissingMessageConstant)
)

// RunnerOptions adjusts task execution behavior.
type RunnerOptions struct {
	// DryRun logs planned actions without executing them.
	DryRun bool
}

// Runner executes tasks and their prerequisite chains sequentially.
type Runner struct {
	registry *Registry
	logger   *zap.Logger
	options  RunnerOptions
}

// NewRunner builds a runner for the provided registry and logger.
func NewRunner(registry *Registry, logger *zap.Logger, options RunnerOptions) (*Runner, error) {
	if registry == nil {
		return nil, ErrRegistryNotConfigured
	}
	if logger == nil {
		return nil, ErrRunnerLoggerNotConfigured
	}
	return &Runner{registry: registry, logger: logger, options: options}, nil
}

// Run resolves the execution plan for the requested task and executes each
// task's actions in order. The first failing action aborts the run; later
// actions and tasks never execute.
func (runner *Runner) Run(executionContext context.Context, taskName string) error {
	plan, planError := runner.registry.ResolveExecutionPlan(taskName)
	if planError != nil {
		return planError
	}

	for _, plannedTask := range plan {
		runner.logger.Info(taskStartMessageConstant, zap.String(taskNameFieldNameConstant, plannedTask.Name))

		for _, action := range plannedTask.Actions {
			if runner.options.DryRun {
				runner.logger.Info(actionPlannedMessageConstant,
					zap.String(taskNameFieldNameConstant, plannedTask.Name),
					zap.String(actionFieldNameConstant, action.Describe()),
				)
				continue
			}

			if contextError := executionContext.Err(); contextError != nil {
				return contextError
			}

			if actionError := action.Execute(executionContext); actionError != nil {
				runner.logger.Error(actionFailedMessageConstant,
					zap.String(taskNameFieldNameConstant, plannedTask.Name),
					zap.String(actionFieldNameConstant, action.Describe()),
					zap.Error(actionError),
				)
				return actionError
			}
		}

		runner.logger.Info(taskCompletedMessageConstant, zap.String(taskNameFieldNameConstant, plannedTask.Name))
	}

	return nil
}
