// Package taskrun provides the task registry and sequential fail-fast runner
// behind the smoltask commands.
package taskrun

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	unknownTaskErrorMessageTemplateConstant     = "unknown task %q"
	dependencyCycleErrorMessageTemplateConstant = "task %q participates in a prerequisite cycle"
	duplicateTaskErrorMessageTemplateConstant   = "task %q defined multiple times"
	emptyTaskNameMessageConstant                = "task name not provided"
	selfDependencyErrorMessageTemplateConstant  = "task %q cannot depend on itself"
)

// ErrEmptyTaskName indicates a task was registered without a name.
var ErrEmptyTaskName = errors.New(emptyTaskNameMessageConstant)

// Action is a single unit of work executed on behalf of a task.
type Action interface {
	Describe() string
	Execute(executionContext context.Context) error
}

// Task is a named unit of work composed of prerequisite tasks and an ordered action list.
type Task struct {
	Name     string
	Summary  string
	Requires []string
	Actions  []Action
}

// UnknownTaskError indicates the requested task name is not registered.
type UnknownTaskError struct {
	TaskName string
}

// Error describes the missing task.
func (unknownError UnknownTaskError) Error() string {
	return fmt.Sprintf(unknownTaskErrorMessageTemplateConstant, unknownError.TaskName)
}

// DependencyCycleError indicates the prerequisite graph is not acyclic.
type DependencyCycleError struct {
	TaskName string
}

// Error describes the offending task.
func (cycleError DependencyCycleError) Error() string {
	return fmt.Sprintf(dependencyCycleErrorMessageTemplateConstant, cycleError.TaskName)
}

// DuplicateTaskError indicates the same task name was registered twice.
type DuplicateTaskError struct {
	TaskName string
}

// Error describes the duplicated task.
func (duplicateError DuplicateTaskError) Error() string {
	return fmt.Sprintf(duplicateTaskErrorMessageTemplateConstant, duplicateError.TaskName)
}

// Registry stores tasks indexed by unique name while preserving declaration order.
type Registry struct {
	tasksByName  map[string]Task
	declaredName []string
}

// NewRegistry validates the provided tasks and builds a registry.
func NewRegistry(tasks []Task) (*Registry, error) {
	registry := &Registry{
		tasksByName:  make(map[string]Task, len(tasks)),
		declaredName: make([]string, 0, len(tasks)),
	}

	for taskIndex := range tasks {
		task := tasks[taskIndex]
		normalizedName := strings.TrimSpace(task.Name)
		if len(normalizedName) == 0 {
			return nil, ErrEmptyTaskName
		}
		if _, exists := registry.tasksByName[normalizedName]; exists {
			return nil, DuplicateTaskError{TaskName: normalizedName}
		}

		sanitizedRequirements := make([]string, 0, len(task.Requires))
		seenRequirements := make(map[string]struct{}, len(task.Requires))
		for requirementIndex := range task.Requires {
			requirementName := strings.TrimSpace(task.Requires[requirementIndex])
			if len(requirementName) == 0 {
				continue
			}
			if requirementName == normalizedName {
				return nil, fmt.Errorf(selfDependencyErrorMessageTemplateConstant, normalizedName)
			}
			if _, alreadyIncluded := seenRequirements[requirementName]; alreadyIncluded {
				continue
			}
			seenRequirements[requirementName] = struct{}{}
			sanitizedRequirements = append(sanitizedRequirements, requirementName)
		}

		task.Name = normalizedName
		task.Requires = sanitizedRequirements
		registry.tasksByName[normalizedName] = task
		registry.declaredName = append(registry.declaredName, normalizedName)
	}

	return registry, nil
}

// Lookup returns the task registered under the provided name.
func (registry *Registry) Lookup(taskName string) (Task, error) {
	normalizedName := strings.TrimSpace(taskName)
	task, exists := registry.tasksByName[normalizedName]
	if !exists {
		return Task{}, UnknownTaskError{TaskName: normalizedName}
	}
	return task, nil
}

// Names returns the registered task names in declaration order.
func (registry *Registry) Names() []string {
	names := make([]string, len(registry.declaredName))
	copy(names, registry.declaredName)
	return names
}
