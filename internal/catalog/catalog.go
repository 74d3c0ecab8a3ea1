// Package catalog assembles the builtin task registry and merges in
// user-defined tasks.
package catalog

import (
	"errors"

	"smoltask/internal/cleanup"
	"smoltask/internal/taskrun"
	"smoltask/internal/toolchain"
)

// Builtin task names.
const (
	TaskClean         = "clean"
	TaskCleanBytecode = "clean-pyc"
	TaskCleanBuild    = "clean-build"
	TaskImportSort    = "isort"
	TaskLint          = "lint"
	TaskFormat        = "fmt"
	TaskTypeCheck     = "mypy"
)

const (
	cleanTaskSummaryConstant         = "Remove byte-compiled files and build artifacts"
	cleanBytecodeTaskSummaryConstant = "Remove *.pyc and *.pyo files from the working tree"
	cleanBuildTaskSummaryConstant    = "Remove build/, dist/, and *.egg-info paths"
	importSortTaskSummaryConstant    = "Sort imports with isort"
	lintTaskSummaryConstant          = "Check style with flake8"
	formatTaskSummaryConstant        = "Format sources with black"
	typeCheckTaskSummaryConstant     = "Type-check the package with mypy"

	toolchainMissingMessageConstant = "catalog toolchain not configured"
	cleanerMissingMessageConstant   = "catalog cleaner not configured"
)

var (
	// ErrToolchainNotConfigured indicates the toolchain dependency was missing.
	ErrToolchainNotConfigured = errors.New(toolchainMissingMessageConstant)
	// ErrCleanerNotConfigured indicates the cleaner dependency was missing.
	ErrCleanerNotConfigured = errors.New(cleanerMissingMessageConstant)
)

// Dependencies carries the collaborators behind the builtin tasks.
type Dependencies struct {
	Toolchain *toolchain.Toolchain
	Cleaner   *cleanup.Cleaner
}

// BuiltinTaskNames returns the builtin task names in their canonical order.
func BuiltinTaskNames() []string {
	return []string{
		TaskClean,
		TaskCleanBytecode,
		TaskCleanBuild,
		TaskImportSort,
		TaskLint,
		TaskFormat,
		TaskTypeCheck,
	}
}

// BuiltinTaskSummary returns the one-line summary for a builtin task name,
// or an empty string for unknown names.
func BuiltinTaskSummary(taskName string) string {
	switch taskName {
	case TaskClean:
		return cleanTaskSummaryConstant
	case TaskCleanBytecode:
		return cleanBytecodeTaskSummaryConstant
	case TaskCleanBuild:
		return cleanBuildTaskSummaryConstant
	case TaskImportSort:
		return importSortTaskSummaryConstant
	case TaskLint:
		return lintTaskSummaryConstant
	case TaskFormat:
		return formatTaskSummaryConstant
	case TaskTypeCheck:
		return typeCheckTaskSummaryConstant
	default:
		return ""
	}
}

// BuildRegistry constructs the task registry from the builtin catalog plus
// any user-defined tasks. User tasks may reference builtin tasks as
// prerequisites but may not reuse builtin names.
func BuildRegistry(dependencies Dependencies, userTasks []taskrun.Task) (*taskrun.Registry, error) {
	if dependencies.Toolchain == nil {
		return nil, ErrToolchainNotConfigured
	}
	if dependencies.Cleaner == nil {
		return nil, ErrCleanerNotConfigured
	}

	builtinTasks := []taskrun.Task{
		{
			Name:    TaskCleanBytecode,
			Summary: cleanBytecodeTaskSummaryConstant,
			Actions: []taskrun.Action{cleanup.NewBytecodeAction(dependencies.Cleaner)},
		},
		{
			Name:    TaskCleanBuild,
			Summary: cleanBuildTaskSummaryConstant,
			Actions: []taskrun.Action{cleanup.NewBuildArtifactAction(dependencies.Cleaner)},
		},
		{
			Name:     TaskClean,
			Summary:  cleanTaskSummaryConstant,
			Requires: []string{TaskCleanBytecode, TaskCleanBuild},
		},
		{
			Name:    TaskImportSort,
			Summary: importSortTaskSummaryConstant,
			Actions: []taskrun.Action{dependencies.Toolchain.ImportSortAction()},
		},
		{
			Name:     TaskFormat,
			Summary:  formatTaskSummaryConstant,
			Requires: []string{TaskImportSort},
			Actions:  []taskrun.Action{dependencies.Toolchain.FormatAction()},
		},
		{
			Name:     TaskLint,
			Summary:  lintTaskSummaryConstant,
			Requires: []string{TaskFormat},
			Actions:  []taskrun.Action{dependencies.Toolchain.LintAction()},
		},
		{
			Name:    TaskTypeCheck,
			Summary: typeCheckTaskSummaryConstant,
			Actions: []taskrun.Action{dependencies.Toolchain.TypeCheckAction()},
		},
	}

	return taskrun.NewRegistry(append(builtinTasks, userTasks...))
}
