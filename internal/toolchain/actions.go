package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"smoltask/internal/execshell"
	"smoltask/internal/taskrun"
)

const (
	executorNotConfiguredMessageConstant  = "toolchain shell executor not configured"
	toolchainLoggerMissingMessageConstant = "toolchain logger not configured"
	lineLengthFlagConstant                = "-l"
	formatActionDescriptionTemplate       = "black %s %d over matched sources"
	importSortActionDescriptionConstant   = "isort over matched sources"
	lintActionDescriptionConstant         = "flake8 over matched sources"
	typeCheckActionDescriptionTemplate    = "mypy %s"
	noSourcesMatchedMessageConstant       = "no sources matched pattern; skipping tool"
	toolFieldNameConstant                 = "tool"
	patternFieldNameConstant              = "pattern"
)

var (
	// ErrExecutorNotConfigured indicates the shell executor dependency was missing.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(toolchainLoggerMissingMessageConstant)
)

// Toolchain constructs task actions for the wrapped Python tools.
type Toolchain struct {
	executor      *execshell.ShellExecutor
	logger        *zap.Logger
	configuration Configuration
	locator       SourceLocator
}

// NewToolchain builds a Toolchain from the executor, logger, and project configuration.
func NewToolchain(executor *execshell.ShellExecutor, logger *zap.Logger, configuration Configuration) (*Toolchain, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	sanitized := configuration.Sanitize()
	return &Toolchain{
		executor:      executor,
		logger:        logger,
		configuration: sanitized,
		locator:       NewSourceLocator(sanitized.WorkingDirectory, sanitized.SourcePattern),
	}, nil
}

type toolAction struct {
	description string
	execute     func(executionContext context.Context) error
}

func (action toolAction) Describe() string {
	return action.description
}

func (action toolAction) Execute(executionContext context.Context) error {
	return action.execute(executionContext)
}

// FormatAction runs black with the configured line length over matched sources.
func (chain *Toolchain) FormatAction() taskrun.Action {
	return toolAction{
		description: fmt.Sprintf(formatActionDescriptionTemplate, lineLengthFlagConstant, chain.configuration.LineLength),
		execute: func(executionContext context.Context) error {
			return chain.runOverSources(executionContext, execshell.CommandBlack, []string{lineLengthFlagConstant, strconv.Itoa(chain.configuration.LineLength)})
		},
	}
}

// ImportSortAction runs isort over matched sources.
func (chain *Toolchain) ImportSortAction() taskrun.Action {
	return toolAction{
		description: importSortActionDescriptionConstant,
		execute: func(executionContext context.Context) error {
			return chain.runOverSources(executionContext, execshell.CommandIsort, nil)
		},
	}
}

// LintAction runs flake8 over matched sources.
func (chain *Toolchain) LintAction() taskrun.Action {
	return toolAction{
		description: lintActionDescriptionConstant,
		execute: func(executionContext context.Context) error {
			return chain.runOverSources(executionContext, execshell.CommandFlake8, nil)
		},
	}
}

// TypeCheckAction runs mypy over the configured package directory.
func (chain *Toolchain) TypeCheckAction() taskrun.Action {
	return toolAction{
		description: fmt.Sprintf(typeCheckActionDescriptionTemplate, chain.configuration.PackageName),
		execute: func(executionContext context.Context) error {
			details := execshell.CommandDetails{
				Arguments:        []string{chain.configuration.PackageName},
				WorkingDirectory: chain.configuration.WorkingDirectory,
			}
			_, executionError := chain.executor.ExecuteMypy(executionContext, details)
			return executionError
		},
	}
}

// runOverSources expands the source pattern and invokes the tool with the
// matched files appended to the base arguments. The tool is not spawned when
// nothing matches; make behaves the same way when a wildcard is empty.
func (chain *Toolchain) runOverSources(executionContext context.Context, toolName execshell.CommandName, baseArguments []string) error {
	sources, discoveryError := chain.locator.Discover()
	if discoveryError != nil {
		return discoveryError
	}
	if len(sources) == 0 {
		chain.logger.Info(noSourcesMatchedMessageConstant,
			zap.String(toolFieldNameConstant, string(toolName)),
			zap.String(patternFieldNameConstant, chain.configuration.SourcePattern),
		)
		return nil
	}

	arguments := make([]string, 0, len(baseArguments)+len(sources))
	arguments = append(arguments, baseArguments...)
	arguments = append(arguments, sources...)

	details := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: chain.configuration.WorkingDirectory,
	}
	_, executionError := chain.executor.Execute(executionContext, execshell.ShellCommand{Name: toolName, Details: details})
	return executionError
}
