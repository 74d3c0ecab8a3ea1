package execshell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
)

const environmentVariableSeparatorConstant = "="

// OSCommandRunner executes shell commands against the host operating system.
type OSCommandRunner struct {
	standardOutput io.Writer
	standardError  io.Writer
}

// NewOSCommandRunner builds a runner that streams tool output to the provided writers.
// Nil writers default to the process standard streams so tool output stays visible.
func NewOSCommandRunner(standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	if standardOutput == nil {
		standardOutput = os.Stdout
	}
	if standardError == nil {
		standardError = os.Stderr
	}
	return &OSCommandRunner{standardOutput: standardOutput, standardError: standardError}
}

// Run executes the command, capturing output while streaming it through.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(command.Name) == 0 {
		return ExecutionResult{}, ErrCommandNameMissing
	}

	executableCommand := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executableCommand.Dir = command.Details.WorkingDirectory
	executableCommand.Env = mergeEnvironment(command.Details.EnvironmentVariables)

	var capturedOutput bytes.Buffer
	var capturedError bytes.Buffer
	executableCommand.Stdout = io.MultiWriter(runner.standardOutput, &capturedOutput)
	executableCommand.Stderr = io.MultiWriter(runner.standardError, &capturedError)

	runError := executableCommand.Run()
	executionResult := ExecutionResult{
		StandardOutput: capturedOutput.String(),
		StandardError:  capturedError.String(),
	}

	if runError != nil {
		var exitError *exec.ExitError
		if errors.As(runError, &exitError) {
			executionResult.ExitCode = exitError.ExitCode()
			return executionResult, nil
		}
		return executionResult, runError
	}

	return executionResult, nil
}

func mergeEnvironment(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return os.Environ()
	}

	merged := os.Environ()
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		merged = append(merged, key+environmentVariableSeparatorConstant+overrides[key])
	}
	return merged
}
