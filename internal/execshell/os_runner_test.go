package execshell_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"smoltask/internal/execshell"
)

const (
	testShellExecutableNameConstant    = "sh"
	testShellCommandFlagConstant       = "-c"
	testMissingExecutableNameConstant  = "definitely-not-an-installed-tool"
	testOSRunnerSuccessCaseName        = "captures_standard_output"
	testOSRunnerExitCodeCaseName       = "reports_exit_code_without_error"
	testOSRunnerMissingBinaryCaseName  = "surfaces_start_failure"
	testOSRunnerStandardOutputConstant = "hello"
)

func TestOSCommandRunnerRun(testInstance *testing.T) {
	testCases := []struct {
		name             string
		command          execshell.ShellCommand
		expectError      bool
		expectedExitCode int
		expectedOutput   string
	}{
		{
			name: testOSRunnerSuccessCaseName,
			command: execshell.ShellCommand{
				Name: execshell.CommandName(testShellExecutableNameConstant),
				Details: execshell.CommandDetails{
					Arguments: []string{testShellCommandFlagConstant, "printf " + testOSRunnerStandardOutputConstant},
				},
			},
			expectedExitCode: 0,
			expectedOutput:   testOSRunnerStandardOutputConstant,
		},
		{
			name: testOSRunnerExitCodeCaseName,
			command: execshell.ShellCommand{
				Name: execshell.CommandName(testShellExecutableNameConstant),
				Details: execshell.CommandDetails{
					Arguments: []string{testShellCommandFlagConstant, "exit 3"},
				},
			},
			expectedExitCode: 3,
		},
		{
			name: testOSRunnerMissingBinaryCaseName,
			command: execshell.ShellCommand{
				Name: execshell.CommandName(testMissingExecutableNameConstant),
			},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			errorBuffer := &bytes.Buffer{}
			runner := execshell.NewOSCommandRunner(outputBuffer, errorBuffer)

			executionResult, runError := runner.Run(context.Background(), testCase.command)
			if testCase.expectError {
				require.Error(testInstance, runError)
				return
			}

			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedExitCode, executionResult.ExitCode)
			require.Equal(testInstance, testCase.expectedOutput, executionResult.StandardOutput)
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestOSCommandRunnerRequiresCommandName(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner(&bytes.Buffer{}, &bytes.Buffer{})
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{})
	require.ErrorIs(testInstance, runError, execshell.ErrCommandNameMissing)
}

func TestOSCommandRunnerMergesEnvironment(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	runner := execshell.NewOSCommandRunner(outputBuffer, &bytes.Buffer{})

	command := execshell.ShellCommand{
		Name: execshell.CommandName(testShellExecutableNameConstant),
		Details: execshell.CommandDetails{
			Arguments:            []string{testShellCommandFlagConstant, `printf "$SMOLTASK_TEST_VALUE"`},
			EnvironmentVariables: map[string]string{"SMOLTASK_TEST_VALUE": "configured"},
		},
	}

	executionResult, runError := runner.Run(context.Background(), command)
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, executionResult.ExitCode)
	require.Equal(testInstance, "configured", executionResult.StandardOutput)
}
