package taskfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smoltask/internal/execshell"
	"smoltask/internal/taskfile"
)

const (
	testTaskFileNameConstant = "tasks.yaml"
	testTaskFileContent      = `tasks:
  - name: test
    summary: Run the unit test suite.
    needs: [lint]
    commands:
      - [pytest, -q, tests]
  - name: docs
    commands:
      - [sphinx-build, docs, docs/_build]
`
	testMappingTaskFileContent  = "tasks:\n  name: test\n"
	testEmptyTaskFileContent    = "tasks: []\n"
	testNamelessTaskFileContent = "tasks:\n  - summary: missing name\n"
	testEmptyCommandFileContent = "tasks:\n  - name: broken\n    commands:\n      - []\n"
)

func writeTaskFile(testInstance *testing.T, content string) string {
	filePath := filepath.Join(testInstance.TempDir(), testTaskFileNameConstant)
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o600))
	return filePath
}

func TestLoadConfigurationParsesDefinitions(testInstance *testing.T) {
	configuration, loadError := taskfile.LoadConfiguration(writeTaskFile(testInstance, testTaskFileContent))
	require.NoError(testInstance, loadError)
	require.Len(testInstance, configuration.Tasks, 2)

	firstTask := configuration.Tasks[0]
	require.Equal(testInstance, "test", firstTask.Name)
	require.Equal(testInstance, []string{"lint"}, firstTask.Needs)
	require.Equal(testInstance, [][]string{{"pytest", "-q", "tests"}}, firstTask.Commands)

	secondTask := configuration.Tasks[1]
	require.Equal(testInstance, "docs", secondTask.Name)
	require.Empty(testInstance, secondTask.Needs)
}

func TestLoadConfigurationValidation(testInstance *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "tasks_must_be_sequence", content: testMappingTaskFileContent},
		{name: "tasks_must_not_be_empty", content: testEmptyTaskFileContent},
		{name: "task_name_required", content: testNamelessTaskFileContent},
		{name: "command_must_not_be_empty", content: testEmptyCommandFileContent},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, loadError := taskfile.LoadConfiguration(writeTaskFile(testInstance, testCase.content))
			require.Error(testInstance, loadError)
		})
	}
}

func TestLoadConfigurationRequiresPath(testInstance *testing.T) {
	_, loadError := taskfile.LoadConfiguration("   ")
	require.Error(testInstance, loadError)
}

type recordingCommandRunner struct {
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return execshell.ExecutionResult{}, nil
}

func TestBuildTasksProducesExecutableActions(testInstance *testing.T) {
	configuration, loadError := taskfile.LoadConfiguration(writeTaskFile(testInstance, testTaskFileContent))
	require.NoError(testInstance, loadError)

	runner := &recordingCommandRunner{}
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, executorError)

	tasks, buildError := taskfile.BuildTasks(configuration, executor, ".")
	require.NoError(testInstance, buildError)
	require.Len(testInstance, tasks, 2)

	testTask := tasks[0]
	require.Equal(testInstance, "test", testTask.Name)
	require.Equal(testInstance, []string{"lint"}, testTask.Requires)
	require.Len(testInstance, testTask.Actions, 1)
	require.Equal(testInstance, "pytest -q tests", testTask.Actions[0].Describe())

	require.NoError(testInstance, testTask.Actions[0].Execute(context.Background()))
	require.Len(testInstance, runner.recordedCommands, 1)
	require.Equal(testInstance, execshell.CommandName("pytest"), runner.recordedCommands[0].Name)
	require.Equal(testInstance, []string{"-q", "tests"}, runner.recordedCommands[0].Details.Arguments)
}

func TestBuildTasksRequiresExecutor(testInstance *testing.T) {
	_, buildError := taskfile.BuildTasks(taskfile.Configuration{}, nil, ".")
	require.ErrorIs(testInstance, buildError, taskfile.ErrExecutorNotConfigured)
}
