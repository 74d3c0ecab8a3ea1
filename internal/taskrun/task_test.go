package taskrun_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"smoltask/internal/taskrun"
)

const (
	registrySubtestNameTemplateConstant     = "%d_%s"
	testDuplicateRegistrationCaseName       = "duplicate_name_rejected"
	testEmptyNameRegistrationCaseName       = "empty_name_rejected"
	testSelfDependencyRegistrationCaseName  = "self_dependency_rejected"
	testSuccessfulRegistrationCaseName      = "valid_tasks_accepted"
	testDuplicateRequirementSanitizedName   = "duplicate_requirements_collapsed"
	testFormatTaskNameConstant              = "fmt"
	testImportSortTaskNameConstant          = "isort"
	testLintTaskNameConstant                = "lint"
	testUnregisteredTaskNameConstant        = "deploy"
	testWhitespaceDecoratedTaskNameConstant = "  fmt  "
)

type recordedAction struct {
	description string
	journal     *[]string
	failWith    error
}

func (action recordedAction) Describe() string {
	return action.description
}

func (action recordedAction) Execute(context.Context) error {
	if action.failWith != nil {
		return action.failWith
	}
	*action.journal = append(*action.journal, action.description)
	return nil
}

func TestNewRegistryValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		tasks         []taskrun.Task
		expectedError error
	}{
		{
			name: testDuplicateRegistrationCaseName,
			tasks: []taskrun.Task{
				{Name: testFormatTaskNameConstant},
				{Name: testFormatTaskNameConstant},
			},
			expectedError: taskrun.DuplicateTaskError{TaskName: testFormatTaskNameConstant},
		},
		{
			name:          testEmptyNameRegistrationCaseName,
			tasks:         []taskrun.Task{{Name: "   "}},
			expectedError: taskrun.ErrEmptyTaskName,
		},
		{
			name: testSelfDependencyRegistrationCaseName,
			tasks: []taskrun.Task{
				{Name: testFormatTaskNameConstant, Requires: []string{testFormatTaskNameConstant}},
			},
			expectedError: fmt.Errorf("task %q cannot depend on itself", testFormatTaskNameConstant),
		},
		{
			name: testSuccessfulRegistrationCaseName,
			tasks: []taskrun.Task{
				{Name: testImportSortTaskNameConstant},
				{Name: testFormatTaskNameConstant, Requires: []string{testImportSortTaskNameConstant}},
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(registrySubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			registry, registryError := taskrun.NewRegistry(testCase.tasks)
			if testCase.expectedError != nil {
				require.Error(testInstance, registryError)
				require.EqualError(testInstance, registryError, testCase.expectedError.Error())
				require.Nil(testInstance, registry)
				return
			}

			require.NoError(testInstance, registryError)
			require.NotNil(testInstance, registry)
		})
	}
}

func TestRegistryLookup(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testFormatTaskNameConstant, Summary: "format sources"},
	})
	require.NoError(testInstance, registryError)

	foundTask, lookupError := registry.Lookup(testWhitespaceDecoratedTaskNameConstant)
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, testFormatTaskNameConstant, foundTask.Name)

	_, missingError := registry.Lookup(testUnregisteredTaskNameConstant)
	require.Error(testInstance, missingError)
	require.ErrorAs(testInstance, missingError, &taskrun.UnknownTaskError{})
	require.EqualError(testInstance, missingError, fmt.Sprintf("unknown task %q", testUnregisteredTaskNameConstant))
}

func TestRegistryNamesPreserveDeclarationOrder(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testImportSortTaskNameConstant},
		{Name: testFormatTaskNameConstant},
		{Name: testLintTaskNameConstant},
	})
	require.NoError(testInstance, registryError)
	require.Equal(testInstance, []string{testImportSortTaskNameConstant, testFormatTaskNameConstant, testLintTaskNameConstant}, registry.Names())
}

func TestRegistryCollapsesDuplicateRequirements(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testImportSortTaskNameConstant},
		{Name: testFormatTaskNameConstant, Requires: []string{testImportSortTaskNameConstant, testImportSortTaskNameConstant, " "}},
	})
	require.NoError(testInstance, registryError)

	formatTask, lookupError := registry.Lookup(testFormatTaskNameConstant)
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, []string{testImportSortTaskNameConstant}, formatTask.Requires)
}
