package taskrun_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"smoltask/internal/taskrun"
)

const (
	testCleanTaskNameConstant         = "clean"
	testCleanBytecodeTaskNameConstant = "clean-pyc"
	testCleanBuildTaskNameConstant    = "clean-build"
	testTypeCheckTaskNameConstant     = "mypy"
)

func planTaskNames(plan []taskrun.Task) []string {
	names := make([]string, 0, len(plan))
	for _, plannedTask := range plan {
		names = append(names, plannedTask.Name)
	}
	return names
}

func TestResolveExecutionPlanOrdersPrerequisiteChain(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testImportSortTaskNameConstant},
		{Name: testFormatTaskNameConstant, Requires: []string{testImportSortTaskNameConstant}},
		{Name: testLintTaskNameConstant, Requires: []string{testFormatTaskNameConstant}},
		{Name: testTypeCheckTaskNameConstant},
	})
	require.NoError(testInstance, registryError)

	plan, planError := registry.ResolveExecutionPlan(testLintTaskNameConstant)
	require.NoError(testInstance, planError)
	require.Equal(testInstance, []string{testImportSortTaskNameConstant, testFormatTaskNameConstant, testLintTaskNameConstant}, planTaskNames(plan))
}

func TestResolveExecutionPlanRunsSharedPrerequisiteOnce(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testImportSortTaskNameConstant},
		{Name: testFormatTaskNameConstant, Requires: []string{testImportSortTaskNameConstant}},
		{Name: testLintTaskNameConstant, Requires: []string{testImportSortTaskNameConstant, testFormatTaskNameConstant}},
	})
	require.NoError(testInstance, registryError)

	plan, planError := registry.ResolveExecutionPlan(testLintTaskNameConstant)
	require.NoError(testInstance, planError)
	require.Equal(testInstance, []string{testImportSortTaskNameConstant, testFormatTaskNameConstant, testLintTaskNameConstant}, planTaskNames(plan))
}

func TestResolveExecutionPlanPreservesDeclaredPrerequisiteOrder(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testCleanBytecodeTaskNameConstant},
		{Name: testCleanBuildTaskNameConstant},
		{Name: testCleanTaskNameConstant, Requires: []string{testCleanBytecodeTaskNameConstant, testCleanBuildTaskNameConstant}},
	})
	require.NoError(testInstance, registryError)

	plan, planError := registry.ResolveExecutionPlan(testCleanTaskNameConstant)
	require.NoError(testInstance, planError)
	require.Equal(testInstance, []string{testCleanBytecodeTaskNameConstant, testCleanBuildTaskNameConstant, testCleanTaskNameConstant}, planTaskNames(plan))
}

func TestResolveExecutionPlanRejectsUnknownTask(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testFormatTaskNameConstant},
	})
	require.NoError(testInstance, registryError)

	plan, planError := registry.ResolveExecutionPlan(testUnregisteredTaskNameConstant)
	require.Nil(testInstance, plan)
	require.ErrorAs(testInstance, planError, &taskrun.UnknownTaskError{})
}

func TestResolveExecutionPlanRejectsUnknownPrerequisite(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testFormatTaskNameConstant, Requires: []string{testImportSortTaskNameConstant}},
	})
	require.NoError(testInstance, registryError)

	plan, planError := registry.ResolveExecutionPlan(testFormatTaskNameConstant)
	require.Nil(testInstance, plan)
	require.ErrorAs(testInstance, planError, &taskrun.UnknownTaskError{})
	require.EqualError(testInstance, planError, fmt.Sprintf("unknown task %q", testImportSortTaskNameConstant))
}

func TestResolveExecutionPlanRejectsCycles(testInstance *testing.T) {
	registry, registryError := taskrun.NewRegistry([]taskrun.Task{
		{Name: testImportSortTaskNameConstant, Requires: []string{testLintTaskNameConstant}},
		{Name: testFormatTaskNameConstant, Requires: []string{testImportSortTaskNameConstant}},
		{Name: testLintTaskNameConstant, Requires: []string{testFormatTaskNameConstant}},
	})
	require.NoError(testInstance, registryError)

	plan, planError := registry.ResolveExecutionPlan(testLintTaskNameConstant)
	require.Nil(testInstance, plan)
	require.ErrorAs(testInstance, planError, &taskrun.DependencyCycleError{})
}
