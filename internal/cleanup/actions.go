package cleanup

import "context"

// BytecodeAction removes byte-compiled files as a task action.
type BytecodeAction struct {
	cleaner *Cleaner
}

// NewBytecodeAction wraps the cleaner's bytecode removal as an action.
func NewBytecodeAction(cleaner *Cleaner) BytecodeAction {
	return BytecodeAction{cleaner: cleaner}
}

// Describe names the action for logs and dry runs.
func (BytecodeAction) Describe() string {
	return bytecodeActionDescriptionConstant
}

// Execute removes the byte-compiled files.
func (action BytecodeAction) Execute(executionContext context.Context) error {
	return action.cleaner.RemoveBytecode(executionContext)
}

// BuildArtifactAction removes build directories as a task action.
type BuildArtifactAction struct {
	cleaner *Cleaner
}

// NewBuildArtifactAction wraps the cleaner's build artifact removal as an action.
func NewBuildArtifactAction(cleaner *Cleaner) BuildArtifactAction {
	return BuildArtifactAction{cleaner: cleaner}
}

// Describe names the action for logs and dry runs.
func (BuildArtifactAction) Describe() string {
	return buildArtifactActionDescriptionConstant
}

// Execute removes the build artifacts.
func (action BuildArtifactAction) Execute(executionContext context.Context) error {
	return action.cleaner.RemoveBuildArtifacts(executionContext)
}
