package main

import (
	"errors"
	"fmt"
	"os"

	"smoltask/cmd/cli"
	"smoltask/internal/execshell"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the smoltask command-line application, propagating the exit
// code of a failed tool invocation.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode != 0 {
		os.Exit(commandFailure.Result.ExitCode)
	}
	os.Exit(1)
}
