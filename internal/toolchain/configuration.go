// Package toolchain builds the black, isort, flake8, and mypy invocations
// that back the builtin formatting and checking tasks.
package toolchain

import "strings"

// Default project parameters applied when configuration values are unset.
const (
	DefaultPackageName   = "smol"
	DefaultLineLength    = 79
	DefaultSourcePattern = "*/**.py"

	defaultWorkingDirectoryValue = "."
)

// Configuration captures the project parameters shared by the toolchain tasks.
type Configuration struct {
	// PackageName is the directory mypy type-checks.
	PackageName string
	// LineLength is passed to the formatter.
	LineLength int
	// SourcePattern locates the Python files the file-oriented tools operate on.
	SourcePattern string
	// WorkingDirectory is the project root the tools run from.
	WorkingDirectory string
}

// Sanitize fills defaults for any unset configuration values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.PackageName = strings.TrimSpace(sanitized.PackageName)
	if len(sanitized.PackageName) == 0 {
		sanitized.PackageName = DefaultPackageName
	}
	if sanitized.LineLength <= 0 {
		sanitized.LineLength = DefaultLineLength
	}
	sanitized.SourcePattern = strings.TrimSpace(sanitized.SourcePattern)
	if len(sanitized.SourcePattern) == 0 {
		sanitized.SourcePattern = DefaultSourcePattern
	}
	sanitized.WorkingDirectory = strings.TrimSpace(sanitized.WorkingDirectory)
	if len(sanitized.WorkingDirectory) == 0 {
		sanitized.WorkingDirectory = defaultWorkingDirectoryValue
	}
	return sanitized
}
