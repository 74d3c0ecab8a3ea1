// Package taskfile loads user-defined task declarations from YAML files and
// converts them into runnable tasks.
package taskfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	taskFileLoadErrorTemplateConstant        = "failed to load task file: %w"
	taskFileParseErrorTemplateConstant       = "failed to parse task file: %w"
	taskFilePathRequiredMessageConstant      = "task file path must be provided"
	taskFileEmptyTasksMessageConstant        = "task file must define at least one task"
	taskFileTaskNameMissingMessageConstant   = "task file entry missing task name"
	taskFileTasksSequenceMessageConstant     = "tasks block must be defined as a sequence of tasks"
	taskFileEmptyCommandMessageTemplateValue = "task %q declares an empty command"
)

// TaskDefinition declares a user task: prerequisites plus command argument vectors.
type TaskDefinition struct {
	Name     string     `yaml:"name"`
	Summary  string     `yaml:"summary"`
	Needs    []string   `yaml:"needs"`
	Commands [][]string `yaml:"commands"`
}

// Configuration holds the ordered task definitions loaded from a task file.
type Configuration struct {
	Tasks []TaskDefinition
}

type taskFileDocument struct {
	Tasks []TaskDefinition `yaml:"tasks"`
}

// LoadConfiguration reads task definitions from disk and performs basic validation.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(taskFilePathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(taskFileLoadErrorTemplateConstant, readError)
	}

	if sequenceError := ensureTasksSequence(contentBytes); sequenceError != nil {
		return Configuration{}, fmt.Errorf(taskFileParseErrorTemplateConstant, sequenceError)
	}

	var parsedDocument taskFileDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &parsedDocument); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(taskFileParseErrorTemplateConstant, unmarshalError)
	}

	if len(parsedDocument.Tasks) == 0 {
		return Configuration{}, errors.New(taskFileEmptyTasksMessageConstant)
	}

	for taskIndex := range parsedDocument.Tasks {
		definition := &parsedDocument.Tasks[taskIndex]
		definition.Name = strings.TrimSpace(definition.Name)
		if len(definition.Name) == 0 {
			return Configuration{}, errors.New(taskFileTaskNameMissingMessageConstant)
		}
		for _, commandArguments := range definition.Commands {
			if len(commandArguments) == 0 || len(strings.TrimSpace(commandArguments[0])) == 0 {
				return Configuration{}, fmt.Errorf(taskFileEmptyCommandMessageTemplateValue, definition.Name)
			}
		}
	}

	return Configuration{Tasks: parsedDocument.Tasks}, nil
}

func ensureTasksSequence(contentBytes []byte) error {
	var documentWrapper struct {
		Tasks yaml.Node `yaml:"tasks"`
	}

	if unmarshalError := yaml.Unmarshal(contentBytes, &documentWrapper); unmarshalError != nil {
		return unmarshalError
	}

	if documentWrapper.Tasks.Kind == 0 {
		return nil
	}

	switch documentWrapper.Tasks.Kind {
	case yaml.SequenceNode:
		return nil
	default:
		return errors.New(taskFileTasksSequenceMessageConstant)
	}
}
