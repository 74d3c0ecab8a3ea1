// Package cleanup removes byte-compiled artifacts and build directories from
// a Python working tree.
package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	bytecodeCompiledExtensionConstant      = ".pyc"
	bytecodeOptimizedExtensionConstant     = ".pyo"
	buildDirectoryNameConstant             = "build"
	distDirectoryNameConstant              = "dist"
	eggInfoSuffixConstant                  = ".egg-info"
	cleanerFileSystemMissingMessage        = "cleaner filesystem not configured"
	cleanerLoggerMissingMessageConstant    = "cleaner logger not configured"
	bytecodeRemovedMessageConstant         = "byte-compiled files removed"
	buildArtifactsRemovedMessageConstant   = "build artifacts removed"
	removedCountFieldNameConstant          = "removed"
	workingTreeFieldNameConstant           = "working_tree"
	bytecodeActionDescriptionConstant      = "remove *.pyc and *.pyo files"
	buildArtifactActionDescriptionConstant = "remove build/, dist/ and *.egg-info"
)

var (
	// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
	ErrFileSystemNotConfigured = errors.New(cleanerFileSystemMissingMessage)
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(cleanerLoggerMissingMessageConstant)
)

// FileSystem exposes the filesystem operations the cleaner performs.
type FileSystem interface {
	WalkDir(root string, walkFunction fs.WalkDirFunc) error
	Remove(path string) error
	RemoveAll(path string) error
	Stat(path string) (fs.FileInfo, error)
}

// OSFileSystem implements FileSystem against the host operating system.
type OSFileSystem struct{}

// WalkDir walks the file tree rooted at root.
func (OSFileSystem) WalkDir(root string, walkFunction fs.WalkDirFunc) error {
	return filepath.WalkDir(root, walkFunction)
}

// Remove deletes a single file.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll deletes a path and any children it contains.
func (OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Stat describes the named path.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Cleaner deletes generated artifacts beneath a working tree.
type Cleaner struct {
	fileSystem  FileSystem
	logger      *zap.Logger
	workingTree string
}

// NewCleaner builds a Cleaner for the provided working tree.
func NewCleaner(fileSystem FileSystem, logger *zap.Logger, workingTree string) (*Cleaner, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	normalizedTree := strings.TrimSpace(workingTree)
	if len(normalizedTree) == 0 {
		normalizedTree = "."
	}
	return &Cleaner{fileSystem: fileSystem, logger: logger, workingTree: normalizedTree}, nil
}

// RemoveBytecode deletes *.pyc and *.pyo files recursively under the working tree.
func (cleaner *Cleaner) RemoveBytecode(executionContext context.Context) error {
	removedCount := 0
	walkError := cleaner.fileSystem.WalkDir(cleaner.workingTree, func(path string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if entry.IsDir() {
			return nil
		}

		extension := strings.ToLower(filepath.Ext(entry.Name()))
		if extension != bytecodeCompiledExtensionConstant && extension != bytecodeOptimizedExtensionConstant {
			return nil
		}

		if removeError := cleaner.fileSystem.Remove(path); removeError != nil {
			return removeError
		}
		removedCount++
		return nil
	})
	if walkError != nil {
		return walkError
	}

	cleaner.logger.Info(bytecodeRemovedMessageConstant,
		zap.Int(removedCountFieldNameConstant, removedCount),
		zap.String(workingTreeFieldNameConstant, cleaner.workingTree),
	)
	return nil
}

// RemoveBuildArtifacts deletes build/, dist/, and any *.egg-info paths under
// the working tree.
func (cleaner *Cleaner) RemoveBuildArtifacts(executionContext context.Context) error {
	removedCount := 0

	for _, directoryName := range []string{buildDirectoryNameConstant, distDirectoryNameConstant} {
		directoryPath := filepath.Join(cleaner.workingTree, directoryName)
		if _, statError := cleaner.fileSystem.Stat(directoryPath); statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				continue
			}
			return statError
		}
		if removeError := cleaner.fileSystem.RemoveAll(directoryPath); removeError != nil {
			return removeError
		}
		removedCount++
	}

	walkError := cleaner.fileSystem.WalkDir(cleaner.workingTree, func(path string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			// The walk may revisit paths deleted above.
			if errors.Is(entryError, fs.ErrNotExist) {
				return nil
			}
			return entryError
		}
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if !strings.HasSuffix(entry.Name(), eggInfoSuffixConstant) {
			return nil
		}

		if removeError := cleaner.fileSystem.RemoveAll(path); removeError != nil {
			return removeError
		}
		removedCount++
		if entry.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if walkError != nil {
		return walkError
	}

	cleaner.logger.Info(buildArtifactsRemovedMessageConstant,
		zap.Int(removedCountFieldNameConstant, removedCount),
		zap.String(workingTreeFieldNameConstant, cleaner.workingTree),
	)
	return nil
}
