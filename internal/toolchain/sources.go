package toolchain

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	globSegmentSeparatorConstant    = "/"
	recursiveGlobSegmentConstant    = "**"
	hiddenEntryPrefixConstant       = "."
	currentDirectorySegmentConstant = "."
)

// SourceLocator expands the configured glob pattern against the working tree,
// the way make's $(wildcard) expands it for the wrapped tools.
type SourceLocator struct {
	workingDirectory string
	pattern          string
}

// NewSourceLocator builds a locator for the provided root and pattern.
func NewSourceLocator(workingDirectory string, pattern string) SourceLocator {
	normalizedRoot := strings.TrimSpace(workingDirectory)
	if len(normalizedRoot) == 0 {
		normalizedRoot = currentDirectorySegmentConstant
	}
	return SourceLocator{workingDirectory: normalizedRoot, pattern: strings.TrimSpace(pattern)}
}

// Discover returns the matching files as sorted paths relative to the working
// directory. A pattern with no matches yields an empty slice, not an error.
func (locator SourceLocator) Discover() ([]string, error) {
	patternSegments := strings.Split(filepath.ToSlash(locator.pattern), globSegmentSeparatorConstant)
	matches := make([]string, 0)

	walkError := filepath.WalkDir(locator.workingDirectory, func(entryPath string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if entry.IsDir() {
			if entryPath != locator.workingDirectory && strings.HasPrefix(entry.Name(), hiddenEntryPrefixConstant) {
				return fs.SkipDir
			}
			return nil
		}

		relativePath, relativeError := filepath.Rel(locator.workingDirectory, entryPath)
		if relativeError != nil {
			return relativeError
		}

		pathSegments := strings.Split(filepath.ToSlash(relativePath), globSegmentSeparatorConstant)
		matched, matchError := matchGlobSegments(patternSegments, pathSegments)
		if matchError != nil {
			return matchError
		}
		if matched {
			matches = append(matches, relativePath)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	sort.Strings(matches)
	return matches, nil
}

// matchGlobSegments matches pattern segments against path segments. A bare
// "**" segment spans any number of directories; every other segment matches a
// single path element via path.Match.
func matchGlobSegments(patternSegments []string, pathSegments []string) (bool, error) {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0, nil
	}

	if patternSegments[0] == recursiveGlobSegmentConstant {
		for skipCount := 0; skipCount <= len(pathSegments); skipCount++ {
			matched, matchError := matchGlobSegments(patternSegments[1:], pathSegments[skipCount:])
			if matchError != nil || matched {
				return matched, matchError
			}
		}
		return false, nil
	}

	if len(pathSegments) == 0 {
		return false, nil
	}

	segmentMatched, matchError := path.Match(patternSegments[0], pathSegments[0])
	if matchError != nil || !segmentMatched {
		return false, matchError
	}
	return matchGlobSegments(patternSegments[1:], pathSegments[1:])
}
