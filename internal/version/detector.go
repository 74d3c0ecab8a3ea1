// Package version resolves the application version from linker flags or
// runtime build metadata.
package version

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersionFallbackConstant = "unknown"
	buildInfoDevelVersionConstant  = "devel"
)

// embeddedVersion is populated at build time via -ldflags.
var embeddedVersion string

// BuildInfoProvider exposes runtime build metadata.
type BuildInfoProvider interface {
	Read() (*debug.BuildInfo, bool)
}

type runtimeBuildInfoProvider struct{}

func (runtimeBuildInfoProvider) Read() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}

// Detector resolves application version strings.
type Detector struct {
	buildInfoProvider BuildInfoProvider
	linkedVersion     string
}

// Dependencies describes the collaborators required for version detection.
type Dependencies struct {
	BuildInfoProvider BuildInfoProvider
	LinkedVersion     string
}

// NewDetector constructs a Detector with the supplied dependencies or
// sensible defaults.
func NewDetector(dependencies Dependencies) *Detector {
	provider := dependencies.BuildInfoProvider
	if provider == nil {
		provider = runtimeBuildInfoProvider{}
	}
	linkedVersion := strings.TrimSpace(dependencies.LinkedVersion)
	if len(linkedVersion) == 0 {
		linkedVersion = strings.TrimSpace(embeddedVersion)
	}
	return &Detector{buildInfoProvider: provider, linkedVersion: linkedVersion}
}

// Detect returns the linker-provided version when present, the module version
// recorded in build metadata otherwise, and "unknown" when neither is usable.
func (detector *Detector) Detect() string {
	if len(detector.linkedVersion) > 0 {
		return detector.linkedVersion
	}

	buildInformation, available := detector.buildInfoProvider.Read()
	if available && buildInformation != nil {
		moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
		if len(moduleVersion) > 0 && moduleVersion != buildInfoDevelVersionConstant && moduleVersion != "("+buildInfoDevelVersionConstant+")" {
			return moduleVersion
		}
	}

	return unknownVersionFallbackConstant
}
