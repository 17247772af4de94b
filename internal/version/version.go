/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package version holds the build version of envctl.
package version

import (
	"runtime"
	"runtime/debug"
)

const devBuild = "dev"

var (
	AppVersion = devBuild         // In release builds this will be overwritten via ldflags
	GitCommit  = "unknown-commit" // -"-
)

func IsDevBuild() bool {
	return AppVersion == devBuild
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	AppVersion string `json:"appVersion"`
	GitCommit  string `json:"gitCommit"`
	Prerelease bool   `json:"prerelease"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
}

// GetBuildInfo returns the version information of the running binary. For
// builds without ldflags (eg, 'go install'), the commit is taken from the
// VCS stamp embedded by the Go toolchain when available.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		AppVersion: AppVersion,
		GitCommit:  GitCommit,
		Prerelease: IsDevBuild(),
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if info.GitCommit == "unknown-commit" {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			info.GitCommit = vcsRevision(buildInfo.Settings, info.GitCommit)
		}
	}

	return info
}

func vcsRevision(settings []debug.BuildSetting, fallback string) string {
	revision := ""
	modified := false
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return fallback
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}
