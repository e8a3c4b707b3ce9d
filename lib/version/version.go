// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which build of realty is running.
//
// Release builds inject the values at link time:
//
//	go build -ldflags "-X github.com/bureau-foundation/realty/lib/version.Version=1.2.0 \
//	    -X github.com/bureau-foundation/realty/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Builds without ldflags (go install, go run) fall back to the VCS
// stamp the Go toolchain embeds in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty is "true" when the tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. Set manually for releases.
	Version = "0.1.0-dev"
)

// buildInfo is what the toolchain recorded, read once.
var buildInfo = sync.OnceValue(func() stamp {
	result := stamp{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return result
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if result.commit == "unknown" && len(setting.Value) >= 7 {
				result.commit = setting.Value[:7]
			}
		case "vcs.modified":
			if GitDirty == "false" && setting.Value == "true" {
				result.dirty = true
			}
		case "vcs.time":
			if result.time == "unknown" {
				result.time = setting.Value
			}
		}
	}
	return result
})

type stamp struct {
	commit string
	dirty  bool
	time   string
}

// Info returns "0.1.0-dev (abc1234, 2026-02-10T...)" for version output.
func Info() string {
	build := buildInfo()
	dirty := ""
	if build.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, build.commit, dirty, build.time)
}

// Full adds the Go version and platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit of the build, "unknown" when neither
// ldflags nor the toolchain recorded one.
func Commit() string {
	return buildInfo().commit
}
