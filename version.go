// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Application version string related functionality.
//
// Implementation should work for case when application binary is built via "go build" and
// version injection via "ldflags" as well as when binary is installed via "go install" in
// which case debug.BuildInfo is used to pull relevant version information.

package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"
)

// Value injected during build with -ldflags="-X main.version={ver}".
var (
	version string
	vInfo   versionInfo
)

func init() {
	// A case when version is passed in via -ldflags="-X main.version=xxx"
	if version != "" {
		vInfo.version = version
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if vInfo.version == "" {
		vInfo.version = bi.Main.Version
	}

	for _, v := range bi.Settings {
		switch v.Key {
		case "vcs.revision":
			vInfo.revision = v.Value
		case "vcs.time":
			vInfo.time, _ = time.Parse(time.RFC3339, v.Value)
		}
	}
}

// versionInfo is struct that includes relevant version information.
type versionInfo struct {
	time     time.Time
	version  string
	revision string
}

func (v versionInfo) String() string {
	if v.version == "" {
		v.version = "(devel)"
	}
	parts := []string{v.version}
	if v.revision != "" {
		parts = append(parts, v.revision)
	}
	if !v.time.IsZero() {
		parts = append(parts, v.time.UTC().Format(time.RFC3339))
	}
	return strings.Join(parts, " ")
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "vidmeta %s\n", vInfo)
}
