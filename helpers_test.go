// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Reusable helpers and fixtures for tests.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"testing"

	"github.com/evolution-gaming/vidmeta/internal/tools"
)

// Canned ffprobe output for a 10 second 720p@24fps video.
const probe720p24 = `{
    "streams": [
        {
            "width": 1280,
            "height": 720,
            "r_frame_rate": "24/1",
            "avg_frame_rate": "24/1",
            "duration": "10.000000",
            "nb_frames": "240"
        }
    ],
    "format": {
        "duration": "10.000000"
    }
}`

// Canned ffprobe output for a video stream with unknown frame rate.
const probeZeroFPS = `{
    "streams": [
        {
            "width": 1280,
            "height": 720,
            "r_frame_rate": "0/0",
            "avg_frame_rate": "0/0",
            "nb_frames": "0"
        }
    ]
}`

// fixFakeFfprobe fixture creates a fake ffprobe printing given output and makes
// application pick it up via environment override.
func fixFakeFfprobe(t *testing.T, output string) (exePath string) {
	t.Helper()
	exePath = path.Join(t.TempDir(), "ffprobe")
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\n", output)
	if err := os.WriteFile(exePath, []byte(script), fs.FileMode(0o755)); err != nil {
		t.Fatalf("Unable to create fake ffprobe: %v", err)
	}
	t.Setenv(tools.FfprobePathEnv, exePath)
	return exePath
}

// fixVideoFile fixture provides a stand-in for video file in a fresh
// directory. Content is irrelevant since ffprobe is faked.
func fixVideoFile(t *testing.T, name string) (fPath string) {
	t.Helper()
	fPath = path.Join(t.TempDir(), name)
	if err := os.WriteFile(fPath, []byte("fake video"), fs.FileMode(0o644)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return fPath
}

// fixCleanEnv fixture makes sure configuration environment variables set
// outside of test do not leak into it.
func fixCleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"VIDMETA_FFPROBE_ARGS",
		"VIDMETA_COUNT_FRAMES",
		"VIDMETA_OUTPUT_SUFFIX",
		"VIDMETA_LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
