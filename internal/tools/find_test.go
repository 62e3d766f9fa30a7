// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tools

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixFakeBinary creates an empty executable file in a fresh directory.
func fixFakeBinary(t *testing.T, exeName string) (dir, exePath string) {
	t.Helper()
	dir = t.TempDir()
	exePath = path.Join(dir, exeName)
	f, err := os.OpenFile(exePath, os.O_CREATE, 0o755)
	require.NoError(t, err)
	f.Close()
	return dir, exePath
}

func Test_FindTool(t *testing.T) {
	fakeBinDir, exePath := fixFakeBinary(t, "sh")

	t.Run("Should fail if executable not found in $PATH nor overridden", func(t *testing.T) {
		got, err := FindTool("nonexistent", "")
		assert.Error(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("Should return path if overridden via env var", func(t *testing.T) {
		t.Setenv("CUSTOM_EXE_PATH", exePath)

		got, err := FindTool("sh", "CUSTOM_EXE_PATH")
		require.NoError(t, err)
		assert.Equal(t, exePath, got)
	})

	t.Run("Should ignore override pointing to directory", func(t *testing.T) {
		t.Setenv("CUSTOM_EXE_PATH", fakeBinDir)
		t.Setenv("PATH", "")

		_, err := FindTool("sh", "CUSTOM_EXE_PATH")
		assert.Error(t, err)
	})

	t.Run("Should return path from $PATH", func(t *testing.T) {
		sysPath := os.Getenv("PATH")
		t.Setenv("PATH", fakeBinDir+":"+sysPath)

		got, err := FindTool("sh", "")
		require.NoError(t, err)
		assert.Equal(t, exePath, got)
	})
}

func Test_FfprobePath(t *testing.T) {
	t.Run("Should find ffprobe on PATH", func(t *testing.T) {
		fakeBinDir, wantPath := fixFakeBinary(t, "ffprobe")
		t.Setenv(FfprobePathEnv, "")
		t.Setenv("PATH", fakeBinDir+":"+os.Getenv("PATH"))

		gotPath, err := FfprobePath()
		assert.NoError(t, err)
		assert.Equal(t, wantPath, gotPath)
		assert.FileExists(t, gotPath)
	})

	t.Run("Should prefer env override", func(t *testing.T) {
		_, wantPath := fixFakeBinary(t, "my-ffprobe")
		t.Setenv(FfprobePathEnv, wantPath)

		gotPath, err := FfprobePath()
		assert.NoError(t, err)
		assert.Equal(t, wantPath, gotPath)
	})
}

func Test_FfprobePath_Negative(t *testing.T) {
	// Wipe PATH so that no binary can be located.
	t.Setenv("PATH", "")
	t.Setenv(FfprobePathEnv, "")

	s, err := FfprobePath()
	assert.ErrorContains(t, err, "ffprobe not found")
	assert.Equal(t, "", s, "Expected empty string as path")
}
