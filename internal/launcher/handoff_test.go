package launcher

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanHandoffModeNoneUsesDestination(t *testing.T) {
	dir := t.TempDir()
	entryPath := filepath.Join(dir, "foo")
	require.NoError(t, os.WriteFile(entryPath, []byte("#!/bin/sh\n"), 0o755))

	cfg := &Config{Mode: ModeNone, Destination: dir}
	entry, argv, err := planHandoff(cfg, "/unused/invocation/dir", "foo", []string{"a", "b"})
	require.NoError(t, err)

	want, err := realpath(entryPath)
	require.NoError(t, err)
	assert.Equal(t, want, entry)

	if runtime.GOOS == "windows" {
		assert.Equal(t, []string{"a", "b"}, argv[3:])
	} else {
		assert.Equal(t, []string{want, "a", "b"}, argv)
	}
}

func TestPlanHandoffModeMountUsesInvocationDir(t *testing.T) {
	dir := t.TempDir()
	entryPath := filepath.Join(dir, "foo")
	require.NoError(t, os.WriteFile(entryPath, []byte("#!/bin/sh\n"), 0o755))

	cfg := &Config{Mode: ModeMount, Destination: "/somewhere/else"}
	entry, _, err := planHandoff(cfg, dir, "foo", nil)
	require.NoError(t, err)

	want, err := realpath(entryPath)
	require.NoError(t, err)
	assert.Equal(t, want, entry)
}

func TestPlanHandoffMissingEntryPoint(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Mode: ModeNone, Destination: dir}
	_, _, err := planHandoff(cfg, dir, "does-not-exist", nil)
	assert.Error(t, err)
}

func TestPlanHandoffEntryPointIsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "foo"), 0o755))

	cfg := &Config{Mode: ModeNone, Destination: dir}
	_, _, err := planHandoff(cfg, dir, "foo", nil)
	assert.Error(t, err)
}

func TestBuildChildArgvNonWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix-only argv shape")
	}
	argv := buildChildArgv("/opt/bundle/foo.app/foo", []string{"x", "y"})
	assert.Equal(t, []string{"/opt/bundle/foo.app/foo", "x", "y"}, argv)
}
