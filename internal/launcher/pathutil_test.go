package launcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	assert.Equal(t, xdg.Home, expandTilde("~"))
	assert.Equal(t, filepath.Join(xdg.Home, "foo/bar"), expandTilde("~/foo/bar"))
	assert.Equal(t, "relative/path", expandTilde("relative/path"))
	assert.Equal(t, "~notahome", expandTilde("~notahome"))
}

func TestIsPrefix(t *testing.T) {
	dir := t.TempDir()
	child := filepath.Join(dir, "child")
	require.NoError(t, os.MkdirAll(child, 0o755))

	assert.True(t, isPrefix(dir, child))
	assert.True(t, isPrefix(dir, dir))
	assert.False(t, isPrefix(child, dir))
}

func TestRealpathDegradesForMissingTarget(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")

	got, err := realpath(missing)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(missing), got)
}

func TestInvocationDir(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/opt/bundle"), invocationDir(filepath.FromSlash("/opt/bundle/p")))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b", "c"), joinPath("a", "b", "c"))
}
