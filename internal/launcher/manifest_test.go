package launcher

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestBundle assembles a stub-prefixed ZIP on disk, the same shape
// a real PUISNE binary has: an arbitrary prefix followed by a ZIP whose
// central directory is only discoverable by scanning back from EOF.
func writeTestBundle(t *testing.T, files map[string]string, dirs []string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "bundle")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("#!/bin/sh\n# launcher stub\n"))
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, d := range dirs {
		_, err := zw.Create(d)
		require.NoError(t, err)
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return path
}

func TestBuildManifestDiscoversBundleName(t *testing.T) {
	path := writeTestBundle(t, map[string]string{
		"foo.app/foo":          "#!/bin/sh\necho \"$@\"\n",
		"foo.app/res/data.txt": "hello",
		"puisne/help.txt":      "custom help\n",
		"puisne/version.txt":   "1.4.0\n",
		".args":                "-u\nnone\n",
	}, nil)

	m, err := buildManifest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "foo", m.Name)
	assert.True(t, m.HasHelpText)
	assert.Equal(t, "custom help\n", m.HelpText)
	assert.True(t, m.HasArgsFile)
	assert.Equal(t, "-u\nnone\n", m.ArgsFile)
	assert.True(t, m.HasVersion)
	assert.Equal(t, "1.4.0", m.Version)

	var paths []string
	for _, e := range m.Entries {
		paths = append(paths, e.RelativePath)
	}
	assert.ElementsMatch(t, []string{"foo", "res/data.txt"}, paths)
}

func TestBuildManifestWithoutVersionFile(t *testing.T) {
	path := writeTestBundle(t, map[string]string{
		"foo.app/foo": "#!/bin/sh\n",
	}, nil)

	m, err := buildManifest(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, m.HasVersion)
	assert.Empty(t, m.Version)
}

func TestBuildManifestEmptyBundle(t *testing.T) {
	path := writeTestBundle(t, map[string]string{
		"puisne/help.txt": "nothing here\n",
	}, nil)

	_, err := buildManifest(context.Background(), path)
	assert.ErrorIs(t, err, errEmptyBundle)
}

func TestBuildManifestMultipleAppDirs(t *testing.T) {
	path := writeTestBundle(t, map[string]string{
		"a.app/a": "x",
		"b.app/b": "y",
	}, nil)

	_, err := buildManifest(context.Background(), path)
	assert.Error(t, err)
}

func TestBuildManifestBareTopLevelFile(t *testing.T) {
	path := writeTestBundle(t, map[string]string{
		"loose-file": "x",
	}, nil)

	_, err := buildManifest(context.Background(), path)
	assert.Error(t, err)
}

func TestBuildManifestEmptyAppName(t *testing.T) {
	path := writeTestBundle(t, nil, []string{".app/"})

	_, err := buildManifest(context.Background(), path)
	assert.Error(t, err)
}

func TestIsReserved(t *testing.T) {
	assert.True(t, isReserved("puisne/help.txt"))
	assert.True(t, isReserved(".args"))
	assert.True(t, isReserved(".cosmo.bin"))
	assert.True(t, isReserved("usr/share/zoneinfo/UTC"))
	assert.False(t, isReserved("foo.app/foo"))
}
