package launcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDefaults() Config {
	return Config{
		Mode:        ModeNone,
		Orientation: OrientationOver,
		UnzipPolicy: PolicyUpdate,
		Destination: "/tmp/dest",
		WorkDir:     "/tmp/work",
	}
}

func TestParseOptionsEnumValidation(t *testing.T) {
	_, _, err := parseOptions(context.Background(), []string{"-u", "bogus"}, baseDefaults(), Platform{})
	assert.Error(t, err)

	_, _, err = parseOptions(context.Background(), []string{"-o", "sideways"}, baseDefaults(), Platform{})
	assert.Error(t, err)
}

func TestParseOptionsLaterOccurrenceWins(t *testing.T) {
	cfg, _, err := parseOptions(context.Background(), []string{"-u", "new", "-u", "all"}, baseDefaults(), Platform{})
	require.NoError(t, err)
	assert.Equal(t, PolicyAll, cfg.UnzipPolicy)
}

func TestParseOptionsModeTogglingAcrossDistinctFlags(t *testing.T) {
	platform := Platform{SupportsOverlayMount: true}
	cfg, _, err := parseOptions(context.Background(), []string{"-m", "-n"}, baseDefaults(), platform)
	require.NoError(t, err)
	assert.Equal(t, ModeNone, cfg.Mode)

	cfg, _, err = parseOptions(context.Background(), []string{"-n", "-m"}, baseDefaults(), platform)
	require.NoError(t, err)
	assert.Equal(t, ModeMount, cfg.Mode)
}

func TestParseOptionsMountUnsupported(t *testing.T) {
	_, _, err := parseOptions(context.Background(), []string{"-m"}, baseDefaults(), Platform{SupportsOverlayMount: false})
	assert.Error(t, err)
}

func TestParseOptionsStrayPositional(t *testing.T) {
	_, _, err := parseOptions(context.Background(), []string{"stray"}, baseDefaults(), Platform{})
	assert.Error(t, err)
}

func TestParseOptionsHelp(t *testing.T) {
	_, _, err := parseOptions(context.Background(), []string{"-h"}, baseDefaults(), Platform{})
	assert.True(t, errors.Is(err, helpRequested))
}

func TestParseOptionsDestinationExplicit(t *testing.T) {
	cfg, explicit, err := parseOptions(context.Background(), []string{"-d", "/custom"}, baseDefaults(), Platform{})
	require.NoError(t, err)
	assert.True(t, explicit)
	assert.Equal(t, "/custom", cfg.Destination)

	_, explicit, err = parseOptions(context.Background(), nil, baseDefaults(), Platform{})
	require.NoError(t, err)
	assert.False(t, explicit)
}
