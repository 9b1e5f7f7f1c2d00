package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTuningMissingFileUsesDefaults(t *testing.T) {
	tn, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tn)
	assert.Equal(t, 30*time.Second, tn.Stream.ShortLived())
	assert.Equal(t, 5*time.Second, tn.Stream.ShortLivedWait())
}

func TestLoadTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stream:\n  short_lived_sec: 60\n"), 0o644))

	tn, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, tn.Stream.ShortLived())
	assert.Equal(t, 2*time.Second, tn.Stream.MediumWait(), "unset fields keep defaults")
}

func TestLoadTuningBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stream: [not a map"), 0o644))

	_, err := LoadTuning(path)
	assert.Error(t, err)
}
