package config //nolint:testpackage // exercises unexported defaults wiring.

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	// Point at an empty directory so no stray .arbor.yaml is picked up.
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultScanMaxDepth, cfg.Scan.MaxDepth)
	assert.False(t, cfg.Scan.DirsOnly)
	assert.False(t, cfg.Scan.ShowHidden)
	assert.Equal(t, FormatText, cfg.Scan.Format)
	assert.True(t, cfg.Output.Color)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	content := []byte(`
scan:
  max_depth: 4
  dirs_only: true
  format: yaml
output:
  color: false
`)

	path := filepath.Join(t.TempDir(), "arbor.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Scan.MaxDepth)
	assert.True(t, cfg.Scan.DirsOnly)
	assert.Equal(t, FormatYAML, cfg.Scan.Format)
	assert.False(t, cfg.Output.Color)

	// Keys absent from the file keep their defaults.
	assert.False(t, cfg.Scan.ShowHidden)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ARBOR_SCAN_MAX_DEPTH", "9")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Scan.MaxDepth)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Parallel()

	t.Run("negative_max_depth", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "arbor.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scan:\n  max_depth: -1\n"), 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidMaxDepth)
	})

	t.Run("unknown_format", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "arbor.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scan:\n  format: xml\n"), 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := &Config{Scan: ScanConfig{Format: FormatText}}
	require.NoError(t, cfg.Validate())

	cfg.Scan.MaxDepth = -2
	require.ErrorIs(t, cfg.Validate(), ErrInvalidMaxDepth)

	cfg.Scan.MaxDepth = 0
	cfg.Scan.Format = "json"
	require.ErrorIs(t, cfg.Validate(), ErrInvalidFormat)
}
