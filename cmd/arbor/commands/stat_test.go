package commands //nolint:testpackage // drives unexported run helpers with buffers.

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStat(t *testing.T) {
	t.Parallel()

	root := seedDir(t)

	var buf bytes.Buffer

	require.NoError(t, runStat(root, &buf))

	out := buf.String()
	assert.Contains(t, out, "2 directories, 4 files")
	assert.Contains(t, out, "deepest nesting: 2")
	assert.Contains(t, out, "arena utilization: 7/")
	assert.Contains(t, out, ".txt")
	assert.Contains(t, out, ".hidden")
	assert.Contains(t, out, "Total")
}

func TestRunStatMissingDirectory(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.Error(t, runStat(filepath.Join(t.TempDir(), "nope"), &buf))
}

func TestRunStatEmptyDirectory(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, runStat(t.TempDir(), &buf))
	assert.Contains(t, buf.String(), "0 directories, 0 files")
}
