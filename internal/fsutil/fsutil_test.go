package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/supersaver/internal/fsutil"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.txt")

	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("second"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestAppendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revenue.txt")

	require.NoError(t, fsutil.AppendFile(path, []byte("a\n"), 0o644))
	require.NoError(t, fsutil.AppendFile(path, []byte("b\n"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(got))
}
