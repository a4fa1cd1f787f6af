package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WriteFileAt writes content to path with the given modification time, so
// staleness tests can set up precise timestamp relationships.
func WriteFileAt(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}
