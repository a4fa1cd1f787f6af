package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepflow/internal/testutil"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`step "bad" {`), 0o644))

	var out testutil.SafeBuffer
	err := run(&out, []string{"-no-progress", path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "application startup panicked")
	assert.Contains(t, err.Error(), "failed to load pipeline configuration")
}

func TestRun_HelpFlagExitsCleanly(t *testing.T) {
	t.Parallel()

	var out testutil.SafeBuffer
	err := run(&out, []string{"-h"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_ExecutesPipeline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")
	path := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
step "touch" {
  output "file" "out" {
    path = "`+target+`"
  }
  run "exec" {
    command = "echo done > `+target+`"
  }
}
`), 0o644))

	var out testutil.SafeBuffer
	err := run(&out, []string{"-no-progress", path})

	require.NoError(t, err)
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(content))
}
