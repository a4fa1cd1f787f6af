package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePipeline(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_ParsesNestedTree(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, `
pipeline "docs" {
  concurrency = 4
}

step "setup" {
  output "file" "marker" {
    path = "marker.txt"
  }
  run "exec" {
    command = "touch marker.txt"
  }
}

group "convert" {
  mode = "parallel"

  step "a" {
    input "file" "src" {
      path     = "a.src"
      required = true
    }
    output "file" "dst" {
      path = "a.dst"
    }
    run "exec" {
      command = "cp a.src a.dst"
    }
  }
}
`)

	cfg, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Pipeline)
	assert.Equal(t, "docs", cfg.Pipeline.Name)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)

	require.Len(t, cfg.Steps, 1)
	assert.Equal(t, "setup", cfg.Steps[0].Name)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "parallel", cfg.Groups[0].Mode)
	require.Len(t, cfg.Groups[0].Steps, 1)

	step := cfg.Groups[0].Steps[0]
	require.Len(t, step.Inputs, 1)
	assert.True(t, step.Inputs[0].Required)
	assert.Equal(t, "file", step.Inputs[0].Kind)
}

func TestLoader_RejectsStepWithoutRunBlock(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, `
step "broken" {
  output "file" "f" {
    path = "f.txt"
  }
}
`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run block")
}

func TestLoader_RejectsUnknownResourceKind(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, `
step "broken" {
  output "tape" "f" {
    path = "f.txt"
  }
  run "exec" {
    command = "true"
  }
}
`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resource kind")
}

func TestLoader_RejectsUnknownGroupMode(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, `
group "g" {
  mode = "sideways"
}
`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestLoader_MergesDirectoryOfFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`
step "one" {
  run "exec" {
    command = "true"
  }
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`
step "two" {
  run "exec" {
    command = "true"
  }
}
`), 0o644))

	cfg, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, cfg.Steps, 2)
}
