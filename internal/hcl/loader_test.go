package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskmill/internal/config"
)

func writeDescriptor(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	path := writeDescriptor(t, t.TempDir(), "pipeline.hcl", `
env {
  MODE    = "ci"
  RETRIES = 3
  STRICT  = true
}

workspace {
  member "core" {
    root = "core"
  }
  member "client" {
    root = "packages/client"
  }
  skip = ["client"]
}

task "build" {
  depends_on = ["fmt"]
  env {
    GOFLAGS = "-trimpath"
  }
  condition {
    env       = { MODE = "ci" }
    env_false = ["SKIP_BUILD"]
    platforms = ["linux", "darwin"]
  }
  command = "go"
  args    = ["build", "./..."]
  timeout = "2m"
}

task "fmt" {
  workspace     = false
  ignore_errors = true
  script {
    runner = "shell"
    body   = "gofmt -l ."
  }
}

task "all" {
  run_task {
    task = "build"
    fork = true
  }
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	// Non-string env values are converted to their string form.
	assert.Equal(t, map[string]string{"MODE": "ci", "RETRIES": "3", "STRICT": "true"}, model.Env)

	require.NotNil(t, model.Workspace)
	require.Len(t, model.Workspace.Members, 2)
	assert.Equal(t, &config.Member{Name: "core", Root: "core"}, model.Workspace.Members[0])
	assert.Equal(t, &config.Member{Name: "client", Root: "packages/client"}, model.Workspace.Members[1])
	assert.Equal(t, []string{"client"}, model.Workspace.Skip)

	require.Len(t, model.Tasks, 3)

	build := model.Tasks[0]
	assert.Equal(t, "build", build.Name)
	assert.Equal(t, []string{"fmt"}, build.DependsOn)
	assert.Equal(t, map[string]string{"GOFLAGS": "-trimpath"}, build.Env)
	require.NotNil(t, build.Condition)
	assert.Equal(t, map[string]string{"MODE": "ci"}, build.Condition.Env)
	assert.Equal(t, []string{"SKIP_BUILD"}, build.Condition.EnvFalse)
	assert.Equal(t, []string{"linux", "darwin"}, build.Condition.Platforms)
	require.NotNil(t, build.Command)
	assert.Equal(t, "go", build.Command.Program)
	assert.Equal(t, []string{"build", "./..."}, build.Command.Args)
	assert.Equal(t, 2*time.Minute, build.Timeout)
	assert.True(t, build.WorkspaceScoped())

	fmtTask := model.Tasks[1]
	assert.False(t, fmtTask.WorkspaceScoped())
	assert.True(t, fmtTask.IgnoreErrors)
	require.NotNil(t, fmtTask.Script)
	assert.Equal(t, "shell", fmtTask.Script.Runner)
	assert.Equal(t, "gofmt -l .", fmtTask.Script.Body)

	all := model.Tasks[2]
	require.NotNil(t, all.RunTask)
	assert.Equal(t, "build", all.RunTask.Task)
	assert.True(t, all.RunTask.Fork)
}

func TestLoadDirectoryMergesFiles(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "a_env.hcl", `
env {
  MODE = "dev"
}

task "fmt" {
  command = "gofmt"
}
`)
	writeDescriptor(t, dir, "b_tasks.hcl", `
env {
  MODE   = "ci"
  TARGET = "release"
}

task "build" {
  command = "go"
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	// Later files win on conflicting env attributes; tasks accumulate.
	assert.Equal(t, map[string]string{"MODE": "ci", "TARGET": "release"}, model.Env)
	require.Len(t, model.Tasks, 2)
	assert.Equal(t, "fmt", model.Tasks[0].Name)
	assert.Equal(t, "build", model.Tasks[1].Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
		assert.Error(t, err)
	})

	t.Run("malformed syntax", func(t *testing.T) {
		path := writeDescriptor(t, t.TempDir(), "bad.hcl", `task "x" {`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("args without a command", func(t *testing.T) {
		path := writeDescriptor(t, t.TempDir(), "bad.hcl", `
task "x" {
  args = ["--flag"]
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "args without a command")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		path := writeDescriptor(t, t.TempDir(), "bad.hcl", `
task "x" {
  command = "go"
  timeout = "soon"
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid timeout")
	})

	t.Run("null env value", func(t *testing.T) {
		path := writeDescriptor(t, t.TempDir(), "bad.hcl", `
env {
  BROKEN = null
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "null value")
	})
}
