package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeDescriptor(t, `
env:
  MODE: ci

workspace:
  members:
    - name: core
      root: core
    - name: client
      root: packages/client
  skip: [client]

tasks:
  - name: build
    depends_on: [fmt]
    env:
      GOFLAGS: -trimpath
    condition:
      env:
        MODE: ci
      env_false: [SKIP_BUILD]
    command: go
    args: [build, ./...]
    timeout: 90s

  - name: fmt
    workspace: false
    ignore_errors: true
    script:
      runner: shell
      body: gofmt -l .

  - name: all
    run_task:
      task: build
      fork: true
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"MODE": "ci"}, model.Env)

	require.NotNil(t, model.Workspace)
	require.Len(t, model.Workspace.Members, 2)
	assert.Equal(t, "core", model.Workspace.Members[0].Name)
	assert.Equal(t, "packages/client", model.Workspace.Members[1].Root)
	assert.Equal(t, []string{"client"}, model.Workspace.Skip)

	require.Len(t, model.Tasks, 3)

	build := model.Tasks[0]
	assert.Equal(t, []string{"fmt"}, build.DependsOn)
	assert.Equal(t, map[string]string{"GOFLAGS": "-trimpath"}, build.Env)
	require.NotNil(t, build.Condition)
	assert.Equal(t, map[string]string{"MODE": "ci"}, build.Condition.Env)
	assert.Equal(t, []string{"SKIP_BUILD"}, build.Condition.EnvFalse)
	require.NotNil(t, build.Command)
	assert.Equal(t, "go", build.Command.Program)
	assert.Equal(t, []string{"build", "./..."}, build.Command.Args)
	assert.Equal(t, 90*time.Second, build.Timeout)

	fmtTask := model.Tasks[1]
	assert.False(t, fmtTask.WorkspaceScoped())
	assert.True(t, fmtTask.IgnoreErrors)
	require.NotNil(t, fmtTask.Script)
	assert.Equal(t, "gofmt -l .", fmtTask.Script.Body)

	all := model.Tasks[2]
	require.NotNil(t, all.RunTask)
	assert.Equal(t, "build", all.RunTask.Task)
	assert.True(t, all.RunTask.Fork)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed document", func(t *testing.T) {
		path := writeDescriptor(t, "tasks: [\n")
		_, err := NewLoader().Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("args without a command", func(t *testing.T) {
		path := writeDescriptor(t, `
tasks:
  - name: x
    args: [--flag]
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "args without a command")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		path := writeDescriptor(t, `
tasks:
  - name: x
    command: go
    timeout: soon
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid timeout")
	})
}
