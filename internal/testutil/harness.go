package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/taskmill/internal/ctxlog"
	"github.com/vk/taskmill/internal/envstack"
	"github.com/vk/taskmill/internal/hcl"
	"github.com/vk/taskmill/internal/invoke"
	"github.com/vk/taskmill/internal/plan"
	"github.com/vk/taskmill/internal/report"
	"github.com/vk/taskmill/internal/scheduler"
	"github.com/vk/taskmill/internal/workspace"
)

// Options tunes one harness run.
type Options struct {
	// TrailingArgs are forwarded to tasks via ${@}.
	TrailingArgs []string

	// SkipMembers excludes workspace members from fan-out.
	SkipMembers []string

	// Env is the global environment layer. The harness never reads the
	// real process environment, keeping runs deterministic.
	Env map[string]string

	// ExitCodes scripts the fake spawner per program name.
	ExitCodes map[string]int

	// Delays makes the fake spawner block per program name, for exercising
	// timeouts and cancellation.
	Delays map[string]time.Duration
}

// Result holds the outcomes of a harness run.
type Result struct {
	Err       error
	Spawner   *FakeSpawner
	Script    *FakeScriptRunner
	Report    *report.Report
	LogOutput string
}

// RunPipeline writes the HCL descriptor to a temp directory and executes the
// target task through the real loader, plan builder, and scheduler, with the
// effectful capabilities replaced by recording fakes. The fake script runner
// is registered as both "shell" and "test".
func RunPipeline(t *testing.T, descriptorHCL, task string, opts Options) *Result {
	t.Helper()

	tmpDir := t.TempDir()
	descriptorPath := filepath.Join(tmpDir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(descriptorPath, []byte(descriptorHCL), 0o644))

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	model, err := hcl.NewLoader().Load(ctx, descriptorPath)
	require.NoError(t, err)

	spawner := &FakeSpawner{ExitCodes: opts.ExitCodes, Delays: opts.Delays}
	script := &FakeScriptRunner{}
	runners := invoke.NewRegistry()
	runners.Register("shell", script)
	runners.Register("test", script)

	global := envstack.Layer{}
	for k, v := range model.Env {
		global[k] = v
	}
	for k, v := range opts.Env {
		global[k] = v
	}

	result := &Result{
		Spawner:   spawner,
		Script:    script,
		Report:    report.New(),
		LogOutput: "",
	}

	p, err := plan.Build(ctx, model)
	if err != nil {
		result.Err = err
		result.LogOutput = logBuffer.String()
		return result
	}

	controller, err := workspace.NewController(ctx, &workspace.ConfigEnumerator{Workspace: model.Workspace}, opts.SkipMembers)
	require.NoError(t, err)

	dispatcher := &invoke.Dispatcher{Spawner: spawner, Runners: runners}
	sched := scheduler.New(p, envstack.New(global), dispatcher, controller, result.Report, scheduler.Options{
		TrailingArgs: opts.TrailingArgs,
		RootDir:      tmpDir,
	})

	result.Err = sched.Run(ctx, task)
	result.LogOutput = logBuffer.String()
	return result
}

// StatusOf returns the reported status of a task, failing the test when the
// task has no entry.
func StatusOf(t *testing.T, r *report.Report, task string) report.Entry {
	t.Helper()
	for _, e := range r.Entries() {
		if e.Task == task {
			return e
		}
	}
	t.Fatalf("no report entry for task %q", task)
	return report.Entry{}
}
