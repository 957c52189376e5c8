package app

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/vk/taskmill/internal/ctxlog"
	"github.com/vk/taskmill/internal/envstack"
	"github.com/vk/taskmill/internal/invoke"
	"github.com/vk/taskmill/internal/plan"
	"github.com/vk/taskmill/internal/report"
	"github.com/vk/taskmill/internal/scheduler"
	"github.com/vk/taskmill/internal/workspace"
)

// Run executes the main application logic based on the provided
// configuration: build the plan, run the scheduler, print the report.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	p, err := plan.Build(ctx, a.model)
	if err != nil {
		return fmt.Errorf("failed to build execution plan: %w", err)
	}
	a.logger.Debug("Execution plan built.", "task_count", p.Len())

	if appConfig.ListTasks {
		for _, name := range p.TaskNames() {
			fmt.Fprintln(a.outW, name)
		}
		return nil
	}

	stack := envstack.New(a.globalEnv(appConfig))

	controller, err := workspace.NewController(ctx, &workspace.ConfigEnumerator{Workspace: a.model.Workspace}, appConfig.SkipMembers)
	if err != nil {
		return fmt.Errorf("failed to enumerate workspace members: %w", err)
	}

	dispatcher := &invoke.Dispatcher{Spawner: a.spawner, Runners: a.runners}
	rep := report.New()
	sched := scheduler.New(p, stack, dispatcher, controller, rep, scheduler.Options{
		TrailingArgs: appConfig.TaskArgs,
		RootDir:      appConfig.RootDir,
	})

	runErr := sched.Run(ctx, appConfig.TaskName)
	rep.Print(a.outW)

	a.logger.Debug("App.Run method finished.")
	return runErr
}

// globalEnv assembles the initial global layer: the process environment,
// the descriptor's env defaults, CLI overrides, and the engine's builtins.
func (a *App) globalEnv(appConfig *Config) envstack.Layer {
	layer := envstack.Layer{}

	base := appConfig.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			layer[k] = v
		}
	}

	for k, v := range a.model.Env {
		layer[k] = v
	}
	for k, v := range appConfig.EnvOverrides {
		layer[k] = v
	}

	layer["TASKMILL_TASK"] = appConfig.TaskName
	layer["TASKMILL_PLATFORM"] = runtime.GOOS
	return layer
}
