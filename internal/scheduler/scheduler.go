package scheduler

import (
	"context"
	"fmt"

	"github.com/vk/taskmill/internal/condition"
	"github.com/vk/taskmill/internal/ctxlog"
	"github.com/vk/taskmill/internal/envstack"
	"github.com/vk/taskmill/internal/invoke"
	"github.com/vk/taskmill/internal/plan"
	"github.com/vk/taskmill/internal/report"
	"github.com/vk/taskmill/internal/workspace"
)

// Options carries the per-run parameters that are not part of the plan.
type Options struct {
	// TrailingArgs are forwarded to tasks via ${@} expansion.
	TrailingArgs []string

	// RootDir is the working directory for tasks that do not fan out.
	RootDir string
}

// Scheduler executes a plan against an environment stack. It is single
// threaded: sibling actions never overlap, and the stack's push/pop
// discipline is safe without locking.
type Scheduler struct {
	plan       *plan.Plan
	stack      *envstack.Stack
	dispatcher *invoke.Dispatcher
	members    *workspace.Controller
	report     *report.Report
	opts       Options

	// states tracks per-run outcomes so shared dependencies execute once.
	states map[*plan.Node]*nodeState
}

// nodeState records a node's terminal outcome for this run. exposed is the
// env patch the node contributes to the scope of tasks that depend on it;
// it is nil when the node was skipped.
type nodeState struct {
	status  report.Status
	exposed envstack.Layer
}

// New creates a scheduler for one run of the plan.
func New(p *plan.Plan, stack *envstack.Stack, dispatcher *invoke.Dispatcher, members *workspace.Controller, rep *report.Report, opts Options) *Scheduler {
	if opts.RootDir == "" {
		opts.RootDir = "."
	}
	return &Scheduler{
		plan:       p,
		stack:      stack,
		dispatcher: dispatcher,
		members:    members,
		report:     rep,
		opts:       opts,
		states:     make(map[*plan.Node]*nodeState),
	}
}

// Run executes the target task and everything it depends on. The returned
// error is the first unrecovered failure, already reflected in the report.
func (s *Scheduler) Run(ctx context.Context, target string) error {
	node, ok := s.plan.Lookup(target)
	if !ok {
		return &plan.UnknownTaskError{Name: target}
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("🚀 Starting pipeline run.", "task", target)
	err := s.execNode(ctx, node)
	if err != nil {
		logger.Error("Pipeline run failed.", "task", target, "error", err)
		return err
	}
	logger.Info("🏁 Pipeline run finished.", "task", target)
	return nil
}

// execNode runs one node through its full state machine: dependencies in
// declared order, condition check, environment scope, action dispatch.
func (s *Scheduler) execNode(ctx context.Context, n *plan.Node) error {
	if _, done := s.states[n]; done {
		// Already reached a terminal state in this run; a fatal failure
		// would have aborted the walk, so whatever remains was tolerated.
		return nil
	}
	st := &nodeState{}
	s.states[n] = st

	t := n.Task
	logger := ctxlog.FromContext(ctx).With("task", t.Name)

	// Dependencies run strictly one after another; each reaches a terminal
	// state before the next sibling starts, and all of them before this
	// task's condition is even consulted.
	logger.Debug("Running dependencies.", "count", len(n.Deps))
	for _, dep := range n.Deps {
		if err := s.execNode(ctx, dep); err != nil {
			// The report enumerates every task reached by the walk, so a
			// task cut short by a failing dependency still gets an entry.
			st.status = report.StatusAborted
			s.report.Aborted(t.Name, fmt.Sprintf("dependency %q failed", dep.Task.Name))
			return err
		}
	}

	// Re-apply the patches exposed by this task's direct dependencies, in
	// declared order, so they are visible to this task's condition and
	// action. Each dependency's own scope has already been popped, which is
	// what keeps a patch invisible to sibling dependencies.
	pushed := 0
	defer func() {
		for ; pushed > 0; pushed-- {
			s.stack.Pop()
		}
	}()
	for _, dep := range n.Deps {
		if ds := s.states[dep]; ds != nil && len(ds.exposed) > 0 {
			s.stack.Push(ds.exposed)
			pushed++
		}
	}

	ok, err := condition.Evaluate(t.Condition, s.stack)
	if err != nil {
		st.status = report.StatusFailed
		s.report.Failed(t.Name, 1)
		return fmt.Errorf("evaluating condition for task %q: %w", t.Name, err)
	}
	if !ok {
		logger.Info("⏭️ Task skipped.", "reason", "condition not met")
		st.status = report.StatusSkipped
		s.report.Skipped(t.Name, "condition not met")
		return nil
	}

	// The task's own patch enters scope only after its condition passes, so
	// a skipped task never leaks its patch.
	if len(t.Env) > 0 {
		s.stack.Push(envstack.Layer(t.Env))
		pushed++
		st.exposed = envstack.Layer(t.Env)
	}

	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	logger.Info("▶️ Starting task.")
	code, actionErr := s.runAction(runCtx, n)
	if actionErr != nil || code != 0 {
		logger.Error("Task failed.", "exit_code", code, "error", actionErr)
		st.status = report.StatusFailed
		s.report.Failed(t.Name, code)
		if t.IgnoreErrors {
			logger.Warn("Continuing despite failure.", "reason", "errors ignored for this task")
			return nil
		}
		return &invoke.ActionError{Task: t.Name, ExitCode: code, Err: actionErr}
	}

	logger.Info("✅ Finished task.")
	st.status = report.StatusSucceeded
	s.report.Succeeded(t.Name)
	return nil
}
