package plan

import "github.com/vk/taskmill/internal/config"

// Node is one task in the plan with its references resolved. Deps preserves
// the declaration order of the task's dependency list, which the scheduler
// relies on for deterministic execution.
type Node struct {
	Task *config.Task
	Deps []*Node

	// Delegate is the resolved run_task target, nil for other action kinds.
	Delegate *Node
}

// Plan is the validated, acyclic graph of task nodes. It is built once and
// never mutated during execution.
type Plan struct {
	nodes map[string]*Node
	order []string
}

// Lookup returns the node for a task name.
func (p *Plan) Lookup(name string) (*Node, bool) {
	n, ok := p.nodes[name]
	return n, ok
}

// TaskNames returns every task name in declaration order.
func (p *Plan) TaskNames() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of tasks in the plan.
func (p *Plan) Len() int {
	return len(p.nodes)
}
