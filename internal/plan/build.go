package plan

import (
	"context"
	"fmt"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/ctxlog"
)

// Build constructs a complete, validated execution plan from a descriptor
// model. It resolves every dependency name and every run_task target to a
// concrete node reference and rejects cyclic graphs.
func Build(ctx context.Context, model *config.Model) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting plan construction.")

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid descriptor: %w", err)
	}

	p := &Plan{nodes: make(map[string]*Node, len(model.Tasks))}

	// First pass: create all nodes.
	for _, t := range model.Tasks {
		p.nodes[t.Name] = &Node{Task: t}
		p.order = append(p.order, t.Name)
	}
	logger.Debug("Build: node creation complete.", "node_count", len(p.nodes))

	// Second pass: resolve references into node handles.
	for _, t := range model.Tasks {
		node := p.nodes[t.Name]
		for _, depName := range t.DependsOn {
			dep, ok := p.nodes[depName]
			if !ok {
				return nil, &UnknownTaskError{Name: depName, ReferencedBy: t.Name}
			}
			node.Deps = append(node.Deps, dep)
		}
		if t.RunTask != nil {
			target, ok := p.nodes[t.RunTask.Task]
			if !ok {
				return nil, &UnknownTaskError{Name: t.RunTask.Task, ReferencedBy: t.Name}
			}
			node.Delegate = target
		}
	}
	logger.Debug("Build: reference resolution complete.")

	if err := p.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: cycle detection passed.")

	return p, nil
}

// detectCycles runs a depth-first traversal marking nodes unvisited,
// in-progress, and done. Hitting an in-progress node means the current path
// loops back on itself. Delegate edges participate like dependency edges,
// which also bounds run_task recursion at execution time.
func (p *Plan) detectCycles() error {
	done := make(map[*Node]bool, len(p.nodes))
	inProgress := make(map[*Node]bool)
	var path []string

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if done[n] {
			return nil
		}
		if inProgress[n] {
			return &CycleError{Path: append(append([]string{}, path...), n.Task.Name)}
		}

		inProgress[n] = true
		path = append(path, n.Task.Name)

		edges := n.Deps
		if n.Delegate != nil {
			edges = append(append([]*Node{}, n.Deps...), n.Delegate)
		}
		for _, next := range edges {
			if err := visit(next); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		delete(inProgress, n)
		done[n] = true
		return nil
	}

	for _, name := range p.order {
		if err := visit(p.nodes[name]); err != nil {
			return err
		}
	}
	return nil
}
