// Package condition evaluates task conditions against an environment
// snapshot. Evaluation is pure: it reads the snapshot and never writes it,
// so a task can only affect the environment through its declared env patch.
package condition

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/envstack"
)

// falsyTokens are the values EnvFalse treats as false. Comparison of the
// alphabetic tokens is case-insensitive.
var falsyTokens = map[string]struct{}{
	"":      {},
	"0":     {},
	"false": {},
	"no":    {},
	"off":   {},
}

// Evaluate reports whether the condition holds against the stack. A nil
// condition always holds. A malformed predicate (an empty variable name)
// returns an error, which the scheduler treats as fatal: a condition that
// cannot be evaluated cannot safely gate execution.
func Evaluate(c *config.Condition, stack *envstack.Stack) (bool, error) {
	if c == nil {
		return true, nil
	}

	for name, expected := range c.Env {
		if name == "" {
			return false, fmt.Errorf("env equality predicate with empty variable name")
		}
		actual, ok := stack.Resolve(name)
		if !ok || actual != expected {
			return false, nil
		}
	}

	for _, name := range c.EnvSet {
		if name == "" {
			return false, fmt.Errorf("env_set predicate with empty variable name")
		}
		if _, ok := stack.Resolve(name); !ok {
			return false, nil
		}
	}

	for _, name := range c.EnvNotSet {
		if name == "" {
			return false, fmt.Errorf("env_not_set predicate with empty variable name")
		}
		if _, ok := stack.Resolve(name); ok {
			return false, nil
		}
	}

	for _, name := range c.EnvFalse {
		if name == "" {
			return false, fmt.Errorf("env_false predicate with empty variable name")
		}
		v, ok := stack.Resolve(name)
		if ok && !isFalsy(v) {
			return false, nil
		}
	}

	if len(c.Platforms) > 0 {
		matched := false
		for _, p := range c.Platforms {
			if p == runtime.GOOS {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}

	return true, nil
}

func isFalsy(v string) bool {
	_, ok := falsyTokens[strings.ToLower(v)]
	return ok
}
