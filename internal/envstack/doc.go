// Package envstack implements the scoped environment used by the scheduler:
// an ordered stack of variable layers where the nearest enclosing layer wins.
// The global layer is pushed once at construction and can never be popped;
// task scopes push and pop their patches in strict LIFO order. The package
// also performs the variable substitution applied to command arguments and
// script bodies immediately before dispatch.
package envstack
