// Package invoke provides the uniform dispatch surface over the three task
// action kinds: external command, embedded script, and delegation to another
// task's subgraph. The effectful collaborators (process spawning, script
// runners, the scheduler re-entry used for delegation) are capability
// interfaces, so the engine core stays agnostic to which facilities are
// installed and tests can substitute fakes.
package invoke
