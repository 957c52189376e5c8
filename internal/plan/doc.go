// Package plan turns a validated descriptor model into an immutable,
// acyclic execution plan. All name-based references (dependency lists,
// run_task targets) are resolved once, at build time, into concrete node
// handles; any unresolved name or dependency cycle fails here, before any
// action runs.
package plan
