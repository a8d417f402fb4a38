// Package generator holds the task engine: generators that own named tasks
// and nested child generators, the resolver that turns a qualified reference
// ("a.b:task") into a generator and task name, the planner that expands a
// reference into a dependency-ordered, de-duplicated plan, and the runner that
// executes a plan step by step and reports every file outcome.
//
// A generator tree and its tasks may be shared between invocations, but a
// RunRecord belongs to exactly one top-level Run and must not be reused by
// concurrently running invocations.
package generator
