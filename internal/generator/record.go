package generator

import "github.com/google/uuid"

type runKey struct {
	gen  *Generator
	task string
}

// RunRecord tracks which (generator, task) pairs have been scheduled during
// one top-level invocation. It is not safe for concurrent use.
type RunRecord struct {
	id   string
	seen map[runKey]bool
}

// NewRunRecord returns an empty record with a fresh invocation ID.
func NewRunRecord() *RunRecord {
	return &RunRecord{
		id:   uuid.NewString(),
		seen: make(map[runKey]bool),
	}
}

// ID returns the invocation ID used to correlate log lines.
func (r *RunRecord) ID() string { return r.id }

// AlreadyRan reports whether task on g has been recorded.
func (r *RunRecord) AlreadyRan(g *Generator, task string) bool {
	return r.seen[runKey{gen: g, task: task}]
}

// MarkRan records task on g.
func (r *RunRecord) MarkRan(g *Generator, task string) {
	r.seen[runKey{gen: g, task: task}] = true
}

// Len returns the number of recorded pairs.
func (r *RunRecord) Len() int { return len(r.seen) }
