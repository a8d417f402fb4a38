package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/prompt"
)

// Planning errors. They are detected before any task runs and always fail
// the whole request.
var (
	ErrUnknownGenerator = errors.New("unknown generator")
	ErrUnknownTask      = errors.New("unknown task")
	ErrCycleDetected    = errors.New("cycle detected")
)

// Execution errors bubbled up from collaborators.
var (
	ErrRender        = emit.ErrRender
	ErrIO            = emit.ErrIO
	ErrPromptAborted = prompt.ErrAborted
)

// ResolveError reports the reference segment that did not match a
// registered child generator.
type ResolveError struct {
	Reference string
	Segment   string
	Parent    string // display path of the generator that was searched
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s %q in reference %q (no such child of %s)",
		ErrUnknownGenerator.Error(), e.Segment, e.Reference, e.Parent)
}

func (e *ResolveError) Unwrap() error { return ErrUnknownGenerator }

// TaskNotFoundError reports a task name missing from a generator after all
// of its plugins have been applied.
type TaskNotFoundError struct {
	Generator string
	Task      string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("%s %q in generator %s", ErrUnknownTask.Error(), e.Task, e.Generator)
}

func (e *TaskNotFoundError) Unwrap() error { return ErrUnknownTask }

// CycleError carries the dependency path that closes a cycle, starting and
// ending with the same task.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycleDetected.Error(), strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// TaskError identifies the task (and the file, when known) whose work
// function failed during execution.
type TaskError struct {
	Generator string
	Task      string
	File      string
	Err       error
}

func (e *TaskError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("task %s:%s failed on %s: %v", e.Generator, e.Task, e.File, e.Err)
	}
	return fmt.Sprintf("task %s:%s failed: %v", e.Generator, e.Task, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

func newTaskError(g *Generator, task string, err error) *TaskError {
	te := &TaskError{Generator: g.DisplayPath(), Task: task, Err: err}
	var fe *emit.FileError
	if errors.As(err, &fe) {
		te.File = fe.Path
	}
	return te
}
