package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/scaffoldr/scaffoldr/internal/ctxlog"
	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/prompt"
	"github.com/scaffoldr/scaffoldr/internal/render"
	"github.com/spf13/afero"
)

// Options configures one top-level run.
type Options struct {
	DestinationRoot string
	OverwritePolicy emit.Mode
	PromptEnabled   bool
	// CheckDirectory asks tasks that guard against generating into a
	// non-empty destination to do so.
	CheckDirectory bool
	// Data seeds the template data context.
	Data map[string]any

	// Collaborators. Nil values get defaults: the OS filesystem, the
	// text/template renderer, a line-based prompt on In/Out, and the policy
	// named by OverwritePolicy.
	Dest     afero.Fs
	Renderer emit.Renderer
	Asker    prompt.Asker
	Policy   emit.Policy
	In       io.Reader
	Out      io.Writer
}

// StepResult records one executed plan step.
type StepResult struct {
	Generator string
	Task      string
	Label     string
	Duration  time.Duration
}

// FileResult is a file outcome attributed to the step that emitted it.
type FileResult struct {
	Step string
	emit.Result
}

// Summary lists every executed step and every file's final outcome.
type Summary struct {
	InvocationID string
	Reference    string
	Steps        []StepResult
	Files        []FileResult
}

// Labels returns the labels of executed steps, in order.
func (s *Summary) Labels() []string {
	out := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Label
	}
	return out
}

// Count returns how many files ended in outcome o.
func (s *Summary) Count(o emit.Outcome) int {
	n := 0
	for _, f := range s.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

// Run plans ref against root and executes the plan one step at a time. The
// first failing step aborts the run; files written by earlier steps stay in
// place. The returned summary is non-nil even on error and reflects the work
// done before the failure.
func Run(ctx context.Context, root *Generator, ref string, opts Options) (*Summary, error) {
	r, err := newRunner(opts)
	if err != nil {
		return nil, err
	}
	r.summary.Reference = ref

	logger := ctxlog.FromContext(ctx).With("invocation", r.record.ID())
	ctx = ctxlog.WithLogger(ctx, logger)

	start := time.Now()
	if err := r.generate(ctx, root, ref); err != nil {
		logger.Debug("Run failed.", "ref", ref, "error", err)
		return r.summary, err
	}
	logger.Debug("Run finished.", "ref", ref, "steps", len(r.summary.Steps),
		"files", len(r.summary.Files), "elapsed", time.Since(start))
	return r.summary, nil
}

type runner struct {
	opts     Options
	record   *RunRecord
	pipeline *emit.Pipeline
	data     map[string]any
	summary  *Summary
}

func newRunner(opts Options) (*runner, error) {
	if opts.Dest == nil {
		opts.Dest = afero.NewOsFs()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.DestinationRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving destination root: %w", err)
		}
		opts.DestinationRoot = wd
	}
	if opts.Renderer == nil {
		engine, err := render.New(render.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		opts.Renderer = engine
	}
	if opts.Policy == nil {
		opts.Policy = emit.NewPolicy(opts.OverwritePolicy, opts.In, opts.Out)
	}
	if opts.Asker == nil {
		opts.Asker = prompt.NewLineAsker(opts.In, opts.Out)
	}

	data := make(map[string]any, len(opts.Data))
	for k, v := range opts.Data {
		data[k] = v
	}

	record := NewRunRecord()
	return &runner{
		opts:   opts,
		record: record,
		pipeline: &emit.Pipeline{
			Dest:     opts.Dest,
			Root:     opts.DestinationRoot,
			Renderer: opts.Renderer,
			Policy:   opts.Policy,
		},
		data:    data,
		summary: &Summary{InvocationID: record.ID()},
	}, nil
}

// generate plans ref relative to base and executes the steps that were not
// already scheduled in this invocation.
func (r *runner) generate(ctx context.Context, base *Generator, ref string) error {
	logger := ctxlog.FromContext(ctx)

	plan, err := BuildPlan(base, ref, r.record)
	if err != nil {
		return err
	}
	logger.Debug("Planned.", "ref", ref, "base", base.DisplayPath(), "steps", plan.Labels())

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.execute(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) execute(ctx context.Context, step Step) error {
	logger := ctxlog.FromContext(ctx).With("step", step.Label())
	start := time.Now()

	if step.Task.Work != nil {
		logger.Debug("Running task.")
		rc := &RunContext{Generator: step.Generator, Task: step.Task, run: r}
		if err := step.Task.Work(ctxlog.WithLogger(ctx, logger), rc); err != nil {
			return newTaskError(step.Generator, step.Task.Name, err)
		}
	}

	r.summary.Steps = append(r.summary.Steps, StepResult{
		Generator: step.Generator.DisplayPath(),
		Task:      step.Task.Name,
		Label:     step.Label(),
		Duration:  time.Since(start),
	})
	return nil
}

// RunContext is handed to a task's work function.
type RunContext struct {
	Generator *Generator
	Task      *Task
	run       *runner
}

// Options returns the run's resolved options.
func (rc *RunContext) Options() Options { return rc.run.opts }

// Data returns the shared template data context. Tasks may mutate it;
// later steps observe the changes.
func (rc *RunContext) Data() map[string]any { return rc.run.data }

// Out is where tasks write user-facing output.
func (rc *RunContext) Out() io.Writer { return rc.run.opts.Out }

// Dest is the destination filesystem.
func (rc *RunContext) Dest() afero.Fs { return rc.run.opts.Dest }

// DestPath joins rel onto the destination root.
func (rc *RunContext) DestPath(rel string) string {
	return filepath.Join(rc.run.opts.DestinationRoot, filepath.FromSlash(rel))
}

// Logger returns the step-scoped logger.
func (rc *RunContext) Logger(ctx context.Context) *slog.Logger {
	return ctxlog.FromContext(ctx)
}

// Emit renders and writes the files selected by sel. When sel has no
// Source, the generator's template tree is used.
func (rc *RunContext) Emit(ctx context.Context, sel emit.Selection) ([]emit.Result, error) {
	if sel.Source == nil {
		sel.Source = rc.Generator.TemplateFS()
	}
	results, err := rc.run.pipeline.Emit(ctx, sel, rc.run.data)
	logger := ctxlog.FromContext(ctx)
	step := label(rc.Generator, rc.Task.Name)
	for _, res := range results {
		logger.Info("Emitted file.", "path", res.Path, "outcome", res.Outcome.String(), "unchanged", res.Unchanged)
		rc.run.summary.Files = append(rc.run.summary.Files, FileResult{Step: step, Result: res})
	}
	return results, err
}

// Ask prompts for fields that have no value in the data context yet and
// merges the answers into it. It does nothing when prompting is disabled.
func (rc *RunContext) Ask(ctx context.Context, fields []string) error {
	if !rc.run.opts.PromptEnabled {
		return nil
	}
	ask, known := prompt.Split(fields, rc.run.data)
	prompt.HeadsUp(rc.run.opts.Out, rc.run.data, known)
	if len(ask) == 0 {
		return nil
	}
	answers, err := rc.run.opts.Asker.Ask(ctx, ask)
	prompt.Merge(rc.run.data, answers)
	return err
}

// Generate runs ref, resolved relative to the current generator, inside the
// current invocation. Tasks that already ran are not repeated. The reference
// is planned when Generate is called, so resolution errors surface after
// earlier steps have written their files; references known up front belong
// in the task's dependencies instead.
func (rc *RunContext) Generate(ctx context.Context, ref string) error {
	return rc.run.generate(ctx, rc.Generator, ref)
}
