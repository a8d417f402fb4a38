package generator

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/prompt"
	"github.com/spf13/afero"
)

const destRoot = "/work/out"

func fileTask(pattern string) WorkFunc {
	return func(ctx context.Context, rc *RunContext) error {
		_, err := rc.Emit(ctx, emit.Selection{Pattern: pattern})
		return err
	}
}

func newRootfiles() *Generator {
	root := New("")
	root.Templates = fstest.MapFS{
		"LICENSE":   {Data: []byte("MIT License\nCopyright {{ .author }}\n")},
		"README.md": {Data: []byte("# {{ .name }}\n")},
	}
	root.Task("rootfiles", []string{"license", "readme"}, nil)
	root.Task("license", nil, fileTask("LICENSE"))
	root.Task("readme", nil, fileTask("README.md"))
	return root
}

func testOptions(dest afero.Fs) Options {
	return Options{
		DestinationRoot: destRoot,
		Dest:            dest,
		Data:            map[string]any{"name": "foo", "author": "Jane"},
		In:              strings.NewReader(""),
	}
}

func readDest(t *testing.T, fsys afero.Fs, rel string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, filepath.Join(destRoot, rel))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func TestRunRootfilesScenario(t *testing.T) {
	dest := afero.NewMemMapFs()
	summary, err := Run(context.Background(), newRootfiles(), "rootfiles", testOptions(dest))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := summary.Labels(), []string{"license", "readme", "rootfiles"}; !reflect.DeepEqual(got, want) {
		t.Errorf("steps = %v, want %v", got, want)
	}
	if summary.Count(emit.Written) != 2 {
		t.Errorf("written = %d, want 2 (files: %+v)", summary.Count(emit.Written), summary.Files)
	}
	if got := readDest(t, dest, "LICENSE"); got != "MIT License\nCopyright Jane\n" {
		t.Errorf("LICENSE = %q", got)
	}
	if got := readDest(t, dest, "README.md"); got != "# foo\n" {
		t.Errorf("README.md = %q", got)
	}
	if summary.InvocationID == "" {
		t.Error("summary should carry the invocation ID")
	}
	for _, f := range summary.Files {
		if !f.Templated {
			t.Errorf("%s should be marked as templated", f.Path)
		}
	}
}

func TestRunSharedDependencyRunsOnce(t *testing.T) {
	calls := 0
	root := New("")
	root.Task("default", []string{"a", "b"}, nil)
	root.Task("a", []string{"shared"}, nil)
	root.Task("b", []string{"shared"}, nil)
	root.Task("shared", nil, func(context.Context, *RunContext) error {
		calls++
		return nil
	})

	summary, err := Run(context.Background(), root, "", testOptions(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 {
		t.Errorf("shared ran %d times, want 1", calls)
	}
	if got, want := summary.Labels(), []string{"shared", "a", "b", "default"}; !reflect.DeepEqual(got, want) {
		t.Errorf("steps = %v, want %v", got, want)
	}
}

func TestRunFreshRecordPerInvocation(t *testing.T) {
	calls := 0
	root := New("")
	root.Task("default", nil, func(context.Context, *RunContext) error {
		calls++
		return nil
	})
	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), root, "", testOptions(afero.NewMemMapFs())); err != nil {
			t.Fatalf("Run #%d: %v", i, err)
		}
	}
	if calls != 2 {
		t.Errorf("task ran %d times over two invocations, want 2", calls)
	}
}

func TestRunFailFast(t *testing.T) {
	var ran []string
	work := func(name string, fail bool) WorkFunc {
		return func(context.Context, *RunContext) error {
			ran = append(ran, name)
			if fail {
				return errors.New("boom")
			}
			return nil
		}
	}
	root := New("")
	root.Task("default", []string{"one", "two", "three"}, work("default", false))
	root.Task("one", nil, work("one", false))
	root.Task("two", nil, work("two", true))
	root.Task("three", nil, work("three", false))

	summary, err := Run(context.Background(), root, "", testOptions(afero.NewMemMapFs()))
	var te *TaskError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TaskError", err)
	}
	if te.Task != "two" || te.Generator != "self" {
		t.Errorf("TaskError = %+v, want task two on self", te)
	}
	if !reflect.DeepEqual(ran, []string{"one", "two"}) {
		t.Errorf("ran = %v, want [one two]", ran)
	}
	if got := summary.Labels(); !reflect.DeepEqual(got, []string{"one"}) {
		t.Errorf("completed steps = %v, want [one]", got)
	}
}

func TestRunPlanningErrorRunsNothing(t *testing.T) {
	ran := false
	root := New("")
	root.Task("default", []string{"ok", "ghost:task"}, nil)
	root.Task("ok", nil, func(context.Context, *RunContext) error {
		ran = true
		return nil
	})

	_, err := Run(context.Background(), root, "", testOptions(afero.NewMemMapFs()))
	if !errors.Is(err, ErrUnknownGenerator) {
		t.Fatalf("err = %v, want ErrUnknownGenerator", err)
	}
	if ran {
		t.Error("no task may run when planning fails")
	}
}

func TestRunRenderErrorNamesFile(t *testing.T) {
	root := New("")
	root.Templates = fstest.MapFS{"bad.txt": {Data: []byte("{{ .name ")}}
	root.Task("bad", nil, fileTask("bad.txt"))

	_, err := Run(context.Background(), root, "bad", testOptions(afero.NewMemMapFs()))
	if !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
	var te *TaskError
	if !errors.As(err, &te) || te.File != "bad.txt" || te.Task != "bad" {
		t.Errorf("TaskError = %+v, want task bad and file bad.txt", te)
	}
}

func TestRunIOErrorNamesFile(t *testing.T) {
	root := newRootfiles()
	dest := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := Run(context.Background(), root, "license", testOptions(dest))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
	var te *TaskError
	if !errors.As(err, &te) || te.File != "LICENSE" {
		t.Errorf("TaskError = %+v, want file LICENSE", te)
	}
}

func TestRunIdenticalRerunIsWritten(t *testing.T) {
	dest := afero.NewMemMapFs()
	root := newRootfiles()
	if _, err := Run(context.Background(), root, "rootfiles", testOptions(dest)); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	summary, err := Run(context.Background(), root, "rootfiles", testOptions(dest))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	for _, f := range summary.Files {
		if f.Outcome != emit.Written || !f.Unchanged {
			t.Errorf("%s: outcome = %s unchanged = %v, want written/unchanged", f.Path, f.Outcome, f.Unchanged)
		}
	}
}

func TestRunConflictPolicies(t *testing.T) {
	tests := []struct {
		mode    emit.Mode
		want    emit.Outcome
		content string
	}{
		{emit.ModeSkip, emit.Skipped, "custom\n"},
		{"", emit.Skipped, "custom\n"},
		{emit.ModeForce, emit.Written, "# foo\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			dest := afero.NewMemMapFs()
			if err := afero.WriteFile(dest, filepath.Join(destRoot, "README.md"), []byte("custom\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			opts := testOptions(dest)
			opts.OverwritePolicy = tt.mode

			summary, err := Run(context.Background(), newRootfiles(), "readme", opts)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(summary.Files) != 1 || summary.Files[0].Outcome != tt.want {
				t.Fatalf("files = %+v, want one %s", summary.Files, tt.want)
			}
			if got := readDest(t, dest, "README.md"); got != tt.content {
				t.Errorf("README.md = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestRunInteractiveAbort(t *testing.T) {
	dest := afero.NewMemMapFs()
	afero.WriteFile(dest, filepath.Join(destRoot, "README.md"), []byte("custom\n"), 0o644)
	opts := testOptions(dest)
	opts.OverwritePolicy = emit.ModeInteractive
	opts.In = strings.NewReader("")
	var out bytes.Buffer
	opts.Out = &out

	_, err := Run(context.Background(), newRootfiles(), "readme", opts)
	if !errors.Is(err, ErrPromptAborted) {
		t.Fatalf("err = %v, want ErrPromptAborted", err)
	}
	if !strings.Contains(out.String(), "Conflict on README.md") {
		t.Errorf("expected a conflict question, got %q", out.String())
	}
}

func TestRunAskMergesAnswers(t *testing.T) {
	root := New("")
	root.Templates = fstest.MapFS{"package.json": {Data: []byte(`{"name":"{{ .name }}","author":"{{ .author.name }}"}`)}}
	root.Task("prompt", nil, func(ctx context.Context, rc *RunContext) error {
		return rc.Ask(ctx, []string{"name", "author.name"})
	})
	root.Task("package", []string{"prompt"}, fileTask("package.json"))

	dest := afero.NewMemMapFs()
	var out bytes.Buffer
	opts := Options{
		DestinationRoot: destRoot,
		Dest:            dest,
		PromptEnabled:   true,
		Data:            map[string]any{"name": "foo"},
		Asker:           prompt.Static{"author.name": "Jane"},
		Out:             &out,
	}
	if _, err := Run(context.Background(), root, "package", opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := readDest(t, dest, "package.json"); got != `{"name":"foo","author":"Jane"}` {
		t.Errorf("package.json = %s", got)
	}
	if !strings.Contains(out.String(), "Heads up!") {
		t.Error("known fields should be listed in the heads-up banner")
	}
}

func TestRunAskDisabled(t *testing.T) {
	root := New("")
	root.Task("prompt", nil, func(ctx context.Context, rc *RunContext) error {
		return rc.Ask(ctx, []string{"name"})
	})
	opts := testOptions(afero.NewMemMapFs())
	opts.PromptEnabled = false
	opts.Asker = prompt.AskerFunc(func(context.Context, []string) (map[string]any, error) {
		t.Fatal("asker must not be called when prompting is disabled")
		return nil, nil
	})
	if _, err := Run(context.Background(), root, "prompt", opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunGenerateSharesRecord(t *testing.T) {
	counts := map[string]int{}
	count := func(name string) WorkFunc {
		return func(context.Context, *RunContext) error {
			counts[name]++
			return nil
		}
	}
	root := New("")
	root.Task("default", []string{"setup", "tests"}, nil)
	root.Task("setup", nil, count("setup"))
	root.Task("tests", nil, func(ctx context.Context, rc *RunContext) error {
		return rc.Generate(ctx, "mocha:base")
	})
	root.MustRegisterChild("mocha", func(g *Generator) {
		g.Task("base", []string{"^setup", "files"}, count("mocha:base"))
		g.Task("files", nil, count("mocha:files"))
	})

	summary, err := Run(context.Background(), root, "", testOptions(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if counts["setup"] != 1 || counts["mocha:base"] != 1 || counts["mocha:files"] != 1 {
		t.Errorf("counts = %v, want each task once", counts)
	}
	want := []string{"setup", "mocha:files", "mocha:base", "tests", "default"}
	if got := summary.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("steps = %v, want %v", got, want)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	root := New("")
	root.Task("default", []string{"first", "second"}, nil)
	root.Task("first", nil, func(context.Context, *RunContext) error {
		cancel()
		return nil
	})
	root.Task("second", nil, func(context.Context, *RunContext) error {
		t.Error("second must not run after cancellation")
		return nil
	})

	_, err := Run(ctx, root, "", testOptions(afero.NewMemMapFs()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
