package generator

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestResolveQualified(t *testing.T) {
	root := New("")
	a := root.MustRegisterChild("a", nil)
	b := a.MustRegisterChild("b", func(g *Generator) { g.Task("x", nil, nil) })

	g, task, err := Resolve(root, "a.b:x")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g != b || task != "x" {
		t.Errorf("Resolve = (%s, %s), want (a.b, x)", g.DisplayPath(), task)
	}
}

func TestResolveUnknownSegment(t *testing.T) {
	root := New("")
	a := root.MustRegisterChild("a", nil)
	a.MustRegisterChild("b", nil)

	_, _, err := Resolve(root, "a.c:x")
	if !errors.Is(err, ErrUnknownGenerator) {
		t.Fatalf("err = %v, want ErrUnknownGenerator", err)
	}
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("err = %T, want *ResolveError", err)
	}
	if re.Segment != "c" {
		t.Errorf("Segment = %q, want %q", re.Segment, "c")
	}
}

func TestResolveForms(t *testing.T) {
	root := New("")
	root.Task("build", nil, nil)
	project := root.MustRegisterChild("project", func(g *Generator) {
		g.Task("default", nil, nil)
		g.Task("minimal", nil, nil)
	})
	// A root task shadows a child with the same bare name.
	root.MustRegisterChild("build", nil)

	tests := []struct {
		ref      string
		wantGen  *Generator
		wantTask string
	}{
		{"", root, "default"},
		{":build", root, "build"},
		{"build", root, "build"},
		{"project", project, "default"},
		{"project:", project, "default"},
		{"project:minimal", project, "minimal"},
		{"missing", root, "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			g, task, err := Resolve(root, tt.ref)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.ref, err)
			}
			if g != tt.wantGen || task != tt.wantTask {
				t.Errorf("Resolve(%q) = (%s, %s), want (%s, %s)",
					tt.ref, g.DisplayPath(), task, tt.wantGen.DisplayPath(), tt.wantTask)
			}
		})
	}
}

func TestBuildPlanDeclarationOrder(t *testing.T) {
	root := New("")
	root.Task("rootfiles", []string{"license", "readme"}, nil)
	root.Task("license", nil, nil)
	root.Task("readme", nil, nil)

	plan, err := BuildPlan(root, "rootfiles", nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	want := []string{"license", "readme", "rootfiles"}
	if got := plan.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan = %v, want %v", got, want)
	}
	if last := plan.Steps[len(plan.Steps)-1]; last.Task.Name != "rootfiles" {
		t.Errorf("last step = %s, want the requested task", last.Label())
	}
}

func TestBuildPlanDependenciesFirstAndDeduped(t *testing.T) {
	root := New("")
	root.Task("project", []string{"prompt", "dotfiles", "index", "rootfiles"}, nil)
	root.Task("prompt", nil, nil)
	root.Task("dotfiles", []string{"prompt", "editorconfig", "gitignore"}, nil)
	root.Task("rootfiles", []string{"prompt", "license", "readme"}, nil)
	root.Task("index", []string{"prompt"}, nil)
	for _, name := range []string{"editorconfig", "gitignore", "license"} {
		root.Task(name, nil, nil)
	}
	root.Task("readme", []string{"license"}, nil)

	plan, err := BuildPlan(root, "project", nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	labels := plan.Labels()

	pos := make(map[string]int)
	for i, l := range labels {
		if _, dup := pos[l]; dup {
			t.Fatalf("%s appears twice in %v", l, labels)
		}
		pos[l] = i
	}

	for _, name := range root.TaskNames() {
		task, _ := root.GetTask(name)
		for _, dep := range task.Deps {
			if pos[dep] >= pos[name] {
				t.Errorf("%s (at %d) must precede %s (at %d)", dep, pos[dep], name, pos[name])
			}
		}
	}

	want := []string{"prompt", "editorconfig", "gitignore", "dotfiles", "index", "license", "readme", "rootfiles", "project"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("plan = %v, want %v", labels, want)
	}
}

func TestBuildPlanCycle(t *testing.T) {
	root := New("")
	root.Task("A", []string{"B"}, nil)
	root.Task("B", []string{"A"}, nil)

	_, err := BuildPlan(root, "A", nil)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("err = %v, want ErrCycleDetected", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %T, want *CycleError", err)
	}
	if want := []string{"A", "B", "A"}; !reflect.DeepEqual(ce.Path, want) {
		t.Errorf("cycle path = %v, want %v", ce.Path, want)
	}
}

func TestBuildPlanCycleAcrossGenerators(t *testing.T) {
	root := New("")
	root.Task("top", []string{"child:mid"}, nil)
	root.MustRegisterChild("child", func(g *Generator) {
		g.Task("mid", []string{"^top"}, nil)
	})

	_, err := BuildPlan(root, "top", nil)
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CycleError", err)
	}
	if want := []string{"top", "child:mid", "top"}; !reflect.DeepEqual(ce.Path, want) {
		t.Errorf("cycle path = %v, want %v", ce.Path, want)
	}
}

func TestBuildPlanSelfCycle(t *testing.T) {
	root := New("")
	root.Task("loop", []string{"loop"}, nil)
	_, err := BuildPlan(root, "loop", nil)
	var ce *CycleError
	if !errors.As(err, &ce) || strings.Join(ce.Path, ",") != "loop,loop" {
		t.Fatalf("err = %v, want cycle loop -> loop", err)
	}
}

func TestBuildPlanUnknownTask(t *testing.T) {
	root := New("")
	root.Task("files", []string{"editorconfig", "nope"}, nil)
	root.Task("editorconfig", nil, nil)

	_, err := BuildPlan(root, "files", nil)
	var nf *TaskNotFoundError
	if !errors.As(err, &nf) || nf.Task != "nope" {
		t.Fatalf("err = %v, want TaskNotFoundError for nope", err)
	}

	if _, err := BuildPlan(root, "missing", nil); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("requesting a missing task: err = %v, want ErrUnknownTask", err)
	}
}

func TestBuildPlanBareDependencyStaysInOwner(t *testing.T) {
	dotfiles := func(g *Generator) {
		g.Task("dotfiles", []string{"gitignore"}, nil)
		g.Task("gitignore", nil, nil)
	}
	root := New("")
	root.Task("gitignore", nil, nil)
	root.Task("default", []string{"mounted:dotfiles"}, nil)
	mounted := root.MustRegisterChild("mounted", dotfiles)

	plan, err := BuildPlan(root, "", nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	want := []string{"mounted:gitignore", "mounted:dotfiles", "default"}
	if got := plan.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan = %v, want %v", got, want)
	}
	if plan.Steps[0].Generator != mounted {
		t.Error("bare dependency must resolve inside the owning generator")
	}
}

func TestBuildPlanParentReference(t *testing.T) {
	root := New("")
	root.Task("prompt", nil, nil)
	root.MustRegisterChild("a", func(g *Generator) {
		g.Task("default", []string{"^prompt", "^b:files"}, nil)
	})
	root.MustRegisterChild("b", func(g *Generator) {
		g.Task("files", nil, nil)
	})

	plan, err := BuildPlan(root, "a", nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	want := []string{"prompt", "b:files", "a:default"}
	if got := plan.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan = %v, want %v", got, want)
	}

	_, err = BuildPlan(New(""), "^x", nil)
	// "^x" on a root resolves as a bare task, so only dependency references
	// can climb. A dependency climbing past the root fails.
	if !errors.Is(err, ErrUnknownTask) {
		t.Errorf("err = %v, want ErrUnknownTask", err)
	}
	top := New("")
	top.Task("t", []string{"^up"}, nil)
	if _, err := BuildPlan(top, "t", nil); !errors.Is(err, ErrUnknownGenerator) {
		t.Errorf("climbing past the root: err = %v, want ErrUnknownGenerator", err)
	}
}

func TestBuildPlanSkipsRecorded(t *testing.T) {
	root := New("")
	root.Task("a", []string{"shared"}, nil)
	root.Task("b", []string{"shared"}, nil)
	root.Task("shared", nil, nil)

	record := NewRunRecord()
	first, err := BuildPlan(root, "a", record)
	if err != nil {
		t.Fatalf("BuildPlan(a): %v", err)
	}
	second, err := BuildPlan(root, "b", record)
	if err != nil {
		t.Fatalf("BuildPlan(b): %v", err)
	}
	if got := first.Labels(); !reflect.DeepEqual(got, []string{"shared", "a"}) {
		t.Errorf("first plan = %v", got)
	}
	if got := second.Labels(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("second plan = %v, want [b]", got)
	}

	again, err := BuildPlan(root, "a", record)
	if err != nil || len(again.Steps) != 0 {
		t.Errorf("re-planning a recorded task should yield an empty plan, got %v, %v", again, err)
	}
	if record.Len() != 3 {
		t.Errorf("record.Len = %d, want 3", record.Len())
	}
}

func TestBuildPlanDeepChain(t *testing.T) {
	root := New("")
	const depth = 5000
	for i := 0; i < depth; i++ {
		var deps []string
		if i+1 < depth {
			deps = []string{taskName(i + 1)}
		}
		root.Task(taskName(i), deps, nil)
	}
	plan, err := BuildPlan(root, taskName(0), nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Steps) != depth {
		t.Fatalf("len = %d, want %d", len(plan.Steps), depth)
	}
	if plan.Steps[0].Task.Name != taskName(depth-1) || plan.Steps[depth-1].Task.Name != taskName(0) {
		t.Error("deepest dependency must come first")
	}
}

func taskName(i int) string {
	return "t" + strconv.Itoa(i)
}
