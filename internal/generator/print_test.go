package generator

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func noop(context.Context, *RunContext) error { return nil }

func TestPrintPlan(t *testing.T) {
	root := New("")
	root.Task("rootfiles", []string{"license", "readme"}, nil)
	root.Task("license", nil, noop)
	root.Task("readme", []string{"license"}, noop)

	plan, err := BuildPlan(root, "rootfiles", nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	var buf bytes.Buffer
	PrintPlan(&buf, plan)

	want := `Plan for "rootfiles" (3 steps):
   1. license
   2. readme
   3. rootfiles (alias)
`
	if buf.String() != want {
		t.Errorf("PrintPlan =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrintPlanDefaultReference(t *testing.T) {
	root := New("")
	root.Task("default", nil, noop)
	plan, err := BuildPlan(root, "", nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	var buf bytes.Buffer
	PrintPlan(&buf, plan)
	if want := "Plan for \"default\" (1 steps):\n   1. default\n"; buf.String() != want {
		t.Errorf("PrintPlan = %q, want %q", buf.String(), want)
	}
}

func TestPrintDeps(t *testing.T) {
	root := New("")
	root.Task("rootfiles", []string{"license", "readme"}, nil)
	root.Task("license", nil, noop)
	root.Task("readme", []string{"license"}, noop)

	var buf bytes.Buffer
	if err := PrintDeps(&buf, root, "rootfiles"); err != nil {
		t.Fatalf("PrintDeps: %v", err)
	}
	want := `  rootfiles
  ├── license
  └── readme
      └── license (deduped)
`
	if buf.String() != want {
		t.Errorf("PrintDeps =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrintDepsErrors(t *testing.T) {
	root := New("")
	root.Task("a", []string{"b"}, nil)
	root.Task("b", []string{"a"}, nil)
	root.Task("c", []string{"missing"}, nil)

	var buf bytes.Buffer
	if err := PrintDeps(&buf, root, "a"); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("cycle: err = %v, want ErrCycleDetected", err)
	}
	if err := PrintDeps(&buf, root, "c"); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("missing dep: err = %v, want ErrUnknownTask", err)
	}
	if err := PrintDeps(&buf, root, "ghost:x"); !errors.Is(err, ErrUnknownGenerator) {
		t.Errorf("unknown generator: err = %v, want ErrUnknownGenerator", err)
	}
}

func TestPrintTree(t *testing.T) {
	root := New("")
	root.Task("a", []string{"b"}, nil)
	root.Describe("a", "Does a")
	root.Task("b", nil, noop)
	root.MustRegisterChild("kid", func(g *Generator) { g.Task("default", nil, noop) })

	var buf bytes.Buffer
	PrintTree(&buf, root)
	want := `self
  · a [b]: Does a
  · b
  kid
    · default
`
	if buf.String() != want {
		t.Errorf("PrintTree =\n%s\nwant\n%s", buf.String(), want)
	}
}
