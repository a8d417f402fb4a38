package generator

import (
	"fmt"
	"io"
	"strings"
)

// PrintPlan prints the numbered steps of a plan.
func PrintPlan(w io.Writer, plan *Plan) {
	fmt.Fprintf(w, "Plan for %q (%d steps):\n", planRef(plan.Reference), len(plan.Steps))
	for i, s := range plan.Steps {
		line := fmt.Sprintf("  %2d. %s", i+1, s.Label())
		if s.Task.Work == nil {
			line += " (alias)"
		}
		fmt.Fprintln(w, line)
	}
}

func planRef(ref string) string {
	if ref == "" {
		return DefaultTask
	}
	return ref
}

// PrintDeps prints the dependency tree of ref with box-drawing characters.
// Repeated tasks are shown once and marked "(deduped)" afterwards.
func PrintDeps(w io.Writer, base *Generator, ref string) error {
	g, name, err := Resolve(base, ref)
	if err != nil {
		return err
	}
	seen := make(map[runKey]bool)
	return printDep(w, g, name, "", true, true, seen, nil)
}

func printDep(w io.Writer, g *Generator, name, prefix string, isLast, isRoot bool, seen map[runKey]bool, path []runKey) error {
	k := runKey{gen: g, task: name}
	for _, p := range path {
		if p == k {
			return &CycleError{Path: append(labels(path), label(g, name))}
		}
	}
	task, err := g.GetTask(name)
	if err != nil {
		return err
	}

	connector := "├── "
	if isLast {
		connector = "└── "
	}
	text := label(g, name)
	if seen[k] {
		text += " (deduped)"
	}
	if isRoot {
		fmt.Fprintf(w, "  %s\n", text)
	} else {
		fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, text)
	}
	if seen[k] {
		return nil
	}
	seen[k] = true

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	path = append(path, k)
	for i, dep := range task.Deps {
		dg, dname, err := resolveDependency(g, dep)
		if err != nil {
			return err
		}
		if err := printDep(w, dg, dname, childPrefix, i == len(task.Deps)-1, false, seen, path); err != nil {
			return err
		}
	}
	return nil
}

func labels(keys []runKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = label(k.gen, k.task)
	}
	return out
}

// PrintTree prints g, its tasks, and its children recursively.
func PrintTree(w io.Writer, g *Generator) {
	printGen(w, g, 0)
}

func printGen(w io.Writer, g *Generator, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, g.DisplayPath())
	for _, name := range g.TaskNames() {
		t := g.tasks[name]
		line := fmt.Sprintf("%s  · %s", indent, name)
		if len(t.Deps) > 0 {
			line += " [" + strings.Join(t.Deps, ", ") + "]"
		}
		if t.Description != "" {
			line += ": " + t.Description
		}
		fmt.Fprintln(w, line)
	}
	for _, name := range g.ChildNames() {
		printGen(w, g.children[name], depth+1)
	}
}
