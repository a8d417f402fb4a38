package generator

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
)

// DefaultTask is the task name used when a reference omits ":task".
const DefaultTask = "default"

// rootName is how the unnamed root generator is displayed.
const rootName = "self"

// WorkFunc is the body of a task. Tasks that only aggregate dependencies
// have a nil WorkFunc.
type WorkFunc func(ctx context.Context, rc *RunContext) error

// Task is a named unit of work with ordered dependency references.
type Task struct {
	Name        string
	Deps        []string
	Work        WorkFunc
	Description string
}

// Factory populates a freshly created generator with tasks, plugins, and
// children.
type Factory func(g *Generator)

// Generator is a named bundle of tasks and child generators.
type Generator struct {
	name     string
	parent   *Generator
	tasks    map[string]*Task
	order    []string
	children map[string]*Generator
	kids     []string
	applied  map[string]bool

	// Templates is the default source tree for file tasks declared on this
	// generator. Nil means "inherit from the parent".
	Templates fs.FS
}

// New returns an empty generator. An empty name denotes a root generator.
func New(name string) *Generator {
	return &Generator{
		name:     name,
		tasks:    make(map[string]*Task),
		children: make(map[string]*Generator),
		applied:  make(map[string]bool),
	}
}

// Name returns the generator's name within its parent.
func (g *Generator) Name() string { return g.name }

// Parent returns the owning generator, or nil for a root.
func (g *Generator) Parent() *Generator { return g.parent }

// IsRoot reports whether g has no parent.
func (g *Generator) IsRoot() bool { return g.parent == nil }

// Path returns the dotted path from the root to g. The root's path is "".
func (g *Generator) Path() string {
	if g.parent == nil {
		return ""
	}
	var segs []string
	for cur := g; cur.parent != nil; cur = cur.parent {
		segs = append(segs, cur.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ".")
}

// DisplayPath is Path, with the root shown as "self".
func (g *Generator) DisplayPath() string {
	if p := g.Path(); p != "" {
		return p
	}
	if g.name != "" {
		return g.name
	}
	return rootName
}

// Task registers a task, replacing any task already registered under name.
// A replaced task keeps its original listing position.
func (g *Generator) Task(name string, deps []string, work WorkFunc) *Task {
	t := &Task{Name: name, Deps: append([]string(nil), deps...), Work: work}
	if _, exists := g.tasks[name]; !exists {
		g.order = append(g.order, name)
	}
	g.tasks[name] = t
	return t
}

// Describe sets the description of an already registered task. It is a
// no-op when the task does not exist.
func (g *Generator) Describe(name, description string) {
	if t, ok := g.tasks[name]; ok {
		t.Description = description
	}
}

// GetTask returns the task registered under name.
func (g *Generator) GetTask(name string) (*Task, error) {
	t, ok := g.tasks[name]
	if !ok {
		return nil, &TaskNotFoundError{Generator: g.DisplayPath(), Task: name}
	}
	return t, nil
}

// HasTask reports whether a task is registered under name.
func (g *Generator) HasTask(name string) bool {
	_, ok := g.tasks[name]
	return ok
}

// TaskNames lists task names in first-registration order.
func (g *Generator) TaskNames() []string {
	return append([]string(nil), g.order...)
}

// RegisterChild builds a new child generator with factory and mounts it
// under name. A later registration under the same name replaces the earlier
// child. Every call creates a fresh instance, so a child is never shared
// between two parents.
func (g *Generator) RegisterChild(name string, factory Factory) (*Generator, error) {
	if name == "" || strings.ContainsAny(name, ".:^") {
		return nil, fmt.Errorf("invalid generator name %q", name)
	}
	child := New(name)
	child.parent = g
	if factory != nil {
		factory(child)
	}
	if _, exists := g.children[name]; !exists {
		g.kids = append(g.kids, name)
	}
	g.children[name] = child
	return child, nil
}

// MustRegisterChild panics if registration fails.
func (g *Generator) MustRegisterChild(name string, factory Factory) *Generator {
	child, err := g.RegisterChild(name, factory)
	if err != nil {
		panic(err)
	}
	return child
}

// ResolveChild returns the child registered under name.
func (g *Generator) ResolveChild(name string) (*Generator, error) {
	child, ok := g.children[name]
	if !ok {
		return nil, &ResolveError{Reference: name, Segment: name, Parent: g.DisplayPath()}
	}
	return child, nil
}

// ChildNames lists child names in first-registration order.
func (g *Generator) ChildNames() []string {
	return append([]string(nil), g.kids...)
}

// Root walks up to the top of the tree.
func (g *Generator) Root() *Generator {
	cur := g
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// TemplateFS returns the nearest template tree at or above g.
func (g *Generator) TemplateFS() fs.FS {
	for cur := g; cur != nil; cur = cur.parent {
		if cur.Templates != nil {
			return cur.Templates
		}
	}
	return nil
}

// Plugin contributes tasks and children directly into the generator it is
// used on, instead of into a new child namespace.
type Plugin interface {
	Name() string
	Apply(g *Generator)
}

type pluginFunc struct {
	name string
	fn   Factory
}

func (p pluginFunc) Name() string       { return p.name }
func (p pluginFunc) Apply(g *Generator) { p.fn(g) }

// NewPlugin wraps fn as a plugin with the given identity.
func NewPlugin(name string, fn Factory) Plugin {
	return pluginFunc{name: name, fn: fn}
}

// Use applies plugin to g. Applying the same plugin identity to the same
// generator more than once is a no-op. It reports whether the plugin ran.
func (g *Generator) Use(plugin Plugin) bool {
	id := plugin.Name()
	if g.applied[id] {
		return false
	}
	g.applied[id] = true
	plugin.Apply(g)
	return true
}

// Applied reports whether a plugin with the given identity has been used.
func (g *Generator) Applied(id string) bool {
	return g.applied[id]
}
