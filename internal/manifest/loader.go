package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/scaffoldr/scaffoldr/internal/ctxlog"
	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/spf13/afero"
)

// ErrNoDefinition is returned when a directory holds neither
// generator.yaml nor generator.hcl.
var ErrNoDefinition = errors.New("no generator definition")

// Loader reads definitions from a filesystem and turns them into generator
// factories.
type Loader struct {
	// Fs is where definitions and templates are read from. Nil means the OS
	// filesystem.
	Fs afero.Fs
	// EngineVersion is checked against each definition's engine constraint.
	EngineVersion string
	// Plugins are the built-in plugins a definition may name under use.
	Plugins map[string]generator.Plugin
}

func (l *Loader) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}

// FindFile returns the definition file in dir.
func (l *Loader) FindFile(dir string) (string, error) {
	for _, name := range []string{FileYAML, FileHCL} {
		p := filepath.Join(dir, name)
		ok, err := afero.Exists(l.fs(), p)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", p, err)
		}
		if ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoDefinition, dir)
}

// Load reads the definition in dir along with every nested child
// definition.
func (l *Loader) Load(ctx context.Context, dir string) (*Definition, error) {
	return l.load(ctx, dir, nil)
}

func (l *Loader) load(ctx context.Context, dir string, stack []string) (*Definition, error) {
	logger := ctxlog.FromContext(ctx)

	abs := filepath.Clean(dir)
	for _, d := range stack {
		if d == abs {
			return nil, fmt.Errorf("generator definitions include each other: %s -> %s",
				strings.Join(stack, " -> "), abs)
		}
	}
	stack = append(stack, abs)

	path, err := l.FindFile(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loading generator definition.", "path", path)

	data, err := afero.ReadFile(l.fs(), path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	def, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	def.Dir = dir

	if err := CheckEngine(def.Engine, l.EngineVersion); err != nil {
		return nil, fmt.Errorf("generator %s (%s): %w", def.Name, path, err)
	}
	for _, name := range def.Use {
		if _, ok := l.Plugins[name]; !ok {
			return nil, fmt.Errorf("generator %s (%s): unknown plugin %q", def.Name, path, name)
		}
	}

	for _, child := range def.Generators {
		childDir := child.Path
		if !filepath.IsAbs(childDir) {
			childDir = filepath.Join(dir, childDir)
		}
		cd, err := l.load(ctx, childDir, stack)
		if err != nil {
			return nil, fmt.Errorf("loading child generator %s of %s: %w", child.Name, def.Name, err)
		}
		def.Children = append(def.Children, cd)
	}

	logger.Debug("Loaded generator definition.", "name", def.Name, "tasks", len(def.Tasks), "children", len(def.Children))
	return def, nil
}

// Factory returns a factory that builds def into a generator: plugins
// first, then the declared tasks (which override plugin tasks of the same
// name), then the child generators.
func (l *Loader) Factory(def *Definition) generator.Factory {
	return func(g *generator.Generator) {
		if tfs := l.templates(def); tfs != nil {
			g.Templates = tfs
		}
		for _, name := range def.Use {
			g.Use(l.Plugins[name])
		}
		for _, t := range def.Tasks {
			g.Task(t.Name, t.References(), work(t))
			if t.Description != "" {
				g.Describe(t.Name, t.Description)
			}
		}
		for i, child := range def.Generators {
			g.MustRegisterChild(child.Name, l.Factory(def.Children[i]))
		}
	}
}

// templates returns the definition's template tree, or nil when the
// directory does not exist.
func (l *Loader) templates(def *Definition) fs.FS {
	dir := filepath.Join(def.Dir, def.TemplatesDir())
	if ok, _ := afero.DirExists(l.fs(), dir); !ok {
		return nil
	}
	return afero.NewIOFS(afero.NewBasePathFs(l.fs(), dir))
}

func work(t TaskDef) generator.WorkFunc {
	if len(t.Questions) == 0 && t.Files == "" {
		return nil
	}
	return func(ctx context.Context, rc *generator.RunContext) error {
		if len(t.Questions) > 0 {
			if err := rc.Ask(ctx, t.Questions); err != nil {
				return err
			}
		}
		if t.Files != "" {
			sel := emit.Selection{Pattern: t.Files, Strip: t.Strip, Verbatim: t.Verbatim}
			if _, err := rc.Emit(ctx, sel); err != nil {
				return err
			}
		}
		return nil
	}
}
