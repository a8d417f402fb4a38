package manifest

// File names recognised as generator definitions, in lookup order.
const (
	FileYAML = "generator.yaml"
	FileHCL  = "generator.hcl"
)

// DefaultTemplates is the template directory used when a definition does
// not name one.
const DefaultTemplates = "templates"

// Definition is a declarative generator.
type Definition struct {
	Name        string     `yaml:"name" json:"name" hcl:"name"`
	Version     string     `yaml:"version,omitempty" json:"version,omitempty" hcl:"version,optional"`
	Engine      string     `yaml:"engine,omitempty" json:"engine,omitempty" hcl:"engine,optional"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty" hcl:"description,optional"`
	Templates   string     `yaml:"templates,omitempty" json:"templates,omitempty" hcl:"templates,optional"`
	Use         []string   `yaml:"use,omitempty" json:"use,omitempty" hcl:"use,optional"`
	Tasks       []TaskDef  `yaml:"tasks,omitempty" json:"tasks,omitempty" hcl:"task,block"`
	Generators  []ChildDef `yaml:"generators,omitempty" json:"generators,omitempty" hcl:"generator,block"`

	// Dir is the directory holding the definition file.
	Dir string `yaml:"-" json:"-"`
	// Source is the definition file path.
	Source string `yaml:"-" json:"-"`
	// Children are the loaded definitions of Generators, in order.
	Children []*Definition `yaml:"-" json:"-"`
}

// TaskDef declares one task.
type TaskDef struct {
	Name        string `yaml:"name" json:"name" hcl:"name,label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" hcl:"description,optional"`
	// Deps are task references run before this task.
	Deps []string `yaml:"deps,omitempty" json:"deps,omitempty" hcl:"deps,optional"`
	// Questions are data fields asked for before any files are emitted.
	Questions []string `yaml:"questions,omitempty" json:"questions,omitempty" hcl:"questions,optional"`
	// Files is a glob over the template directory.
	Files string `yaml:"files,omitempty" json:"files,omitempty" hcl:"files,optional"`
	// Strip removes a leading directory from emitted paths.
	Strip    string `yaml:"strip,omitempty" json:"strip,omitempty" hcl:"strip,optional"`
	Verbatim bool   `yaml:"verbatim,omitempty" json:"verbatim,omitempty" hcl:"verbatim,optional"`
	// Generate lists sub-generator references, relative to this generator.
	// They are planned after Deps, so they run before this task's own
	// questions and files.
	Generate []string `yaml:"generate,omitempty" json:"generate,omitempty" hcl:"generate,optional"`
}

// References returns the task's dependency references: Deps followed by
// Generate.
func (t TaskDef) References() []string {
	if len(t.Generate) == 0 {
		return t.Deps
	}
	refs := make([]string, 0, len(t.Deps)+len(t.Generate))
	refs = append(refs, t.Deps...)
	return append(refs, t.Generate...)
}

// ChildDef mounts the definition found in Path (relative to the parent's
// directory) as a child generator called Name.
type ChildDef struct {
	Name string `yaml:"name" json:"name" hcl:"name,label"`
	Path string `yaml:"path" json:"path" hcl:"path"`
}

// TemplatesDir returns the template directory name.
func (d *Definition) TemplatesDir() string {
	if d.Templates == "" {
		return DefaultTemplates
	}
	return d.Templates
}
