package project

import (
	"context"
	"io/fs"
	"sort"

	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/generator"
)

// fileTask registers a task that emits the templates matching pattern from
// src. A nil src emits from the generator's own template tree.
func fileTask(g *generator.Generator, name, description string, src fs.FS, pattern string, deps ...string) {
	g.Task(name, deps, emitFiles(src, pattern))
	g.Describe(name, description)
}

func emitFiles(src fs.FS, pattern string) generator.WorkFunc {
	return func(ctx context.Context, rc *generator.RunContext) error {
		results, err := rc.Emit(ctx, emit.Selection{Source: src, Pattern: pattern, Strip: globDir(pattern)})
		if err != nil {
			return err
		}
		AddInstall(rc.Data(), results)
		return nil
	}
}

// AddInstall folds the packages declared in the front-matter of emitted
// templates into data under "dependencies" and "devDependencies", sorted
// and without duplicates.
func AddInstall(data map[string]any, results []emit.Result) {
	for _, res := range results {
		mergeList(data, "dependencies", res.Install.Dependencies)
		mergeList(data, "devDependencies", res.Install.DevDependencies)
	}
}

func mergeList(data map[string]any, key string, add []string) {
	if len(add) == 0 {
		return
	}
	set := make(map[string]bool)
	switch cur := data[key].(type) {
	case []string:
		for _, s := range cur {
			set[s] = true
		}
	case []any:
		for _, v := range cur {
			if s, ok := v.(string); ok {
				set[s] = true
			}
		}
	}
	for _, s := range add {
		set[s] = true
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	data[key] = out
}

// micro describes a micro-generator: its plugin and the task its default
// task runs when it is mounted on its own.
type micro struct {
	plugin generator.Plugin
	main   string
}

var micros = []micro{
	{generator.NewPlugin("contributing", contributing), "contributing"},
	{generator.NewPlugin("editorconfig", editorconfig), "editorconfig"},
	{generator.NewPlugin("eslint", eslint), "eslint"},
	{generator.NewPlugin("gitattributes", gitattributes), "gitattributes"},
	{generator.NewPlugin("gitignore", gitignore), "gitignore"},
	{generator.NewPlugin("license", license), "license"},
	{generator.NewPlugin("package", packageJSON), "package"},
	{generator.NewPlugin("readme", readme), "readme"},
	{generator.NewPlugin("travis", travis), "travis"},
}

// Plugins returns the micro-generator plugins by name.
func Plugins() map[string]generator.Plugin {
	out := make(map[string]generator.Plugin, len(micros))
	for _, m := range micros {
		out[m.plugin.Name()] = m.plugin
	}
	return out
}

func contributing(g *generator.Generator) {
	fileTask(g, "contributing", "Generate a CONTRIBUTING.md file.", microFS, "contributing/CONTRIBUTING.md")
}

func editorconfig(g *generator.Generator) {
	fileTask(g, "editorconfig", "Generate an .editorconfig file.", microFS, "editorconfig/editorconfig")
}

func eslint(g *generator.Generator) {
	fileTask(g, "eslintrc", "Generate an .eslintrc.json file.", microFS, "eslint/eslintrc.json")
	g.Task("eslint", []string{"eslintrc"}, nil)
	g.Describe("eslint", "Alias for eslintrc.")
}

func gitattributes(g *generator.Generator) {
	fileTask(g, "gitattributes", "Generate a .gitattributes file.", microFS, "gitattributes/gitattributes")
}

func gitignore(g *generator.Generator) {
	fileTask(g, "gitignore-node", "Generate a .gitignore for node.js projects.", microFS, "gitignore/node.gitignore")
	fileTask(g, "gitignore-minimal", "Generate a minimal .gitignore.", microFS, "gitignore/minimal.gitignore")
	g.Task("gitignore", []string{"gitignore-node"}, nil)
	g.Describe("gitignore", "Alias for gitignore-node.")
}

func license(g *generator.Generator) {
	fileTask(g, "license-mit", "Generate an MIT LICENSE file.", microFS, "license/mit.txt")
	g.Task("license", []string{"license-mit"}, nil)
	g.Describe("license", "Alias for license-mit.")
}

func packageJSON(g *generator.Generator) {
	fileTask(g, "package", "Generate a package.json file.", microFS, "package/package.json")
}

func readme(g *generator.Generator) {
	fileTask(g, "readme", "Generate a README.md file.", microFS, "readme/README.md")
}

func travis(g *generator.Generator) {
	fileTask(g, "travis", "Generate a .travis.yml file.", microFS, "travis/travis.yml")
}
