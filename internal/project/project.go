package project

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/spf13/afero"
)

// Name is the name the project generator is mounted under.
const Name = "project"

// ErrNotEmpty is returned by is-empty when the destination already holds
// files.
var ErrNotEmpty = errors.New("destination directory is not empty")

// CommonFields are the data fields the prompt task asks for.
var CommonFields = []string{
	"name",
	"description",
	"owner",
	"homepage",
	"license",
	"author.name",
	"author.username",
	"author.url",
}

// ignoredEntries do not count when checking for an empty destination.
var ignoredEntries = map[string]bool{".git": true, ".DS_Store": true}

// Register mounts the project generator and every micro-generator on root.
func Register(root *generator.Generator) {
	root.MustRegisterChild(Name, Generator)
	for _, m := range micros {
		root.MustRegisterChild(m.plugin.Name(), func(g *generator.Generator) {
			g.Use(m.plugin)
			g.Task(generator.DefaultTask, []string{m.main}, nil)
		})
	}
}

// Generator builds the project generator.
func Generator(g *generator.Generator) {
	g.Templates = projectFS

	for _, m := range micros {
		g.Use(m.plugin)
	}
	g.MustRegisterChild("mocha", Mocha)

	g.Task(generator.DefaultTask, []string{"project"}, nil)
	g.Describe(generator.DefaultTask, "Generate the files for a basic node.js project.")
	g.Task("project", []string{"is-empty", "prompt", "dotfiles", "index", "rootfiles"}, nil)
	g.Describe("project", "Generate the files for a basic node.js project.")

	g.Task("prompt", nil, promptTask)
	g.Describe("prompt", "Ask for commonly used data up front.")
	g.Task("is-empty", nil, isEmpty)
	g.Describe("is-empty", "Fail unless the destination directory is empty.")

	g.Task("files", []string{"dotfiles", "rootfiles"}, nil)
	g.Describe("files", "Generate the dotfiles and rootfiles.")
	fileTask(g, "index", "Generate a basic index.js.", nil, "index.js")
	g.Task("dotfiles", []string{"editorconfig", "eslintrc", "gitattributes", "gitignore-minimal", "travis"}, nil)
	g.Describe("dotfiles", "Generate the dotfiles from the micro-generators.")
	g.Task("rootfiles", []string{"contributing", "license-mit", "package", "readme"}, nil)
	g.Describe("rootfiles", "Generate the main project files from the micro-generators.")

	g.Task("gulp", []string{"prompt", "dotfiles", "gulp-plugin", "gulp-file", "rootfiles"}, nil)
	g.Describe("gulp", "Scaffold a gulp plugin project.")
	fileTask(g, "gulp-file", "Generate a gulpfile.js.", nil, "gulp/gulpfile.js")
	fileTask(g, "gulp-plugin", "Generate a gulp plugin index.js.", nil, "gulp/plugin.js")

	g.Task("base", []string{"prompt", "dotfiles", "base-index", "base-tests", "rootfiles"}, nil)
	g.Describe("base", "Scaffold a base plugin project.")
	fileTask(g, "base-index", "Generate a base plugin index.js.", nil, "base/plugin.js")
	g.Task("base-tests", []string{"mocha:base"}, nil)
	g.Describe("base-tests", "Generate mocha tests for a base plugin.")

	g.Task("min", []string{"minimal"}, nil)
	g.Describe("min", "Alias for minimal.")
	g.Task("minimal", []string{"prompt", "gitignore-node", "license-mit", "package", "readme"}, nil)
	g.Describe("minimal", "Scaffold a minimal code project.")

	g.Task("gen", []string{"generator"}, nil)
	g.Describe("gen", "Alias for generator.")
	g.Task("generator", []string{"prompt", "dotfiles", "generator-files", "generator-tests", "rootfiles"}, nil)
	g.Describe("generator", "Scaffold a generator project.")
	fileTask(g, "generator-files", "Generate the generator's generator.js.", nil, "generator/*.js")
	g.Task("generator-tests", []string{"mocha:generator"}, nil)
	g.Describe("generator-tests", "Generate mocha tests for a generator.")

	fileTask(g, "helper", "Scaffold a template helper project.", nil, "helper/*.js", "files")

	g.Task("middleware", []string{"prompt", "dotfiles", "middleware-index", "rootfiles"}, nil)
	g.Describe("middleware", "Scaffold a middleware project.")
	fileTask(g, "middleware-index", "Generate a middleware index.js.", nil, "middleware/index.js")
}

// Mocha builds the mocha sub-generator.
func Mocha(g *generator.Generator) {
	g.Templates = mochaFS
	fileTask(g, "base", "Generate test.js for a base plugin.", nil, "base.js")
	fileTask(g, "generator", "Generate test.js for a generator.", nil, "generator.js")
	g.Task(generator.DefaultTask, []string{"base"}, nil)
}

func promptTask(ctx context.Context, rc *generator.RunContext) error {
	return rc.Ask(ctx, CommonFields)
}

func isEmpty(ctx context.Context, rc *generator.RunContext) error {
	if !rc.Options().CheckDirectory {
		return nil
	}
	root := rc.DestPath(".")
	entries, err := afero.ReadDir(rc.Dest(), root)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking destination %s: %w", root, err)
	}
	for _, e := range entries {
		if !ignoredEntries[e.Name()] {
			return fmt.Errorf("%w: %s (found %s; disable check-directory to generate anyway)", ErrNotEmpty, root, e.Name())
		}
	}
	return nil
}
