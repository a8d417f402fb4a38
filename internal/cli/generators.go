package cli

import (
	"context"

	"github.com/scaffoldr/scaffoldr/internal/config"
	"github.com/scaffoldr/scaffoldr/internal/ctxlog"
	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/scaffoldr/scaffoldr/internal/manifest"
	"github.com/scaffoldr/scaffoldr/internal/project"
	"github.com/scaffoldr/scaffoldr/internal/registry"
)

// newLoader returns the definition loader used for discovered generators.
func newLoader() *manifest.Loader {
	return &manifest.Loader{
		EngineVersion: buildVersion,
		Plugins:       project.Plugins(),
	}
}

// buildRoot assembles the root generator: the built-in project generator
// and micro-generators, then everything discovered in the configured
// sources. The root's default task runs the project generator.
func buildRoot(ctx context.Context, s config.Settings) (*generator.Generator, *registry.MountResult) {
	root := generator.New("")
	project.Register(root)
	root.Task(generator.DefaultTask, []string{project.Name}, nil)
	root.Describe(generator.DefaultTask, "Run the project generator.")

	mounted := registry.Mount(ctx, root, newLoader(), s.Sources())
	for _, err := range mounted.Problems {
		ctxlog.FromContext(ctx).Warn("Generator not mounted.", "error", err)
	}
	return root, mounted
}
