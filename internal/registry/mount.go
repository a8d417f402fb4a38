package registry

import (
	"context"
	"fmt"
	"slices"

	"github.com/scaffoldr/scaffoldr/internal/ctxlog"
	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/scaffoldr/scaffoldr/internal/manifest"
)

// MountResult lists the generators mounted on the root and the definitions
// that failed to load.
type MountResult struct {
	Mounted  []Discovered
	Problems []error
}

// Mount discovers generators in sources and registers each one as a child
// of root. A discovered generator replaces a built-in child of the same
// name. Definitions that fail to parse or load are reported in Problems and
// skipped so one broken generator does not hide the others.
func Mount(ctx context.Context, root *generator.Generator, loader *manifest.Loader, sources []Source) *MountResult {
	logger := ctxlog.FromContext(ctx)
	res := &MountResult{}

	found, invalid := Scan(ctx, loader.Fs, sources)
	for _, bad := range invalid {
		res.Problems = append(res.Problems, fmt.Errorf("generator definition %s: %w", bad.DefinitionPath, bad.Err))
	}
	for _, d := range found {
		def, err := loader.Load(ctx, d.Dir)
		if err != nil {
			logger.Warn("Skipping generator.", "name", d.Name, "path", d.DefinitionPath, "error", err)
			res.Problems = append(res.Problems, fmt.Errorf("generator %s: %w", d.Name, err))
			continue
		}
		if slices.Contains(root.ChildNames(), def.Name) {
			logger.Info("Generator overrides a built-in.", "name", def.Name, "source", d.Source)
		}
		if _, err := root.RegisterChild(def.Name, loader.Factory(def)); err != nil {
			res.Problems = append(res.Problems, err)
			continue
		}
		logger.Debug("Mounted generator.", "name", def.Name, "source", d.Source, "path", d.Dir)
		res.Mounted = append(res.Mounted, d)
	}
	return res
}
