package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/scaffoldr/scaffoldr/internal/ctxlog"
	"github.com/scaffoldr/scaffoldr/internal/manifest"
	"github.com/spf13/afero"
)

// Discover walks sources in priority order and returns every generator
// definition found. A source may itself hold a definition, or hold one
// generator per immediate subdirectory. Generators found in earlier
// sources take priority; later duplicates are skipped. Inaccessible
// sources and unparseable definitions are skipped too.
func Discover(ctx context.Context, fsys afero.Fs, sources []Source) []Discovered {
	found, _ := Scan(ctx, fsys, sources)
	return found
}

// Scan is Discover that also returns the definition files it could not
// parse.
func Scan(ctx context.Context, fsys afero.Fs, sources []Source) ([]Discovered, []Invalid) {
	logger := ctxlog.FromContext(ctx)
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	seen := make(map[string]bool)
	var result []Discovered
	var invalid []Invalid

	for _, src := range sources {
		found, bad, err := walkSource(ctx, fsys, src)
		if err != nil {
			logger.Debug("Skipping generator source.", "source", src.Name, "path", src.BasePath, "error", err)
			continue
		}
		invalid = append(invalid, bad...)
		for _, d := range found {
			if seen[d.Name] {
				logger.Debug("Generator shadowed by an earlier source.", "name", d.Name, "source", d.Source)
				continue
			}
			seen[d.Name] = true
			result = append(result, d)
		}
	}
	return result, invalid
}

// Lookup returns the highest-priority generator called name.
func Lookup(ctx context.Context, fsys afero.Fs, sources []Source, name string) (*Discovered, error) {
	for _, d := range Discover(ctx, fsys, sources) {
		if d.Name == name {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("generator %q not found in any source", name)
}

func walkSource(ctx context.Context, fsys afero.Fs, src Source) ([]Discovered, []Invalid, error) {
	info, err := fsys.Stat(src.BasePath)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%s is not a directory", src.BasePath)
	}

	if d, ok, err := inspect(ctx, fsys, src, src.BasePath); ok {
		if err != nil {
			return nil, []Invalid{{Source: src.Name, DefinitionPath: d.DefinitionPath, Err: err}}, nil
		}
		return []Discovered{d}, nil, nil
	}

	entries, err := afero.ReadDir(fsys, src.BasePath)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var result []Discovered
	var invalid []Invalid
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		d, ok, err := inspect(ctx, fsys, src, filepath.Join(src.BasePath, e.Name()))
		switch {
		case !ok:
		case err != nil:
			invalid = append(invalid, Invalid{Source: src.Name, DefinitionPath: d.DefinitionPath, Err: err})
		default:
			result = append(result, d)
		}
	}
	return result, invalid, nil
}

// inspect reads the definition in dir, if any, for its metadata. ok is
// false when dir holds no definition; err is set when it holds one that
// cannot be read or parsed.
func inspect(ctx context.Context, fsys afero.Fs, src Source, dir string) (d Discovered, ok bool, err error) {
	loader := &manifest.Loader{Fs: fsys}
	path, err := loader.FindFile(dir)
	if err != nil {
		return Discovered{}, false, nil
	}
	d = Discovered{Dir: dir, DefinitionPath: path, Source: src.Name}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return d, true, fmt.Errorf("reading %s: %w", path, err)
	}
	def, err := manifest.Parse(data, path)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Skipping unreadable generator definition.", "path", path, "error", err)
		return d, true, err
	}
	d.Name = def.Name
	d.Version = def.Version
	d.Description = def.Description
	return d, true, nil
}
