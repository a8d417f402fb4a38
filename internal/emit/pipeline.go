package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Renderer turns template source into output bytes.
type Renderer interface {
	Render(name string, src []byte, data map[string]any) ([]byte, error)
}

// Selection describes the sources a file task emits.
type Selection struct {
	// Source is the template tree. Patterns are matched against it.
	Source fs.FS
	// Pattern is a doublestar glob ("gulp/*.js", "base/**") or a single path.
	Pattern string
	// Rename maps the source-relative path to a destination-relative path.
	// It runs after front-matter renames.
	Rename func(string) string
	// Strip removes a leading directory from destination paths, so
	// "gulp/plugin.js" can land at "plugin.js".
	Strip string
	// Verbatim copies sources without rendering.
	Verbatim bool
}

// Pipeline renders selected sources and writes them under Root on Dest.
type Pipeline struct {
	Dest     afero.Fs
	Root     string
	Renderer Renderer
	Policy   Policy
}

// Emit renders and writes every source matched by sel, in lexical order.
// It stops at the first render or I/O error. Skipped files are reported in
// the results, not as errors.
func (p *Pipeline) Emit(ctx context.Context, sel Selection, data map[string]any) ([]Result, error) {
	files, err := p.Collect(sel, data)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := p.Write(f)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Collect selects and renders the sources of sel without touching the
// destination.
func (p *Pipeline) Collect(sel Selection, data map[string]any) ([]File, error) {
	if sel.Source == nil {
		return nil, fmt.Errorf("%w %q: no template source configured", ErrNoSources, sel.Pattern)
	}
	matches, err := match(sel.Source, sel.Pattern)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(matches))
	for _, name := range matches {
		raw, err := fs.ReadFile(sel.Source, name)
		if err != nil {
			return nil, ioError(name, "reading source", err)
		}
		matter, body, err := SplitFrontMatter(raw)
		if err != nil {
			return nil, renderError(name, err)
		}

		rel := name
		if sel.Strip != "" {
			if r, ok := stripDir(rel, sel.Strip); ok {
				rel = r
			}
		}
		rel = matter.apply(rel)
		if sel.Rename != nil {
			rel = sel.Rename(rel)
		}
		rel, err = cleanRel(rel)
		if err != nil {
			return nil, ioError(name, "resolving destination", err)
		}

		f := File{Path: rel, Source: name, Install: matter.Install}
		if sel.Verbatim || matter.Verbatim || p.Renderer == nil {
			f.Content = body
		} else {
			out, err := p.Renderer.Render(name, body, data)
			if err != nil {
				return nil, renderError(name, err)
			}
			f.Content = out
			f.Templated = true
		}
		files = append(files, f)
	}
	return files, nil
}

// Write runs the conflict check for f and writes it when allowed.
func (p *Pipeline) Write(f File) (Result, error) {
	res := Result{Path: f.Path, Templated: f.Templated, Outcome: Unwritten, Install: f.Install}
	rel, err := cleanRel(f.Path)
	if err != nil {
		return res, ioError(f.Path, "resolving destination", err)
	}
	dst := p.destPath(rel)

	existing, err := afero.ReadFile(p.Dest, dst)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Nothing to conflict with.
	case err != nil:
		return res, ioError(f.Path, "reading destination", err)
	case bytes.Equal(existing, f.Content):
		res.Outcome = Written
		res.Unchanged = true
		return res, nil
	default:
		res.Outcome = WouldOverwrite
		policy := p.Policy
		if policy == nil {
			policy = SkipAll
		}
		decision, err := policy.Decide(f.Path, existing, f.Content)
		if err != nil {
			return res, &FileError{Path: f.Path, Err: err}
		}
		if decision == Skip {
			res.Outcome = Skipped
			return res, nil
		}
	}

	if err := writeAtomic(p.Dest, dst, f.Content); err != nil {
		return res, ioError(f.Path, "writing destination", err)
	}
	res.Outcome = Written
	return res, nil
}

func (p *Pipeline) destPath(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// cleanRel normalises a destination path and rejects paths that would land
// outside the destination root.
func cleanRel(rel string) (string, error) {
	if rel == "" {
		return "", errors.New("empty destination path")
	}
	slashed := filepath.ToSlash(rel)
	if path.IsAbs(slashed) || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("destination path %q must be relative", rel)
	}
	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("destination path %q escapes the destination root", rel)
	}
	return clean, nil
}

// writeAtomic writes to a temporary sibling and renames it into place. An
// existing file keeps its permissions; new files get 0644.
func writeAtomic(fsys afero.Fs, dst string, content []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := fsys.Stat(dst); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(dst)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		fsys.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(name)
		return err
	}
	if err := fsys.Chmod(name, mode); err != nil {
		fsys.Remove(name)
		return err
	}
	if err := fsys.Rename(name, dst); err != nil {
		fsys.Remove(name)
		return err
	}
	return nil
}

// match returns the regular files of fsys matched by pattern, sorted.
func match(fsys fs.FS, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	candidates, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: matching %q: %v", ErrIO, pattern, err)
	}

	var out []string
	for _, name := range candidates {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return nil, ioError(name, "stat source", err)
		}
		if info.IsDir() {
			continue
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoSources, pattern)
	}
	sort.Strings(out)
	return out, nil
}

func stripDir(rel, dir string) (string, bool) {
	dir = path.Clean(dir) + "/"
	if len(rel) > len(dir) && rel[:len(dir)] == dir {
		return rel[len(dir):], true
	}
	return rel, false
}
