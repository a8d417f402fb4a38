package emit

import (
	"bytes"
	"fmt"
	"path"

	"go.yaml.in/yaml/v3"
)

// Matter is the optional YAML header of a template, delimited by "---"
// lines. It is stripped before rendering.
type Matter struct {
	Rename struct {
		Basename string `yaml:"basename,omitempty"`
		Dirname  string `yaml:"dirname,omitempty"`
	} `yaml:"rename,omitempty"`
	Verbatim bool    `yaml:"verbatim,omitempty"`
	Install  Install `yaml:"install,omitempty"`
}

// Install lists packages a template needs. Tasks may fold them into the
// data context so a later package manifest can declare them.
type Install struct {
	Dependencies    []string `yaml:"dependencies,omitempty"`
	DevDependencies []string `yaml:"devDependencies,omitempty"`
}

var fence = []byte("---")

// SplitFrontMatter separates a leading front-matter block from the body.
// Content without front-matter is returned unchanged with a zero Matter.
func SplitFrontMatter(content []byte) (Matter, []byte, error) {
	var m Matter
	if !bytes.HasPrefix(content, fence) {
		return m, content, nil
	}
	rest := content[len(fence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return m, content, nil
	}
	rest = rest[nl+1:]

	end := bytes.Index(rest, append([]byte("\n"), fence...))
	var header []byte
	switch {
	case bytes.HasPrefix(rest, fence):
		header, rest = nil, rest[len(fence):]
	case end >= 0:
		header, rest = rest[:end], rest[end+1+len(fence):]
	default:
		return m, content, nil
	}
	if i := bytes.IndexByte(rest, '\n'); i >= 0 && len(bytes.TrimSpace(rest[:i])) == 0 {
		rest = rest[i+1:]
	} else if len(bytes.TrimSpace(rest)) == 0 {
		rest = nil
	}

	if err := yaml.Unmarshal(header, &m); err != nil {
		return m, content, fmt.Errorf("parsing front-matter: %w", err)
	}
	return m, rest, nil
}

// apply returns the destination path for rel after the rename rules.
func (m Matter) apply(rel string) string {
	dir, base := path.Split(rel)
	if m.Rename.Dirname != "" {
		dir = m.Rename.Dirname
	}
	if m.Rename.Basename != "" {
		base = m.Rename.Basename
	}
	return path.Join(dir, base)
}
