//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME; holds ~/.scaffoldr/generators
	ProjectDir string // destination directory for runs
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so user-level generators and config are sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	return env
}

// userGenerators returns ~/.scaffoldr/generators inside the sandbox.
func (e *testEnv) userGenerators() string {
	return filepath.Join(e.HomeDir, ".scaffoldr", "generators")
}

// projectGenerators returns <project>/.scaffoldr/generators.
func (e *testEnv) projectGenerators() string {
	return filepath.Join(e.ProjectDir, ".scaffoldr", "generators")
}

// setupDocsGenerator writes a "docs" generator with a nested "api" child
// and a handful of templates into base.
func setupDocsGenerator(t *testing.T, base string) string {
	t.Helper()

	dir := filepath.Join(base, "docs")
	writeFile(t, filepath.Join(dir, "generator.yaml"), `name: docs
version: 1.0.0
engine: ">= 0.1.0"
description: Documentation scaffolding
use:
  - license
tasks:
  - name: default
    deps: [readme, guides, license-mit]
  - name: readme
    questions: [name]
    files: README.md
  - name: guides
    files: "guides/*.md"
    strip: guides
    generate: ["api"]
generators:
  - name: api
    path: api
`)
	writeFile(t, filepath.Join(dir, "templates", "README.md"), "# {{ .name | title }}\n")
	writeFile(t, filepath.Join(dir, "templates", "guides", "intro.md"), "Welcome to {{ .name }}.\n")

	writeFile(t, filepath.Join(dir, "api", "generator.hcl"), `name = "api"

task "default" {
  files    = "API.md"
  verbatim = true
}
`)
	writeFile(t, filepath.Join(dir, "api", "templates", "API.md"), "{{ not rendered }}\n")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	if content := readFile(t, path); !strings.Contains(content, substr) {
		t.Errorf("file %s does not contain %q\ncontent:\n%s", path, substr, content)
	}
}
