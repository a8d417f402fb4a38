package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// packageFile is the subset of package.json used to pre-fill data.
type packageFile struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Homepage    string          `json:"homepage"`
	License     string          `json:"license"`
	Author      json.RawMessage `json:"author"`
	Repository  json.RawMessage `json:"repository"`
}

// Data returns the initial template data for a destination: the project
// name defaults to the directory name, and an existing package.json fills
// in whatever it declares. Prompts are skipped for every field found here.
func Data(fsys afero.Fs, dest string) (map[string]any, error) {
	data := map[string]any{"name": filepath.Base(filepath.Clean(dest))}

	raw, err := afero.ReadFile(fsys, filepath.Join(dest, "package.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}
	var pkg packageFile
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	for key, val := range map[string]string{
		"name":        pkg.Name,
		"description": pkg.Description,
		"version":     pkg.Version,
		"homepage":    pkg.Homepage,
		"license":     pkg.License,
	} {
		if val != "" {
			data[key] = val
		}
	}
	if author := parseAuthor(pkg.Author); len(author) > 0 {
		data["author"] = author
	}
	if owner := parseOwner(pkg.Repository); owner != "" {
		data["owner"] = owner
	}
	return data, nil
}

// parseAuthor accepts both {"name": ..., "url": ...} and the
// "Name <email> (url)" string form.
func parseAuthor(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return compact(map[string]any{"name": obj.Name, "url": obj.URL})
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	author := map[string]any{}
	if i := strings.IndexByte(s, '('); i >= 0 {
		if j := strings.IndexByte(s[i:], ')'); j > 0 {
			author["url"] = strings.TrimSpace(s[i+1 : i+j])
		}
		s = s[:i]
	}
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	author["name"] = strings.TrimSpace(s)
	return compact(author)
}

// parseOwner extracts the owner from "owner/repo" or a GitHub URL.
func parseOwner(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var repo string
	if err := json.Unmarshal(raw, &repo); err != nil {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		repo = obj.URL
	}
	repo = strings.TrimSuffix(repo, ".git")
	if i := strings.Index(repo, "github.com"); i >= 0 {
		repo = strings.TrimLeft(repo[i+len("github.com"):], ":/")
	}
	owner, _, ok := strings.Cut(repo, "/")
	if !ok {
		return ""
	}
	return owner
}

func compact(m map[string]any) map[string]any {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
