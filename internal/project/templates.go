package project

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates
var templates embed.FS

func sub(dir string) fs.FS {
	f, err := fs.Sub(templates, path.Join("templates", dir))
	if err != nil {
		panic(err)
	}
	return f
}

var (
	projectFS = sub("project")
	microFS   = sub("micro")
	mochaFS   = sub("mocha")
)

// globDir returns the directory prefix of pattern that precedes the first
// glob meta character, so "gulp/*.js" strips to "gulp".
func globDir(pattern string) string {
	if i := strings.IndexAny(pattern, "*?[{"); i >= 0 {
		pattern = pattern[:i]
		if j := strings.LastIndex(pattern, "/"); j >= 0 {
			return pattern[:j]
		}
		return ""
	}
	if dir := path.Dir(pattern); dir != "." {
		return dir
	}
	return ""
}
