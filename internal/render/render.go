package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCacheSize bounds the number of parsed templates kept in memory.
const DefaultCacheSize = 128

// Engine renders text/template sources.
type Engine struct {
	funcs template.FuncMap
	cache *lru.Cache[string, *template.Template]
}

// New returns an Engine caching up to size parsed templates.
func New(size int) (*Engine, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *template.Template](size)
	if err != nil {
		return nil, fmt.Errorf("creating template cache: %w", err)
	}
	return &Engine{funcs: Funcs(), cache: cache}, nil
}

// Render executes src as a template named name against data.
func (e *Engine) Render(name string, src []byte, data map[string]any) ([]byte, error) {
	tmpl, err := e.parse(name, src)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) parse(name string, src []byte) (*template.Template, error) {
	key := name + "\x00" + string(src)
	if tmpl, ok := e.cache.Get(key); ok {
		return tmpl, nil
	}
	tmpl, err := template.New(name).Funcs(e.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	e.cache.Add(key, tmpl)
	return tmpl, nil
}

// Cached returns the number of parsed templates currently cached.
func (e *Engine) Cached() int { return e.cache.Len() }

// Funcs returns the helper functions available to templates.
func Funcs() template.FuncMap {
	title := cases.Title(language.English)
	return template.FuncMap{
		"title": func(s string) string { return title.String(s) },
		"camel": camel,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"year":  func() int { return time.Now().Year() },
		"default": func(def string, v any) string {
			if v == nil {
				return def
			}
			if s := fmt.Sprint(v); s != "" {
				return s
			}
			return def
		},
		"get": func(data map[string]any, key string) any {
			cur := any(data)
			for _, seg := range strings.Split(key, ".") {
				m, ok := cur.(map[string]any)
				if !ok {
					return nil
				}
				cur = m[seg]
			}
			return cur
		},
	}
}

// camel turns "generate-project" or "my project" into "generateProject".
func camel(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	title := cases.Title(language.Und, cases.NoLower)
	for i, w := range words {
		if i == 0 {
			r, size := utf8.DecodeRuneInString(w)
			words[i] = string(unicode.ToLower(r)) + w[size:]
			continue
		}
		words[i] = title.String(w)
	}
	return strings.Join(words, "")
}
