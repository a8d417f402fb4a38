// Package render is the default template renderer. Templates use Go's
// text/template syntax with a small helper set; parsed templates are kept in
// an LRU cache keyed by name and source.
package render
