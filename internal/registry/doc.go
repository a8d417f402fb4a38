// Package registry discovers declarative generators in source directories
// and mounts them as children of the root generator.
package registry
