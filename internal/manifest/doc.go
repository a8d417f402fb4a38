// Package manifest handles declarative generator definitions. A definition
// is a generator.yaml or generator.hcl file naming tasks, their
// dependencies, the templates each task emits, and nested child generators.
// Definitions in either format are validated against an embedded JSON
// Schema and checked against the engine version they declare.
package manifest
