// Package project provides the built-in generators: the "project"
// generator that scaffolds node.js projects, the micro-generators it is
// composed from (license, readme, gitignore, ...), and the mocha
// sub-generator for test files.
//
// Micro-generators are plugins. The project generator applies them with
// Use, and Register also mounts each one on the root so it can be run on
// its own ("scaffoldr run license").
package project
