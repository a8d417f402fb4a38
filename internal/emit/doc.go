// Package emit writes generated files to a destination tree. Every candidate
// file goes through a conflict check: missing files are written, identical
// files are left alone, and differing files are handed to an overwrite
// policy that either overwrites or skips them.
package emit
