package emit

import (
	"errors"
	"fmt"
)

var (
	// ErrRender wraps failures of the render delegate.
	ErrRender = errors.New("render error")
	// ErrIO wraps destination and source filesystem failures.
	ErrIO = errors.New("io error")
	// ErrNoSources is returned when a selection pattern matches nothing.
	ErrNoSources = errors.New("no source files match")
)

// Outcome is the state of one destination path in the conflict check.
type Outcome int

const (
	Unwritten Outcome = iota
	WouldOverwrite
	Written
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Unwritten:
		return "unwritten"
	case WouldOverwrite:
		return "would-overwrite"
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// File is a candidate output.
type File struct {
	Path      string // relative to the destination root
	Content   []byte
	Templated bool // false when the content was copied verbatim
	Source    string
	Install   Install
}

// Result is the final conflict-check outcome for one file.
type Result struct {
	Path      string
	Outcome   Outcome
	Templated bool
	// Unchanged is set when an existing file already held identical content.
	Unchanged bool
	Install   Install
}

// FileError tags a render or I/O failure with the file it happened on.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

func ioError(path, op string, err error) error {
	return &FileError{Path: path, Err: fmt.Errorf("%w: %s: %v", ErrIO, op, err)}
}

func renderError(path string, err error) error {
	return &FileError{Path: path, Err: fmt.Errorf("%w: %v", ErrRender, err)}
}
