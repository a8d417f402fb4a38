package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAborted is returned when input ends or the context is cancelled before
// every question is answered.
var ErrAborted = errors.New("prompt aborted")

// Asker collects answers for the given field names. Fields left blank are
// omitted from the result.
type Asker interface {
	Ask(ctx context.Context, fields []string) (map[string]any, error)
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(ctx context.Context, fields []string) (map[string]any, error)

func (f AskerFunc) Ask(ctx context.Context, fields []string) (map[string]any, error) {
	return f(ctx, fields)
}

// CommonQuestions maps the common field names to their question text.
var CommonQuestions = map[string]string{
	"name":            "Project name?",
	"description":     "Project description?",
	"owner":           "Owner (GitHub user or org)?",
	"homepage":        "Project homepage?",
	"license":         "License?",
	"author.name":     "Author's name?",
	"author.username": "Author's username?",
	"author.url":      "Author's URL?",
	"version":         "Version?",
}

// LineAsker reads one answer per line.
type LineAsker struct {
	in        *bufio.Reader
	out       io.Writer
	Questions map[string]string
	Defaults  map[string]string
}

// NewLineAsker returns an Asker reading from r and writing questions to w.
func NewLineAsker(r io.Reader, w io.Writer) *LineAsker {
	return &LineAsker{
		in:        bufio.NewReader(r),
		out:       w,
		Questions: CommonQuestions,
		Defaults:  map[string]string{},
	}
}

func (a *LineAsker) Ask(ctx context.Context, fields []string) (map[string]any, error) {
	answers := make(map[string]any, len(fields))
	for _, field := range fields {
		if err := ctx.Err(); err != nil {
			return answers, fmt.Errorf("%w: %v", ErrAborted, err)
		}

		question := a.Questions[field]
		if question == "" {
			question = field + "?"
		}
		def := a.Defaults[field]
		if def != "" {
			fmt.Fprintf(a.out, "? %s (%s) ", question, def)
		} else {
			fmt.Fprintf(a.out, "? %s ", question)
		}

		line, err := a.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && answer == "" {
			return answers, fmt.Errorf("%w: no answer for %q", ErrAborted, field)
		}
		if answer == "" {
			answer = def
		}
		if answer != "" {
			answers[field] = answer
		}
	}
	return answers, nil
}

// Static answers from a fixed map. It never blocks.
type Static map[string]any

func (s Static) Ask(_ context.Context, fields []string) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := s[f]; ok {
			out[f] = v
		}
	}
	return out, nil
}

// Split partitions fields into those still missing from data and those
// already answered.
func Split(fields []string, data map[string]any) (ask []string, known []string) {
	for _, f := range fields {
		if v, ok := Lookup(data, f); ok && v != nil && v != "" {
			known = append(known, f)
			continue
		}
		ask = append(ask, f)
	}
	return ask, known
}

// Lookup reads a dotted key ("author.name") from nested maps.
func Lookup(data map[string]any, key string) (any, bool) {
	cur := any(data)
	for _, seg := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Merge stores every answer into data, expanding dotted keys into nested
// maps.
func Merge(data map[string]any, answers map[string]any) {
	for key, val := range answers {
		set(data, strings.Split(key, "."), val)
	}
}

func set(m map[string]any, segs []string, val any) {
	if len(segs) == 1 {
		m[segs[0]] = val
		return
	}
	next, ok := m[segs[0]].(map[string]any)
	if !ok {
		next = make(map[string]any)
		m[segs[0]] = next
	}
	set(next, segs[1:], val)
}
