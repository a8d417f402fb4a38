package emit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/scaffoldr/scaffoldr/internal/prompt"
)

// Decision is what an overwrite policy chose for a conflicting file.
type Decision int

const (
	Skip Decision = iota
	Overwrite
)

func (d Decision) String() string {
	if d == Overwrite {
		return "overwrite"
	}
	return "skip"
}

// Policy resolves a conflict between existing destination content and a
// differing candidate.
type Policy interface {
	Decide(path string, existing, candidate []byte) (Decision, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(path string, existing, candidate []byte) (Decision, error)

func (f PolicyFunc) Decide(path string, existing, candidate []byte) (Decision, error) {
	return f(path, existing, candidate)
}

// Force overwrites every conflicting file.
var Force Policy = PolicyFunc(func(string, []byte, []byte) (Decision, error) {
	return Overwrite, nil
})

// SkipAll keeps every existing file.
var SkipAll Policy = PolicyFunc(func(string, []byte, []byte) (Decision, error) {
	return Skip, nil
})

// Mode names a built-in policy.
type Mode string

const (
	ModeForce       Mode = "force"
	ModeSkip        Mode = "skip"
	ModeInteractive Mode = "interactive"
)

// ParseMode parses a policy name. The empty string selects ModeSkip.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSkip:
		return ModeSkip, nil
	case ModeForce:
		return ModeForce, nil
	case ModeInteractive:
		return ModeInteractive, nil
	default:
		return "", fmt.Errorf("unknown overwrite policy %q: want force, skip, or interactive", s)
	}
}

// NewPolicy returns the built-in policy for mode. in and out are only used
// by ModeInteractive.
func NewPolicy(mode Mode, in io.Reader, out io.Writer) Policy {
	switch mode {
	case ModeForce:
		return Force
	case ModeInteractive:
		return NewInteractive(in, out)
	default:
		return SkipAll
	}
}

// Interactive asks on out and reads the answer from in for each conflict.
// Answers: y (overwrite), n (skip), a (overwrite this and all later
// conflicts), q (skip this and all later conflicts), d (show a diff and ask
// again).
type Interactive struct {
	in      *bufio.Reader
	out     io.Writer
	sticky  bool
	verdict Decision
}

// NewInteractive returns an interactive policy.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewReader(in), out: out}
}

func (p *Interactive) Decide(path string, existing, candidate []byte) (Decision, error) {
	if p.sticky {
		return p.verdict, nil
	}
	for {
		fmt.Fprintf(p.out, "? Conflict on %s. Overwrite? [y]es, [n]o, [a]ll, [q]uit, [d]iff: ", path)
		line, err := p.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if err != nil && answer == "" {
			return Skip, fmt.Errorf("%w: reading answer for %s: %v", prompt.ErrAborted, path, err)
		}

		switch answer {
		case "y", "yes":
			return Overwrite, nil
		case "", "n", "no":
			return Skip, nil
		case "a", "all":
			p.sticky, p.verdict = true, Overwrite
			return Overwrite, nil
		case "q", "quit":
			p.sticky, p.verdict = true, Skip
			return Skip, nil
		case "d", "diff":
			fmt.Fprintln(p.out, Diff(path, existing, candidate))
		default:
			fmt.Fprintf(p.out, "  unrecognized answer %q\n", answer)
		}
	}
}

// Diff returns a unified diff from existing to candidate.
func Diff(path string, existing, candidate []byte) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(candidate)),
		FromFile: path + " (existing)",
		ToFile:   path + " (generated)",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("(diff unavailable: %v)", err)
	}
	return text
}
