package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/generator"
)

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	writtenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// printSummary writes one line per file followed by totals.
func printSummary(w io.Writer, s *generator.Summary) {
	if s == nil {
		return
	}
	for _, f := range s.Files {
		var tag string
		switch {
		case f.Outcome == emit.Written && f.Unchanged:
			tag = dimStyle.Render(fmt.Sprintf("%-9s", "identical"))
		case f.Outcome == emit.Written:
			tag = writtenStyle.Render(fmt.Sprintf("%-9s", "written"))
		case f.Outcome == emit.Skipped:
			tag = skippedStyle.Render(fmt.Sprintf("%-9s", "skipped"))
		default:
			tag = fmt.Sprintf("%-9s", f.Outcome)
		}
		fmt.Fprintf(w, "  %s %s %s\n", tag, f.Path, dimStyle.Render("("+f.Step+")"))
	}

	unchanged := 0
	for _, f := range s.Files {
		if f.Unchanged {
			unchanged++
		}
	}
	fmt.Fprintf(w, "\n%s %d tasks, %d files: %d written (%d identical), %d skipped. %s\n",
		headerStyle.Render("Ran"),
		len(s.Steps), len(s.Files),
		s.Count(emit.Written), unchanged, s.Count(emit.Skipped),
		dimStyle.Render("["+s.InvocationID+"]"))
}
