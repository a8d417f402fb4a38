package prompt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	headsUpStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("3"))
	keyStyle     = lipgloss.NewStyle().Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// HeadsUp lists fields whose prompts are skipped because data already holds
// a value for them.
func HeadsUp(w io.Writer, data map[string]any, known []string) {
	if len(known) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+headsUpStyle.Render("Heads up!"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, " The following data will be used to render templates, and prompts")
	fmt.Fprintln(w, " for these values will be skipped:")
	fmt.Fprintln(w)
	for _, k := range known {
		v, _ := Lookup(data, k)
		fmt.Fprintf(w, "  · %s: %s\n", keyStyle.Render(k), valueStyle.Render(fmt.Sprint(v)))
	}
	fmt.Fprintln(w)
}
