package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/scaffoldr/scaffoldr/internal/config"
	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/scaffoldr/scaffoldr/internal/registry"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [generator]",
	Short: "List generators and their tasks",
	Long: `List the generator tree: built-in generators, generators discovered in
.scaffoldr/generators, the generators-path setting, and ~/.scaffoldr/generators.
Pass a generator path (for example "project.mocha") to list only that subtree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	addRunFlags(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry is one generator in JSON output.
type listEntry struct {
	Path     string      `json:"path"`
	Tasks    []taskEntry `json:"tasks"`
	Children []listEntry `json:"children,omitempty"`
}

type taskEntry struct {
	Name        string   `json:"name"`
	Deps        []string `json:"deps,omitempty"`
	Description string   `json:"description,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	applyRunFlags(cmd)
	s, err := config.Current()
	if err != nil {
		return err
	}

	root, mounted := buildRoot(cmd.Context(), s)
	g := root
	if len(args) > 0 {
		if g, _, err = generator.Resolve(root, args[0]+":"); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if listJSON {
		out, err := json.MarshalIndent(toEntry(g), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	generator.PrintTree(w, g)
	if len(mounted.Mounted) > 0 {
		fmt.Fprintln(w)
		printDiscoveredTable(w, mounted.Mounted)
	}
	return nil
}

func toEntry(g *generator.Generator) listEntry {
	e := listEntry{Path: g.DisplayPath(), Tasks: []taskEntry{}}
	for _, name := range g.TaskNames() {
		t, err := g.GetTask(name)
		if err != nil {
			continue
		}
		e.Tasks = append(e.Tasks, taskEntry{Name: name, Deps: t.Deps, Description: t.Description})
	}
	for _, name := range g.ChildNames() {
		child, err := g.ResolveChild(name)
		if err != nil {
			continue
		}
		e.Children = append(e.Children, toEntry(child))
	}
	return e
}

func printDiscoveredTable(w io.Writer, found []registry.Discovered) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GENERATOR\tVERSION\tSOURCE\tPATH")
	for _, d := range found {
		version := d.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, version, d.Source, d.Dir)
	}
	tw.Flush()
}
