package cli

import (
	"github.com/scaffoldr/scaffoldr/internal/config"
	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/spf13/cobra"
)

var planTree bool

var planCmd = &cobra.Command{
	Use:   "plan [reference]",
	Short: "Show the tasks a run would execute",
	Long: `Resolve a reference and print the ordered list of tasks that "run" would
execute, without running any of them. Tasks started by a task's own work
(nested generator runs) are not part of the plan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	addRunFlags(planCmd)
	planCmd.Flags().BoolVar(&planTree, "tree", false, "Print the dependency tree instead of the ordered steps")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	applyRunFlags(cmd)
	s, err := config.Current()
	if err != nil {
		return err
	}

	var ref string
	if len(args) > 0 {
		ref = args[0]
	}

	root, _ := buildRoot(cmd.Context(), s)
	w := cmd.OutOrStdout()

	if planTree {
		return generator.PrintDeps(w, root, ref)
	}
	plan, err := generator.BuildPlan(root, ref, nil)
	if err != nil {
		return err
	}
	generator.PrintPlan(w, plan)
	return nil
}
