package cli

import (
	"fmt"
	"strings"

	"github.com/scaffoldr/scaffoldr/internal/config"
	"github.com/scaffoldr/scaffoldr/internal/ctxlog"
	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/scaffoldr/scaffoldr/internal/project"
	"github.com/scaffoldr/scaffoldr/internal/prompt"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runDest             string
	runForce            bool
	runSkip             bool
	runInteractive      bool
	runNoPrompt         bool
	runNoCheckDirectory bool
	runSet              []string
)

var runCmd = &cobra.Command{
	Use:   "run [reference]",
	Short: "Run a generator task",
	Long: `Run a generator task and every task it depends on.

A reference names a task as "generator.child:task". Omitting the task runs
the generator's default task; omitting the reference runs the default task of
the root, which generates a basic node.js project.

Examples:
  scaffoldr run
  scaffoldr run project:minimal --dest ./demo
  scaffoldr run license --set author.name="Jane Doe" --no-prompt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&runForce, "force", false, "Overwrite files that differ")
	runCmd.Flags().BoolVar(&runSkip, "skip", false, "Keep files that differ")
	runCmd.Flags().BoolVarP(&runInteractive, "interactive", "i", false, "Ask before overwriting files that differ")
	runCmd.Flags().BoolVar(&runNoPrompt, "no-prompt", false, "Never ask for missing answers")
	runCmd.Flags().BoolVar(&runNoCheckDirectory, "no-check-directory", false, "Allow generating into a non-empty directory")
	runCmd.Flags().StringArrayVar(&runSet, "set", nil, "Seed a data value as key=value (repeatable, dotted keys allowed)")
	runCmd.MarkFlagsMutuallyExclusive("force", "skip", "interactive")
	rootCmd.AddCommand(runCmd)
}

// addRunFlags registers the flags shared by commands that resolve
// generators against a destination.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runDest, "dest", "d", "", "Destination directory (default: working directory)")
}

// applyRunFlags copies explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("dest") {
		viper.Set(config.KeyDest, runDest)
	}
	switch {
	case runForce:
		viper.Set(config.KeyOverwrite, string(emit.ModeForce))
	case runSkip:
		viper.Set(config.KeyOverwrite, string(emit.ModeSkip))
	case runInteractive:
		viper.Set(config.KeyOverwrite, string(emit.ModeInteractive))
	}
	if runNoPrompt {
		viper.Set(config.KeyPrompt, false)
	}
	if runNoCheckDirectory {
		viper.Set(config.KeyCheckDirectory, false)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	applyRunFlags(cmd)
	s, err := config.Current()
	if err != nil {
		return err
	}

	var ref string
	if len(args) > 0 {
		ref = args[0]
	}

	data, err := project.Data(afero.NewOsFs(), s.Dest)
	if err != nil {
		return err
	}
	seed, err := parseSet(runSet)
	if err != nil {
		return err
	}
	prompt.Merge(data, seed)

	root, _ := buildRoot(ctx, s)

	opts := s.Options()
	opts.Data = data
	opts.In = cmd.InOrStdin()
	opts.Out = cmd.OutOrStdout()

	logger.Debug("Running.", "ref", ref, "dest", s.Dest, "overwrite", s.Overwrite, "prompt", s.Prompt)
	summary, err := generator.Run(ctx, root, ref, opts)
	printSummary(cmd.OutOrStdout(), summary)
	if err != nil {
		return fmt.Errorf("running %q: %w", refOrDefault(ref), err)
	}
	return nil
}

// parseSet turns key=value pairs into answers for prompt.Merge.
func parseSet(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set value %q: expected key=value", p)
		}
		out[key] = value
	}
	return out, nil
}

func refOrDefault(ref string) string {
	if ref == "" {
		return generator.DefaultTask
	}
	return ref
}
