package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scaffoldr/scaffoldr/internal/config"
	"github.com/scaffoldr/scaffoldr/internal/manifest"
	"github.com/scaffoldr/scaffoldr/internal/registry"
	"github.com/spf13/cobra"
)

var checkDefinition string

func init() {
	addRunFlags(doctorCmd)
	doctorCmd.Flags().StringVar(&checkDefinition, "check-definition", "", "Validate a generator definition file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and generator definitions",
	Long: `Run diagnostic checks: the configuration file, the generator search
sources, and every discovered generator definition (schema, engine
constraint, plugins, and nested children).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if checkDefinition != "" {
			return runDefinitionCheck(w, checkDefinition)
		}

		applyRunFlags(cmd)
		s, err := config.Current()
		if err != nil {
			fmt.Fprintf(w, "  [FAIL] %v\n", err)
			return err
		}
		runConfigCheck(w)
		return runSourcesCheck(cmd, w, s.Sources())
	},
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  [INFO] No config file at %s (defaults in use)\n", path)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", path)
}

func runSourcesCheck(cmd *cobra.Command, w io.Writer, sources []registry.Source) error {
	ctx := cmd.Context()
	loader := newLoader()

	fmt.Fprintln(w, "Generator sources:")
	for _, src := range sources {
		if _, err := os.Stat(src.BasePath); err != nil {
			fmt.Fprintf(w, "  [INFO] %s: %s (not present)\n", src.Name, src.BasePath)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s: %s\n", src.Name, src.BasePath)
	}

	fmt.Fprintln(w, "Generator definitions:")
	found, invalid := registry.Scan(ctx, nil, sources)
	if len(found) == 0 && len(invalid) == 0 {
		fmt.Fprintln(w, "  [INFO] No generators discovered")
		return nil
	}

	failed := len(invalid)
	for _, bad := range invalid {
		printLoadFailure(w, bad.DefinitionPath, bad.Err)
	}
	for _, d := range found {
		def, err := loader.Load(ctx, d.Dir)
		if err != nil {
			failed++
			printLoadFailure(w, d.Name, err)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s (%s, %d tasks, %d children)\n",
			def.Name, versionOrDash(def.Version), len(def.Tasks), len(def.Children))
	}
	if failed > 0 {
		return fmt.Errorf("%d generator definition(s) failed to load", failed)
	}
	return nil
}

func printLoadFailure(w io.Writer, name string, err error) {
	var invalid *manifest.InvalidError
	if errors.As(err, &invalid) {
		fmt.Fprintf(w, "  [FAIL] %s: %d validation issue(s) in %s:\n", name, len(invalid.Issues), invalid.Source)
		for _, issue := range invalid.Issues {
			fmt.Fprintf(w, "    - %s\n", issue)
		}
		return
	}
	fmt.Fprintf(w, "  [FAIL] %s: %v\n", name, err)
}

func runDefinitionCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Definition validation: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("reading definition: %w", err)
	}

	def, err := manifest.Parse(data, path)
	if err != nil {
		printLoadFailure(w, path, err)
		return fmt.Errorf("definition %s is invalid", path)
	}
	if err := manifest.CheckEngine(def.Engine, buildVersion); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	fmt.Fprintf(w, "  [ OK ] Valid generator definition: %s (%s)\n", def.Name, versionOrDash(def.Version))
	return nil
}

func versionOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return "v" + v
}
