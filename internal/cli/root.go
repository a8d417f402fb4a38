package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/scaffoldr/scaffoldr/internal/branding"
	"github.com/scaffoldr/scaffoldr/internal/config"
	"github.com/scaffoldr/scaffoldr/internal/ctxlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion = "dev"
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` runs scaffolding generators. A generator is a named set of tasks
with dependencies; running a task runs its dependencies first, each at most once,
and writes the rendered templates into the destination directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if verbose {
			viper.Set(config.KeyVerbose, true)
		}
		logger := ctxlog.New(cmd.ErrOrStderr(), viper.GetBool(config.KeyVerbose))
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
	}
	return err
}
