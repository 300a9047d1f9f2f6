package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/streamtide/deploy-cli/internal/cli/render"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var selectInteractive, yes bool

	cmd := &cobra.Command{
		Use:   "migrate [ids...]",
		Short: "Run deployment migrations",
		Long: `Run deployment migrations against the selected network.

Without arguments every non-manual migration above the last one recorded in
the Migrations contract runs, in order. Named migrations run exactly as given,
which is the only way to run a manual migration such as 99.

Each step of a migration is checkpointed. When a step fails, rerunning the
same migration skips the steps that already succeeded.

Examples:
  streamtide-deploy migrate -n ganache
  streamtide-deploy migrate 3 4 -n ganache
  streamtide-deploy migrate 99 -e prod -n arbitrum --yes
  streamtide-deploy migrate --select`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ids := args
			if selectInteractive {
				if len(args) > 0 {
					return fmt.Errorf("--select cannot be combined with migration ids")
				}
				if app.Config.NonInteractive {
					return fmt.Errorf("--select needs an interactive terminal")
				}
				status, err := app.MigrationStatus.Execute(cmd.Context())
				if err != nil {
					return err
				}
				ids, err = SelectMigrations(status.Entries, fmt.Sprintf("Select migrations to run on %s:", status.Network))
				if err != nil {
					return err
				}
			}

			result, runErr := app.RunMigrations.Execute(cmd.Context(), usecase.RunMigrationsParams{
				IDs: ids,
				Yes: yes,
			})

			renderer := render.NewMigrationsRenderer(cmd.OutOrStdout())
			if err := renderer.RenderRun(result, runErr); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&selectInteractive, "select", false, "Choose the migrations to run interactively")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation asked before migrating prod")

	return cmd
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration progress and checkpoints",
		Long: `Show every known migration with its state on the selected network:
completed (recorded by the Migrations contract), in progress (a checkpoint
exists), pending or manual.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.MigrationStatus.Execute(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewMigrationsRenderer(cmd.OutOrStdout()).RenderStatus(result)
		},
	}
}

// NewCleanCmd creates the clean command
func NewCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [id]",
		Short: "Discard the checkpoint of a migration",
		Long: `Discard the checkpoint of a migration so its next run starts from the
first step. Without an id, pick one of the migrations that have a checkpoint.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				ids, err := app.MigrationStatus.CheckpointIDs(cmd.Context())
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No checkpoints to clean")
					return nil
				}
				id, err = app.Selector.SelectOne(cmd.Context(), ids, "Checkpoint to clean")
				if err != nil {
					return err
				}
			}

			if err := app.MigrationStatus.CleanCheckpoint(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Cleaned checkpoint of migration %s", id)))
			return nil
		},
	}
}
