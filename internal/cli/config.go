package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamtide/deploy-cli/internal/cli/render"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// configKeys completes the first argument of config set/remove
func configKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	keys := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage local defaults for env and network",
		Long: `Manage local defaults stored in .streamtide/config.local.json

The defaults apply when neither the flags nor STREAMTIDE_ENV and
STREAMTIDE_NETWORK are set. Run without a subcommand to print them next
to the values currently in effect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a local default",
		Example: `  streamtide-deploy config set env qa
  streamtide-deploy config set network ganache`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{Key: args[0], Value: args[1]})
			if err != nil {
				return err
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
		},
	}

	remove := &cobra.Command{
		Use:     "remove <key>",
		Aliases: []string{"unset"},
		Short:   "Remove a local default",
		Long: `Remove a local default. Without a stored env the dev environment is used;
without a stored network it must be given with --network.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{Key: args[0]})
			if err != nil {
				return err
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderRemove(result)
		},
	}

	cmd.AddCommand(set, remove)
	return cmd
}
