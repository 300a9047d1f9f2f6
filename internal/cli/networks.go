package cli

import (
	"github.com/spf13/cobra"
	"github.com/streamtide/deploy-cli/internal/cli/render"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks from streamtide.toml",
		Long: `List all networks configured in the [networks] section of streamtide.toml.

With --probe each endpoint is asked for its chain id and head block.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Probe: probe})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result, probe)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Connect to each network")
	return cmd
}
