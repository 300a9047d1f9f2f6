package cli

import (
	"github.com/spf13/cobra"
	"github.com/streamtide/deploy-cli/internal/cli/render"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// NewArtifactCmd creates the artifact command
func NewArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Manage compiled contract artifacts",
	}
	cmd.AddCommand(newArtifactCloneCmd())
	return cmd
}

func newArtifactCloneCmd() *cobra.Command {
	var network, address string
	cmd := &cobra.Command{
		Use:   "clone <template> <name>",
		Short: "Copy an artifact under a new contract name",
		Long: `Copy an artifact under a new contract name, e.g. MutableForwarder as
StreamtideForwarder, so each copy keeps its own per-network deployments.
Deployments already recorded on an existing artifact with the new name are kept.`,
		Example: `  streamtide-deploy artifact clone MutableForwarder StreamtideForwarder
  streamtide-deploy artifact clone MutableForwarder MatchingPoolForwarder --network-id 5777 --address 0x...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.CloneArtifact.Execute(cmd.Context(), usecase.CloneArtifactParams{
				Template: args[0],
				Name:     args[1],
				Network:  network,
				Address:  address,
			})
			if err != nil {
				return err
			}
			return render.NewRegistryRenderer(cmd.OutOrStdout()).RenderClone(args[0], result)
		},
	}
	cmd.Flags().StringVar(&network, "network-id", "", "Network id of a known deployment of the clone")
	cmd.Flags().StringVar(&address, "address", "", "Address of that deployment")
	return cmd
}
