package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/streamtide/deploy-cli/internal/cli/render"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// NewRegistryCmd creates the registry command
func NewRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and edit the contract registry",
		Long: `Inspect and edit the contract registry of the selected environment.

Keys may be written with or without their leading colon. Pass --chain to
address the multichain table of a network id instead of the flat table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRegistry(cmd)
		},
	}

	cmd.AddCommand(
		newRegistryShowCmd(),
		newRegistryGetCmd(),
		newRegistrySetCmd(),
		newRegistryExportCmd(),
		newRegistryVerifyCmd(),
	)
	return cmd
}

func newRegistryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every registry table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRegistry(cmd)
		},
	}
}

func showRegistry(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	view, err := app.ManageRegistry.Show(cmd.Context())
	if err != nil {
		return err
	}
	return render.NewRegistryRenderer(cmd.OutOrStdout()).RenderShow(view)
}

func newRegistryGetCmd() *cobra.Command {
	var chain string
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the address of an entry",
		Example: `  streamtide-deploy registry get streamtide-fwd
  streamtide-deploy registry get :matching-pool --chain 42161`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			address, err := app.ManageRegistry.Get(cmd.Context(), usecase.RegistryLookup{Key: args[0], Network: chain})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), address)
			return nil
		},
	}
	cmd.Flags().StringVar(&chain, "chain", "", "Network id of the multichain table to read")
	return cmd
}

func newRegistrySetCmd() *cobra.Command {
	var chain string
	cmd := &cobra.Command{
		Use:   "set <key> <address>",
		Short: "Replace the address of an existing entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			lookup := usecase.RegistryLookup{Key: args[0], Network: chain}
			if err := app.ManageRegistry.Set(cmd.Context(), lookup, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Updated %s", args[0])))
			return nil
		},
	}
	cmd.Flags().StringVar(&chain, "chain", "", "Network id of the multichain table to edit")
	return cmd
}

func newRegistryExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the registry as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			data, err := app.ManageRegistry.Export(cmd.Context(), format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", usecase.FormatJSON, "Output format (json, yaml)")
	return cmd
}

func newRegistryVerifyCmd() *cobra.Command {
	var multichain bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that registry addresses hold code on the selected network",
		Long: `Check that every registry address holds contract code on the selected
network. With --multichain the network's own multichain table is checked
instead of the flat table. Exits with an error when an address has no code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.VerifyRegistry.Execute(cmd.Context(), multichain)
			if err != nil {
				return err
			}
			if err := render.NewRegistryRenderer(cmd.OutOrStdout()).RenderVerify(result); err != nil {
				return err
			}
			if missing := result.Missing(); len(missing) > 0 {
				return fmt.Errorf("%d registry address(es) have no code on %s", len(missing), result.Network)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&multichain, "multichain", false, "Verify the multichain table of the selected network")
	return cmd
}
