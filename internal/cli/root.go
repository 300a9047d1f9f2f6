package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/streamtide/deploy-cli/internal/app"
	"github.com/streamtide/deploy-cli/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// globalFlags maps persistent flag names onto viper keys
var globalFlags = map[string]string{
	"env":               "env",
	"network":           "network",
	"debug":             "debug",
	"non-interactive":   "non_interactive",
	"strict-checkpoint": "strict_checkpoint",
	"timeout":           "timeout",
	"project-root":      "project_root",
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "streamtide-deploy",
		Short: "Resumable contract migrations for streamtide",
		Long: `streamtide-deploy runs the numbered deployment migrations of the streamtide
contracts against a configured network, checkpointing every step so a failed
run resumes where it stopped, and keeps the per-environment contract registry
up to date.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot := ""
			if f := cmd.Flag("project-root"); f != nil && f.Changed {
				projectRoot = f.Value.String()
			} else {
				root, err := config.FindProjectRoot()
				if err != nil {
					return err
				}
				projectRoot = root
			}

			v := config.SetupViper(projectRoot)
			bindGlobalFlags(v, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("env", "e", "", "Environment whose parameters and registry to use (dev, qa, prod)")
	flags.StringP("network", "n", "", "Network to use (e.g., ganache, arbitrum)")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("strict-checkpoint", false, "Fail when a checkpoint cannot be written")
	flags.Duration("timeout", 0, "Abort the command after this long (0 disables)")
	flags.String("project-root", "", "Directory containing streamtide.toml")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewMigrateCmd(), NewStatusCmd(), NewCleanCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewRegistryCmd(), NewArtifactCmd(), NewNetworksCmd(), NewConfigCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// bindGlobalFlags copies the global flags that were set onto viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := globalFlags[f.Name]; ok && f.Changed {
			v.Set(key, f.Value.String())
		}
	})
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
