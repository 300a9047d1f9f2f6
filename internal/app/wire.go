//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/streamtide/deploy-cli/internal/adapters"
	"github.com/streamtide/deploy-cli/internal/config"
	"github.com/streamtide/deploy-cli/internal/logging"
	"github.com/streamtide/deploy-cli/internal/usecase"
	"github.com/streamtide/deploy-cli/internal/usecase/migrations"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		config.ProvideNetworkResolver,
		wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),

		// Logging
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Migrations
		migrations.NewSet,
		usecase.NewStepRunner,

		// Use cases
		usecase.NewRunMigrations,
		usecase.NewMigrationStatus,
		usecase.NewManageRegistry,
		usecase.NewVerifyRegistry,
		usecase.NewCloneArtifact,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
