package app

import (
	"log/slog"

	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector usecase.InteractiveSelector
	Progress usecase.ProgressSink
	Log      *slog.Logger

	// Use cases
	RunMigrations   *usecase.RunMigrations
	MigrationStatus *usecase.MigrationStatus
	ManageRegistry  *usecase.ManageRegistry
	VerifyRegistry  *usecase.VerifyRegistry
	CloneArtifact   *usecase.CloneArtifact
	ListNetworks    *usecase.ListNetworks
	ShowConfig      *usecase.ShowConfig
	SetConfig       *usecase.SetConfig
	RemoveConfig    *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector usecase.InteractiveSelector,
	progress usecase.ProgressSink,
	log *slog.Logger,
	runMigrations *usecase.RunMigrations,
	migrationStatus *usecase.MigrationStatus,
	manageRegistry *usecase.ManageRegistry,
	verifyRegistry *usecase.VerifyRegistry,
	cloneArtifact *usecase.CloneArtifact,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:          cfg,
		Selector:        selector,
		Progress:        progress,
		Log:             log,
		RunMigrations:   runMigrations,
		MigrationStatus: migrationStatus,
		ManageRegistry:  manageRegistry,
		VerifyRegistry:  verifyRegistry,
		CloneArtifact:   cloneArtifact,
		ListNetworks:    listNetworks,
		ShowConfig:      showConfig,
		SetConfig:       setConfig,
		RemoveConfig:    removeConfig,
	}, nil
}
