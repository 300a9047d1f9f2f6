package usecase

import (
	"context"

	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// ShowConfigResult contains the stored defaults next to the values in effect
type ShowConfigResult struct {
	Config     *config.LocalConfig
	ConfigPath string
	Exists     bool
	// Effective values after flags and environment variables are applied
	Environment string
	Network     string
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigStore) *ShowConfig {
	return &ShowConfig{config: cfg, store: store}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Config:      local,
		ConfigPath:  uc.store.Path(),
		Exists:      uc.store.Exists(),
		Environment: uc.config.Environment,
	}
	if uc.config.Network != nil {
		result.Network = uc.config.Network.Name
	}
	return result, nil
}
