package usecase

import (
	"context"
	"fmt"

	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// RemoveConfigParams contains parameters for removing configuration
type RemoveConfigParams struct {
	Key string
}

// RemoveConfigResult contains the result of removing configuration
type RemoveConfigResult struct {
	Config       *config.LocalConfig
	ConfigPath   string
	Key          config.ConfigKey
	RemovedValue string
}

// RemoveConfig clears a stored local default
type RemoveConfig struct {
	store LocalConfigStore
}

// NewRemoveConfig creates a new RemoveConfig use case
func NewRemoveConfig(store LocalConfigStore) *RemoveConfig {
	return &RemoveConfig{store: store}
}

// Run executes the remove config use case
func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*RemoveConfigResult, error) {
	if !uc.store.Exists() {
		return nil, fmt.Errorf("no local config found at %s", uc.store.Path())
	}

	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	removed := local.Get(key)
	local.Set(key, "")

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, err
	}

	return &RemoveConfigResult{
		Config:       local,
		ConfigPath:   uc.store.Path(),
		Key:          key,
		RemovedValue: removed,
	}, nil
}
