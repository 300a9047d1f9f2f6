package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	Config     *config.LocalConfig
	ConfigPath string
	Key        config.ConfigKey
	Value      string
}

// SetConfig stores a local default for env or network
type SetConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigStore
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(cfg *config.RuntimeConfig, store LocalConfigStore) *SetConfig {
	return &SetConfig{config: cfg, store: store}
}

// Run validates the value against the project file and saves it
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(key, params.Value); err != nil {
		return nil, err
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	local.Set(key, params.Value)

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, err
	}

	return &SetConfigResult{
		Config:     local,
		ConfigPath: uc.store.Path(),
		Key:        key,
		Value:      params.Value,
	}, nil
}

func (uc *SetConfig) validate(key config.ConfigKey, value string) error {
	if value == "" {
		return fmt.Errorf("value for %s must not be empty", key)
	}
	project := uc.config.Project
	if project == nil {
		return nil
	}
	switch key {
	case config.ConfigKeyEnv:
		if _, ok := project.Environments[value]; !ok {
			return fmt.Errorf("%w: %s (available: %s)", domain.ErrUnknownEnvironment, value, strings.Join(sortedNames(project.Environments), ", "))
		}
	case config.ConfigKeyNetwork:
		if _, ok := project.Networks[value]; !ok {
			return fmt.Errorf("%w: %s (available: %s)", domain.ErrUnknownNetwork, value, strings.Join(sortedNames(project.Networks), ", "))
		}
	}
	return nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key, ok := config.NormalizeConfigKey(strings.ToLower(raw))
	if !ok {
		keys := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(keys, ", "))
	}
	return key, nil
}

func sortedNames[V any](m map[string]V) []string {
	names := lo.Keys(m)
	sort.Strings(names)
	return names
}
