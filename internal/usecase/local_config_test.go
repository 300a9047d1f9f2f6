package usecase_test

import (
	"context"
	"testing"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfigRuntime() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Environment: "dev",
		Network:     &config.Network{Name: "ganache", NetworkID: 5777},
		Project: &config.ProjectConfig{
			Environments: map[string]config.EnvironmentConfig{"dev": {}, "prod": {}},
			Networks:     map[string]config.NetworkConfig{"ganache": {NetworkID: 5777}, "arbitrum": {NetworkID: 42161}},
		},
	}
}

func TestSetConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		value   string
		wantKey config.ConfigKey
		wantErr error
		errText string
	}{
		{name: "env", key: "env", value: "prod", wantKey: config.ConfigKeyEnv},
		{name: "env alias", key: "Environment", value: "prod", wantKey: config.ConfigKeyEnv},
		{name: "network", key: "network", value: "arbitrum", wantKey: config.ConfigKeyNetwork},
		{name: "unknown env", key: "env", value: "staging", wantErr: domain.ErrUnknownEnvironment},
		{name: "unknown network", key: "network", value: "mainnet", wantErr: domain.ErrUnknownNetwork},
		{name: "unknown key", key: "namespace", value: "x", errText: "unknown config key: namespace"},
		{name: "empty value", key: "env", value: "", errText: "must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memLocalConfig{}
			uc := usecase.NewSetConfig(localConfigRuntime(), store)

			result, err := uc.Run(ctx, usecase.SetConfigParams{Key: tt.key, Value: tt.value})
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, store.stored)
			case tt.errText != "":
				require.ErrorContains(t, err, tt.errText)
				assert.Nil(t, store.stored)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantKey, result.Key)
				assert.Equal(t, tt.value, store.stored.Get(tt.wantKey))
			}
		})
	}
}

func TestSetConfigKeepsOtherKey(t *testing.T) {
	store := &memLocalConfig{stored: &config.LocalConfig{Env: "prod"}}
	uc := usecase.NewSetConfig(localConfigRuntime(), store)

	_, err := uc.Run(context.Background(), usecase.SetConfigParams{Key: "network", Value: "ganache"})
	require.NoError(t, err)
	assert.Equal(t, config.LocalConfig{Env: "prod", Network: "ganache"}, *store.stored)
}

func TestShowConfig(t *testing.T) {
	store := &memLocalConfig{stored: &config.LocalConfig{Env: "prod"}}
	result, err := usecase.NewShowConfig(localConfigRuntime(), store).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Exists)
	assert.Equal(t, "prod", result.Config.Env)
	assert.Equal(t, "dev", result.Environment)
	assert.Equal(t, "ganache", result.Network)
}

func TestRemoveConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("no file", func(t *testing.T) {
		_, err := usecase.NewRemoveConfig(&memLocalConfig{}).Run(ctx, usecase.RemoveConfigParams{Key: "env"})
		require.ErrorContains(t, err, "no local config found")
	})

	t.Run("clears the value", func(t *testing.T) {
		store := &memLocalConfig{stored: &config.LocalConfig{Env: "prod", Network: "ganache"}}
		result, err := usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "network"})
		require.NoError(t, err)
		assert.Equal(t, "ganache", result.RemovedValue)
		assert.Equal(t, config.LocalConfig{Env: "prod"}, *store.stored)
	})
}
