package usecase_test

import (
	"context"
	"testing"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forwarderTemplate() *models.Artifact {
	return &models.Artifact{
		ContractName: "MutableForwarder",
		Bytecode:     "0x6080beefbeefbeefbeefbeefbeefbeefbeefbeefbeef00",
		AST: map[string]any{
			"exportedSymbols": map[string]any{"MutableForwarder": []any{"1"}},
			"nodes":           []any{map[string]any{"nodeType": "ContractDefinition", "name": "MutableForwarder"}},
		},
		Networks: map[string]models.NetworkDeployment{"1": {Address: "0x00000000000000000000000000000000000000f1"}},
	}
}

func TestCloneArtifact(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh clone drops template deployments", func(t *testing.T) {
		repo := newMemArtifacts(forwarderTemplate())
		result, err := usecase.NewCloneArtifact(repo, testLogger(nil)).Execute(ctx, usecase.CloneArtifactParams{
			Template: "MutableForwarder",
			Name:     "StreamtideForwarder",
		})
		require.NoError(t, err)
		assert.Empty(t, result.PreservedNetworks)

		clone := repo.artifacts["StreamtideForwarder"]
		require.NotNil(t, clone)
		assert.Equal(t, "StreamtideForwarder", clone.ContractName)
		assert.Empty(t, clone.Networks)
		assert.Equal(t, forwarderTemplate().Bytecode, clone.Bytecode)
		symbols := clone.AST["exportedSymbols"].(map[string]any)
		assert.Contains(t, symbols, "StreamtideForwarder")
		assert.NotContains(t, symbols, "MutableForwarder")

		// template untouched
		assert.Len(t, repo.artifacts["MutableForwarder"].Networks, 1)
	})

	t.Run("existing deployments of the clone are kept", func(t *testing.T) {
		existing := forwarderTemplate()
		existing.ContractName = "StreamtideForwarder"
		existing.Networks = map[string]models.NetworkDeployment{"5777": {Address: "0x00000000000000000000000000000000000000e1"}}
		repo := newMemArtifacts(forwarderTemplate(), existing)

		result, err := usecase.NewCloneArtifact(repo, testLogger(nil)).Execute(ctx, usecase.CloneArtifactParams{
			Template: "MutableForwarder",
			Name:     "StreamtideForwarder",
			Network:  "5",
			Address:  "0x00000000000000000000000000000000000000e2",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"5777"}, result.PreservedNetworks)

		clone := repo.artifacts["StreamtideForwarder"]
		addr, ok := clone.Address("5777")
		require.True(t, ok)
		assert.Equal(t, "0x00000000000000000000000000000000000000e1", addr)
		addr, ok = clone.Address("5")
		require.True(t, ok)
		assert.Equal(t, "0x00000000000000000000000000000000000000e2", addr)
	})

	t.Run("missing template", func(t *testing.T) {
		repo := newMemArtifacts()
		_, err := usecase.NewCloneArtifact(repo, testLogger(nil)).Execute(ctx, usecase.CloneArtifactParams{Template: "Nope", Name: "X"})
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("address without network", func(t *testing.T) {
		repo := newMemArtifacts(forwarderTemplate())
		_, err := usecase.NewCloneArtifact(repo, testLogger(nil)).Execute(ctx, usecase.CloneArtifactParams{
			Template: "MutableForwarder", Name: "X", Address: "0x00000000000000000000000000000000000000e2",
		})
		assert.Error(t, err)
		assert.NotContains(t, repo.artifacts, "X")
	})
}
