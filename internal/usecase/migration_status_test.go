package usecase_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationStatus_Execute(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture("dev")
	f.deployer.recorded["Migrations"] = "0x0000000000000000000000000000000000000001"
	f.deployer.callValue["last_completed_migration"] = []any{big.NewInt(1)}
	require.NoError(t, f.checkpoints.Save(ctx, &domain.Checkpoint{ID: "2", LastStep: 0, Values: map[string]any{"streamtideAddr": "0xaa"}}))
	require.NoError(t, f.checkpoints.Save(ctx, &domain.Checkpoint{ID: "7", LastStep: 1, Values: map[string]any{}}))

	set := f.migrations(
		&scriptedMigration{id: "1", n: 1},
		&scriptedMigration{id: "2", n: 3},
		&scriptedMigration{id: "3", n: 1},
		&scriptedMigration{id: "99", n: 1, manual: true},
	)
	status := usecase.NewMigrationStatus(f.cfg, set, f.checkpoints, f.useCase(set))

	result, err := status.Execute(ctx)
	require.NoError(t, err)
	require.NoError(t, result.ChainError)
	assert.Equal(t, uint64(1), result.LastCompleted)

	states := make(map[string]usecase.MigrationState)
	for _, e := range result.Entries {
		states[e.ID] = e.State
	}
	assert.Equal(t, map[string]usecase.MigrationState{
		"1":  usecase.MigrationCompleted,
		"2":  usecase.MigrationInProgress,
		"3":  usecase.MigrationPending,
		"99": usecase.MigrationManual,
		"7":  usecase.MigrationInProgress,
	}, states)

	last := result.Entries[len(result.Entries)-1]
	assert.Equal(t, "7", last.ID, "orphan checkpoints come last")
	assert.Empty(t, last.Description)
}

func TestMigrationStatus_ChainErrorIsReported(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture("dev")
	f.deployer.recorded["Migrations"] = "0x0000000000000000000000000000000000000001"

	set := f.migrations(&scriptedMigration{id: "1", n: 1})
	result, err := usecase.NewMigrationStatus(f.cfg, set, f.checkpoints, f.useCase(set)).Execute(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, result.ChainError, domain.ErrExternalCall)
	assert.Equal(t, usecase.MigrationPending, result.Entries[0].State)
}

func TestMigrationStatus_CleanCheckpoint(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture("dev")
	require.NoError(t, f.checkpoints.Save(ctx, &domain.Checkpoint{ID: "2", LastStep: 0}))
	require.NoError(t, f.checkpoints.Save(ctx, &domain.Checkpoint{ID: "42", LastStep: 0}))

	set := f.migrations(&scriptedMigration{id: "2", n: 1}, &scriptedMigration{id: "99", n: 1, manual: true})
	status := usecase.NewMigrationStatus(f.cfg, set, f.checkpoints, f.useCase(set))

	require.NoError(t, status.CleanCheckpoint(ctx, "2"))
	assert.False(t, f.checkpoints.has("2"))

	// orphans can be removed too
	require.NoError(t, status.CleanCheckpoint(ctx, "42"))
	assert.False(t, f.checkpoints.has("42"))

	err := status.CleanCheckpoint(ctx, "9")
	require.ErrorIs(t, err, domain.ErrUnknownMigration)
	assert.Contains(t, err.Error(), "did you mean 99")

	ids, err := status.CheckpointIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
