package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// MigrationState summarizes where a migration stands
type MigrationState string

const (
	MigrationPending    MigrationState = "pending"
	MigrationInProgress MigrationState = "in progress"
	MigrationCompleted  MigrationState = "completed"
	MigrationManual     MigrationState = "manual"
)

// MigrationStatusEntry describes one known migration, or an orphan checkpoint
type MigrationStatusEntry struct {
	ID          string
	Description string
	Manual      bool
	State       MigrationState
	Checkpoint  *domain.Checkpoint
}

// MigrationStatusResult contains the status of every migration
type MigrationStatusResult struct {
	Environment   string
	Network       string
	LastCompleted uint64
	// ChainError is set when the last completed migration could not be read
	ChainError error
	Entries    []MigrationStatusEntry
}

// MigrationStatus reports checkpoints and completed migrations
type MigrationStatus struct {
	config      *config.RuntimeConfig
	migrations  MigrationSet
	checkpoints CheckpointStore
	run         *RunMigrations
}

// NewMigrationStatus creates a new MigrationStatus use case
func NewMigrationStatus(cfg *config.RuntimeConfig, migrations MigrationSet, checkpoints CheckpointStore, run *RunMigrations) *MigrationStatus {
	return &MigrationStatus{
		config:      cfg,
		migrations:  migrations.Sorted(),
		checkpoints: checkpoints,
		run:         run,
	}
}

// Execute lists migrations with their checkpoint and completion state
func (uc *MigrationStatus) Execute(ctx context.Context) (*MigrationStatusResult, error) {
	checkpoints, err := uc.checkpoints.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(checkpoints, func(cp *domain.Checkpoint) string { return cp.ID })

	result := &MigrationStatusResult{Environment: uc.config.Environment}
	if uc.config.Network != nil {
		result.Network = uc.config.Network.Name
		result.LastCompleted, result.ChainError = uc.run.lastCompleted(ctx)
	}

	for _, m := range uc.migrations {
		entry := MigrationStatusEntry{
			ID:          m.ID(),
			Description: m.Description(),
			Manual:      m.Manual(),
			Checkpoint:  byID[m.ID()],
		}
		switch {
		case entry.Checkpoint != nil:
			entry.State = MigrationInProgress
		case m.Manual():
			entry.State = MigrationManual
		case result.ChainError == nil && migrationNumber(m.ID()) <= result.LastCompleted:
			entry.State = MigrationCompleted
		default:
			entry.State = MigrationPending
		}
		result.Entries = append(result.Entries, entry)
		delete(byID, m.ID())
	}

	// Checkpoints without a known migration are still worth showing so they can be cleaned
	for _, cp := range checkpoints {
		if _, orphan := byID[cp.ID]; orphan {
			result.Entries = append(result.Entries, MigrationStatusEntry{
				ID:         cp.ID,
				State:      MigrationInProgress,
				Checkpoint: cp,
			})
		}
	}

	return result, nil
}

// CleanCheckpoint removes the checkpoint of a migration so its next run starts from the first step
func (uc *MigrationStatus) CleanCheckpoint(ctx context.Context, id string) error {
	if _, ok := uc.migrations.Find(id); !ok {
		checkpoints, err := uc.checkpoints.List(ctx)
		if err != nil {
			return err
		}
		if !lo.ContainsBy(checkpoints, func(cp *domain.Checkpoint) bool { return cp.ID == id }) {
			return withSuggestions(fmt.Errorf("%w: %s", domain.ErrUnknownMigration, id), id, uc.migrations.IDs())
		}
	}
	return uc.checkpoints.Delete(ctx, id)
}

// CheckpointIDs lists migrations that have a checkpoint
func (uc *MigrationStatus) CheckpointIDs(ctx context.Context) ([]string, error) {
	checkpoints, err := uc.checkpoints.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(checkpoints, func(cp *domain.Checkpoint, _ int) string { return cp.ID }), nil
}
