package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// MigrationsContract is the artifact that tracks the last completed migration on chain
const MigrationsContract = "Migrations"

// ProtectedEnvironment needs an explicit confirmation before migrating
const ProtectedEnvironment = "prod"

// RunMigrationsParams contains parameters for running migrations
type RunMigrationsParams struct {
	// IDs selects migrations explicitly. Empty means every pending non-manual migration.
	IDs []string
	// Yes skips the confirmation prompt
	Yes bool
}

// MigrationOutcome is the result of one migration
type MigrationOutcome struct {
	ID          string
	Description string
	Completed   bool
	Err         error
	Warnings    []string
}

// RunMigrationsResult contains the result of running migrations
type RunMigrationsResult struct {
	Environment   string
	Network       string
	NetworkID     string
	LastCompleted uint64
	Migrations    []MigrationOutcome
	RegistryPath  string
	Cancelled     bool
}

// RunMigrations runs migration scripts in order, stopping at the first failure
type RunMigrations struct {
	config     *config.RuntimeConfig
	migrations MigrationSet
	runner     *StepRunner
	deployer   ContractDeployer
	artifacts  ArtifactRepository
	registry   RegistryStore
	selector   InteractiveSelector
	progress   ProgressSink
	log        *slog.Logger
}

// NewRunMigrations creates a new RunMigrations use case
func NewRunMigrations(
	cfg *config.RuntimeConfig,
	migrations MigrationSet,
	runner *StepRunner,
	deployer ContractDeployer,
	artifacts ArtifactRepository,
	registry RegistryStore,
	selector InteractiveSelector,
	progress ProgressSink,
	log *slog.Logger,
) *RunMigrations {
	return &RunMigrations{
		config:     cfg,
		migrations: migrations.Sorted(),
		runner:     runner,
		deployer:   deployer,
		artifacts:  artifacts,
		registry:   registry,
		selector:   selector,
		progress:   progress,
		log:        log,
	}
}

// Migrations returns the known migrations in run order
func (uc *RunMigrations) Migrations() MigrationSet {
	return uc.migrations
}

// Execute runs the selected migrations against the configured network
func (uc *RunMigrations) Execute(ctx context.Context, params RunMigrationsParams) (*RunMigrationsResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network selected: %w", domain.ErrUnknownNetwork)
	}

	result := &RunMigrationsResult{
		Environment:  uc.config.Environment,
		Network:      uc.config.Network.Name,
		NetworkID:    uc.config.Network.ID(),
		RegistryPath: uc.registry.Path(),
	}

	plan, err := uc.plan(ctx, params.IDs, result)
	if err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		return result, nil
	}

	if uc.config.Environment == ProtectedEnvironment && !params.Yes {
		if uc.config.NonInteractive {
			return nil, fmt.Errorf("refusing to migrate %s without confirmation, pass --yes", ProtectedEnvironment)
		}
		ok, err := uc.selector.Confirm(ctx, fmt.Sprintf("Run %d migration(s) against %s on %s?", len(plan), ProtectedEnvironment, uc.config.Network.Name))
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Cancelled = true
			return result, nil
		}
	}

	for i, m := range plan {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "migration",
			Current: i + 1,
			Total:   len(plan),
			Message: fmt.Sprintf("Migration %s: %s", m.ID(), m.Description()),
		})

		outcome := uc.runOne(ctx, m)
		result.Migrations = append(result.Migrations, outcome)
		if outcome.Err != nil {
			return result, outcome.Err
		}
	}

	return result, nil
}

func (uc *RunMigrations) plan(ctx context.Context, ids []string, result *RunMigrationsResult) (MigrationSet, error) {
	if len(ids) > 0 {
		plan := make(MigrationSet, 0, len(ids))
		for _, id := range ids {
			m, ok := uc.migrations.Find(id)
			if !ok {
				return nil, withSuggestions(fmt.Errorf("%w: %s", domain.ErrUnknownMigration, id), id, uc.migrations.IDs())
			}
			plan = append(plan, m)
		}
		return plan, nil
	}

	last, err := uc.lastCompleted(ctx)
	if err != nil {
		return nil, err
	}
	result.LastCompleted = last

	var plan MigrationSet
	for _, m := range uc.migrations {
		if m.Manual() || migrationNumber(m.ID()) <= last {
			continue
		}
		plan = append(plan, m)
	}
	return plan, nil
}

// lastCompleted reads the Migrations contract. Zero means nothing has run yet.
func (uc *RunMigrations) lastCompleted(ctx context.Context) (uint64, error) {
	handle, err := uc.deployer.Deployed(ctx, MigrationsContract)
	if err != nil {
		if errors.Is(err, domain.ErrNotDeployed) || errors.Is(err, domain.ErrArtifactNotFound) {
			return 0, nil
		}
		return 0, err
	}

	out, err := uc.deployer.Call(ctx, handle, "last_completed_migration")
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("unexpected last_completed_migration result %v", out)
	}
	n, ok := out[0].(*big.Int)
	if !ok || !n.IsUint64() {
		return 0, fmt.Errorf("unexpected last_completed_migration result %v", out[0])
	}
	return n.Uint64(), nil
}

func (uc *RunMigrations) runOne(ctx context.Context, m Migration) MigrationOutcome {
	outcome := MigrationOutcome{ID: m.ID(), Description: m.Description()}
	log := uc.log.With("migration", m.ID())

	steps := uc.runner.Open(ctx, m.ID())
	env := &MigrationEnv{
		Config:    uc.config,
		Steps:     steps,
		Deployer:  uc.deployer,
		Artifacts: uc.artifacts,
		Registry:  uc.registry,
		Progress:  uc.progress,
		Log:       log,
	}

	log.Info("running migration", "description", m.Description())
	if err := m.Run(ctx, env); err != nil {
		outcome.Err = err
		return outcome
	}
	steps.Clean(ctx)
	outcome.Completed = true

	if m.Manual() {
		return outcome
	}
	if err := uc.setCompleted(ctx, m.ID()); err != nil {
		log.Warn("failed to record completed migration", "error", err)
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("could not record migration %s as completed: %v", m.ID(), err))
	}
	return outcome
}

func (uc *RunMigrations) setCompleted(ctx context.Context, id string) error {
	handle, err := uc.deployer.Deployed(ctx, MigrationsContract)
	if err != nil {
		if errors.Is(err, domain.ErrNotDeployed) || errors.Is(err, domain.ErrArtifactNotFound) {
			return nil
		}
		return err
	}
	n, ok := new(big.Int).SetString(id, 10)
	if !ok {
		return nil
	}
	env := &MigrationEnv{Config: uc.config}
	_, err = uc.deployer.Invoke(ctx, handle, "setCompleted", []any{n}, env.TxOptions(0))
	return err
}
