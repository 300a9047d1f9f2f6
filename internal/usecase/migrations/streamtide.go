package migrations

import (
	"context"
	"fmt"

	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// streamtideContracts deploys MVPCLR behind StreamtideForwarder and writes
// the flat registry table.
type streamtideContracts struct{ script }

func (m *streamtideContracts) Run(ctx context.Context, env *usecase.MigrationEnv) error {
	multiSig, err := requireMultiSig(env)
	if err != nil {
		return err
	}
	migrations, err := env.Deployer.Deployed(ctx, MigrationsArtifact)
	if err != nil {
		return fmt.Errorf("migration 1 must run first: %w", err)
	}
	if err := cloneForwarder(ctx, env, StreamtideForwarder); err != nil {
		return err
	}

	streamtide, forwarder, err := deployForwarded(ctx, env, forwardedDeployment{
		Implementation:    StreamtideArtifact,
		Forwarder:         StreamtideForwarder,
		ImplementationKey: "streamtideAddr",
		ForwarderKey:      "streamtideForwarderAddr",
	}, multiSig)
	if err != nil {
		return err
	}

	reg, err := env.Registry.Load(ctx)
	if err != nil {
		return err
	}
	table := reg.Contracts.Clone()
	if table == nil {
		table = models.NewRegistryTable()
	}
	table.Put(KeyMigrations, models.RegistryEntry{Name: MigrationsArtifact, Address: migrations.Address})
	table.Put(KeyStreamtide, models.RegistryEntry{Name: StreamtideArtifact, Address: streamtide})
	table.Put(KeyStreamtideFwd, models.RegistryEntry{Name: MutableForwarder, Address: forwarder, ForwardsTo: KeyStreamtide})
	warnDangling(env, table)
	reg.Contracts = table

	if err := env.Registry.Save(ctx, reg); err != nil {
		return err
	}
	env.Log.Info("registry updated", "path", env.Registry.Path())
	return nil
}
