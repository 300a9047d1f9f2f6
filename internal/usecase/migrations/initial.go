package migrations

import (
	"context"

	"github.com/streamtide/deploy-cli/internal/usecase"
)

// initialMigration deploys the contract that tracks completed migrations
type initialMigration struct{ script }

func (m *initialMigration) Run(ctx context.Context, env *usecase.MigrationEnv) error {
	return env.Steps.Step(ctx, "deploy "+MigrationsArtifact, func(ctx context.Context, _ *usecase.Steps) (map[string]any, error) {
		artifact, err := env.Artifacts.Load(ctx, MigrationsArtifact)
		if err != nil {
			return nil, err
		}
		address, err := deploy(ctx, env, artifact, env.TxOptions(0))
		if err != nil {
			return nil, err
		}
		env.Log.Info("contract deployed", "contract", MigrationsArtifact, "address", address)
		return map[string]any{"migrationsAddr": address}, nil
	})
}
