package migrations

import (
	"context"

	"github.com/samber/lo"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// addPatrons registers the environment's patrons in a single transaction
type addPatrons struct{ script }

func (m *addPatrons) Run(ctx context.Context, env *usecase.MigrationEnv) error {
	patrons := lo.Uniq(env.Parameters().Patrons)
	if len(patrons) == 0 {
		env.Log.Info("no patrons configured")
		return nil
	}

	reg, err := env.Registry.Load(ctx)
	if err != nil {
		return err
	}
	forwarder, err := lookup(reg.Contracts, KeyStreamtideFwd, "")
	if err != nil {
		return err
	}
	contract, err := env.Deployer.At(ctx, StreamtideArtifact, forwarder)
	if err != nil {
		return err
	}

	return env.Steps.Step(ctx, "add patrons", func(ctx context.Context, _ *usecase.Steps) (map[string]any, error) {
		env.Log.Info("adding patrons", "patrons", patrons)
		_, err := env.Deployer.Invoke(ctx, contract, "addPatrons", []any{patrons}, env.TxOptions(adminGas))
		return nil, err
	})
}
