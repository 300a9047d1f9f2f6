package migrations

import (
	"context"

	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// updateStreamtide deploys a new MVPCLR and points the existing forwarder at
// it. Only :streamtide changes in the registry; :streamtide-fwd keeps its
// address and forwarding reference.
type updateStreamtide struct{ script }

func (m *updateStreamtide) Run(ctx context.Context, env *usecase.MigrationEnv) error {
	reg, err := env.Registry.Load(ctx)
	if err != nil {
		return err
	}
	forwarderAddr, err := lookup(reg.Contracts, KeyStreamtideFwd, "")
	if err != nil {
		return err
	}

	err = env.Steps.Run(ctx, []usecase.Step{
		{
			Name: "deploy " + StreamtideArtifact,
			Run: func(ctx context.Context, _ *usecase.Steps) (map[string]any, error) {
				artifact, err := env.Artifacts.Load(ctx, StreamtideArtifact)
				if err != nil {
					return nil, err
				}
				address, err := deploy(ctx, env, artifact, env.TxOptions(hotSwapGas))
				if err != nil {
					return nil, err
				}
				env.Log.Info("contract deployed", "contract", StreamtideArtifact, "address", address)
				return map[string]any{"streamtideAddr": address}, nil
			},
		},
		{
			Name: "set forwarder target",
			Run: func(ctx context.Context, s *usecase.Steps) (map[string]any, error) {
				forwarder, err := env.Deployer.At(ctx, MutableForwarder, forwarderAddr)
				if err != nil {
					return nil, err
				}
				_, err = env.Deployer.Invoke(ctx, forwarder, "setTarget", []any{s.String("streamtideAddr")}, env.TxOptions(0))
				return nil, err
			},
		},
	})
	if err != nil {
		return err
	}

	updated, err := models.SetAddress(reg.Contracts, KeyStreamtide, env.Steps.String("streamtideAddr"))
	if err != nil {
		return err
	}
	reg.Contracts = updated
	if err := env.Registry.Save(ctx, reg); err != nil {
		return err
	}
	env.Log.Info("registry updated", "path", env.Registry.Path())
	return nil
}
