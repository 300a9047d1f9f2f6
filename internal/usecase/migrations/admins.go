package migrations

import (
	"context"

	"github.com/streamtide/deploy-cli/internal/usecase"
)

// addAdmins grants admin rights on the streamtide forwarder
type addAdmins struct{ script }

func (m *addAdmins) Run(ctx context.Context, env *usecase.MigrationEnv) error {
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
	return addAdminSteps(ctx, env, contract)
}

// addMultichainAdmins grants admin rights on the matching pool forwarder of the current network
type addMultichainAdmins struct{ script }

func (m *addMultichainAdmins) Run(ctx context.Context, env *usecase.MigrationEnv) error {
	reg, err := env.Registry.Load(ctx)
	if err != nil {
		return err
	}
	network := env.NetworkID()
	table, _ := reg.Multichain.Table(network)
	forwarder, err := lookup(table, KeyMatchingPoolFwd, network)
	if err != nil {
		return err
	}
	env.Log.Info("matching pool forwarder", "address", forwarder, "network", network)
	contract, err := env.Deployer.At(ctx, MatchingPoolArtifact, forwarder)
	if err != nil {
		return err
	}
	return addAdminSteps(ctx, env, contract)
}
