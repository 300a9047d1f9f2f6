package migrations

import (
	"context"

	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// multichainMatchingPool deploys MatchingPool behind MatchingPoolForwarder on
// the current network and records both in that network's registry table.
type multichainMatchingPool struct{ script }

func (m *multichainMatchingPool) Run(ctx context.Context, env *usecase.MigrationEnv) error {
	multiSig, err := requireMultiSig(env)
	if err != nil {
		return err
	}
	if err := cloneForwarder(ctx, env, MatchingPoolForwarder); err != nil {
		return err
	}

	pool, forwarder, err := deployForwarded(ctx, env, forwardedDeployment{
		Implementation:    MatchingPoolArtifact,
		Forwarder:         MatchingPoolForwarder,
		ImplementationKey: "matchingPoolAddr",
		ForwarderKey:      "matchingPoolForwarderAddr",
	}, multiSig)
	if err != nil {
		return err
	}

	reg, err := env.Registry.Load(ctx)
	if err != nil {
		return err
	}
	multichain := reg.Multichain.Clone()
	if multichain == nil {
		multichain = models.NewMultichainTable()
	}
	network := env.NetworkID()
	table, ok := multichain.Table(network)
	if !ok {
		table = models.NewRegistryTable()
	}
	table.Put(KeyMatchingPool, models.RegistryEntry{Name: MatchingPoolArtifact, Address: pool})
	table.Put(KeyMatchingPoolFwd, models.RegistryEntry{Name: MutableForwarder, Address: forwarder, ForwardsTo: KeyMatchingPool})
	warnDangling(env, table)
	multichain.Put(network, table)
	reg.Multichain = multichain

	if err := env.Registry.Save(ctx, reg); err != nil {
		return err
	}
	env.Log.Info("registry updated", "path", env.Registry.Path(), "network", network)
	return nil
}
