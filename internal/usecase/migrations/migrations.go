// Package migrations holds the numbered deployment scripts of the streamtide contracts.
package migrations

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// ForwarderTargetPlaceholder is the address compiled into MutableForwarder
// where the forwarding target goes.
const ForwarderTargetPlaceholder = "beefbeefbeefbeefbeefbeefbeefbeefbeefbeef"

// Gas limits used by the scripts
const (
	implementationGas uint64 = 20_000_000
	forwarderGas      uint64 = 5_000_000
	adminGas          uint64 = 5_000_000
	hotSwapGas        uint64 = 2_000_000
)

// Artifact names
const (
	MigrationsArtifact    = usecase.MigrationsContract
	MutableForwarder      = "MutableForwarder"
	StreamtideArtifact    = "MVPCLR"
	StreamtideForwarder   = "StreamtideForwarder"
	MatchingPoolArtifact  = "MatchingPool"
	MatchingPoolForwarder = "MatchingPoolForwarder"
)

// Registry keys
const (
	KeyMigrations      = "migrations"
	KeyStreamtide      = "streamtide"
	KeyStreamtideFwd   = "streamtide-fwd"
	KeyMatchingPool    = "matching-pool"
	KeyMatchingPoolFwd = "matching-pool-fwd"
)

// NewSet returns every known migration
func NewSet() usecase.MigrationSet {
	return usecase.MigrationSet{
		&initialMigration{script{id: "1", description: "deploy Migrations contract"}},
		&streamtideContracts{script{id: "2", description: "deploy streamtide contracts"}},
		&addAdmins{script{id: "3", description: "add streamtide admins"}},
		&addPatrons{script{id: "4", description: "add streamtide patrons"}},
		&multichainMatchingPool{script{id: "5", description: "deploy matching pool on the current network"}},
		&addMultichainAdmins{script{id: "6", description: "add matching pool admins on the current network"}},
		&updateStreamtide{script{id: "99", description: "replace the streamtide implementation behind its forwarder", manual: true}},
	}
}

// script carries the identity shared by every migration
type script struct {
	id          string
	description string
	manual      bool
}

func (s script) ID() string          { return s.id }
func (s script) Description() string { return s.description }
func (s script) Manual() bool        { return s.manual }

// forwardedDeployment describes an implementation deployed behind its own
// copy of MutableForwarder.
type forwardedDeployment struct {
	Implementation string
	Forwarder      string
	// ImplementationKey and ForwarderKey name the checkpoint values holding the addresses
	ImplementationKey string
	ForwarderKey      string
}

// deployForwarded runs three steps: deploy the implementation, deploy the
// forwarder with the implementation's address linked in, and construct the
// implementation through the forwarder. It returns both addresses.
func deployForwarded(ctx context.Context, env *usecase.MigrationEnv, d forwardedDeployment, multiSig string) (string, string, error) {
	err := env.Steps.Run(ctx, []usecase.Step{
		{
			Name: "deploy " + d.Implementation,
			Run: func(ctx context.Context, s *usecase.Steps) (map[string]any, error) {
				artifact, err := env.Artifacts.Load(ctx, d.Implementation)
				if err != nil {
					return nil, err
				}
				address, err := deploy(ctx, env, artifact, env.TxOptions(implementationGas))
				if err != nil {
					return nil, err
				}
				env.Log.Info("contract deployed", "contract", d.Implementation, "address", address)
				return map[string]any{d.ImplementationKey: address}, nil
			},
		},
		{
			Name: "deploy " + d.Forwarder,
			Run: func(ctx context.Context, s *usecase.Steps) (map[string]any, error) {
				target := s.String(d.ImplementationKey)
				if target == "" {
					return nil, fmt.Errorf("%s address missing from checkpoint", d.Implementation)
				}
				artifact, err := env.Artifacts.Load(ctx, d.Forwarder)
				if err != nil {
					return nil, err
				}
				address, err := deploy(ctx, env, artifact.Linked(ForwarderTargetPlaceholder, target), env.TxOptions(forwarderGas))
				if err != nil {
					return nil, err
				}
				env.Log.Info("contract deployed", "contract", d.Forwarder, "address", address, "target", target)
				return map[string]any{d.ForwarderKey: address}, nil
			},
		},
		{
			Name: "construct " + d.Implementation,
			Run: func(ctx context.Context, s *usecase.Steps) (map[string]any, error) {
				forwarded, err := env.Deployer.At(ctx, d.Implementation, s.String(d.ForwarderKey))
				if err != nil {
					return nil, err
				}
				if _, err := env.Deployer.Invoke(ctx, forwarded, "construct", []any{multiSig}, env.TxOptions(0)); err != nil {
					return nil, err
				}
				return nil, nil
			},
		},
	})
	if err != nil {
		return "", "", err
	}
	return env.Steps.String(d.ImplementationKey), env.Steps.String(d.ForwarderKey), nil
}

// cloneForwarder writes a named copy of MutableForwarder so each forwarder
// keeps its own deployment bookkeeping.
// deploy sends the creation transaction and returns the new address. A contract
// that is on chain but missing from its artifact file is only a warning, so the
// step still checkpoints the address and a re-run does not deploy it again.
func deploy(ctx context.Context, env *usecase.MigrationEnv, artifact *models.Artifact, opts domain.TxOptions) (string, error) {
	deployed, err := env.Deployer.Deploy(ctx, artifact, nil, opts)
	if deployed == nil {
		if err == nil {
			err = fmt.Errorf("deploy %s returned no contract", artifact.ContractName)
		}
		return "", err
	}
	if err != nil {
		env.Log.Warn("deployed contract not recorded", "contract", artifact.ContractName, "address", deployed.Address, "error", err)
		env.Progress.Error(fmt.Sprintf("%s deployed at %s but not recorded in its artifact: %v", artifact.ContractName, deployed.Address, err))
	}
	return deployed.Address, nil
}

func cloneForwarder(ctx context.Context, env *usecase.MigrationEnv, name string) error {
	_, err := usecase.NewCloneArtifact(env.Artifacts, env.Log).Execute(ctx, usecase.CloneArtifactParams{
		Template: MutableForwarder,
		Name:     name,
	})
	return err
}

func requireMultiSig(env *usecase.MigrationEnv) (string, error) {
	multiSig := env.Parameters().MultiSig
	if multiSig == "" {
		return "", fmt.Errorf("multisig is not configured for environment %s", env.Config.Environment)
	}
	return multiSig, nil
}

// lookup resolves a registry address, failing when the entry is missing or undeployed
func lookup(table *models.RegistryTable, key, network string) (string, error) {
	if _, ok := table.Entry(key); !ok {
		return "", &domain.EntryNotFoundError{Key: key, Network: network}
	}
	address, ok := table.GetAddress(key)
	if !ok {
		return "", fmt.Errorf(":%s: %w", key, domain.ErrNotDeployed)
	}
	return address, nil
}

// addAdminSteps adds each admin in its own step so a failure resumes at the admin that failed
func addAdminSteps(ctx context.Context, env *usecase.MigrationEnv, contract *domain.ContractHandle) error {
	admins := lo.Uniq(env.Parameters().Admins)
	if len(admins) == 0 {
		env.Log.Info("no admins configured")
		return nil
	}
	steps := lo.Map(admins, func(admin string, _ int) usecase.Step {
		return usecase.Step{
			Name: "add admin " + admin,
			Run: func(ctx context.Context, _ *usecase.Steps) (map[string]any, error) {
				env.Log.Info("adding admin", "admin", admin, "contract", contract.Address)
				_, err := env.Deployer.Invoke(ctx, contract, "addAdmin", []any{admin}, env.TxOptions(adminGas))
				return nil, err
			},
		}
	})
	return env.Steps.Run(ctx, steps)
}

func warnDangling(env *usecase.MigrationEnv, table *models.RegistryTable) {
	if err := table.Validate(); err != nil {
		env.Log.Warn("registry has dangling references", "error", err)
	}
}
