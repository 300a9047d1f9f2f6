package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// DefaultGas is the gas limit of a migration transaction unless the network or the step says otherwise
const DefaultGas uint64 = 4_000_000

// Migration is one numbered deployment script
type Migration interface {
	ID() string
	Description() string
	// Manual migrations only run when named explicitly
	Manual() bool
	Run(ctx context.Context, env *MigrationEnv) error
}

// MigrationSet is the ordered list of known migrations
type MigrationSet []Migration

// Find returns the migration with the given id
func (s MigrationSet) Find(id string) (Migration, bool) {
	for _, m := range s {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}

// IDs returns every migration id in order
func (s MigrationSet) IDs() []string {
	ids := make([]string, len(s))
	for i, m := range s {
		ids[i] = m.ID()
	}
	return ids
}

// Sorted returns the set ordered by numeric id
func (s MigrationSet) Sorted() MigrationSet {
	out := append(MigrationSet(nil), s...)
	sort.SliceStable(out, func(i, j int) bool {
		return migrationNumber(out[i].ID()) < migrationNumber(out[j].ID())
	})
	return out
}

func migrationNumber(id string) uint64 {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return ^uint64(0)
	}
	return n
}

// MigrationEnv is everything a migration script works with. It is built
// fresh for every migration run.
type MigrationEnv struct {
	Config    *config.RuntimeConfig
	Steps     *Steps
	Deployer  ContractDeployer
	Artifacts ArtifactRepository
	Registry  RegistryStore
	Progress  ProgressSink
	Log       *slog.Logger
}

// Parameters returns the selected environment's parameter table
func (e *MigrationEnv) Parameters() config.EnvironmentConfig {
	if e.Config.Parameters == nil {
		return config.EnvironmentConfig{}
	}
	return *e.Config.Parameters
}

// NetworkID is the multichain registry key and artifact networks key of the target network
func (e *MigrationEnv) NetworkID() string {
	if e.Config.Network == nil {
		return ""
	}
	return e.Config.Network.ID()
}

// TxOptions returns the base transaction options with the given gas limit.
// A zero gas limit means the network default, or DefaultGas.
func (e *MigrationEnv) TxOptions(gas uint64) domain.TxOptions {
	opts := domain.TxOptions{Gas: DefaultGas}
	if n := e.Config.Network; n != nil {
		if n.Gas > 0 {
			opts.Gas = n.Gas
		}
		opts.From = n.From
	}
	if gas > 0 {
		opts.Gas = gas
	}
	return opts
}
