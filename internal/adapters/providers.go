package adapters

import (
	"github.com/google/wire"
	"github.com/streamtide/deploy-cli/internal/adapters/blockchain"
	"github.com/streamtide/deploy-cli/internal/adapters/chain"
	"github.com/streamtide/deploy-cli/internal/adapters/fs"
	"github.com/streamtide/deploy-cli/internal/adapters/interactive"
	"github.com/streamtide/deploy-cli/internal/adapters/progress"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewCheckpointStoreAdapter,
	wire.Bind(new(usecase.CheckpointStore), new(*fs.CheckpointStoreAdapter)),

	fs.NewArtifactRepositoryAdapter,
	wire.Bind(new(usecase.ArtifactRepository), new(*fs.ArtifactRepositoryAdapter)),

	fs.NewRegistryStoreAdapter,
	wire.Bind(new(usecase.RegistryStore), new(*fs.RegistryStoreAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// ChainSet provides the transaction-sending implementation
var ChainSet = wire.NewSet(
	chain.NewDeployerAdapter,
	wire.Bind(new(usecase.ContractDeployer), new(*chain.DeployerAdapter)),
)

// BlockchainSet provides read-only blockchain implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.BlockchainChecker), new(*blockchain.CheckerAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	BlockchainSet,
	InteractiveSet,
	ProgressSet,
)
