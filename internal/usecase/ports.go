package usecase

import (
	"context"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/domain/models"
)

// CheckpointStore persists migration checkpoints
type CheckpointStore interface {
	// Load returns the checkpoint for a migration, or a fresh one when none is stored
	Load(ctx context.Context, id string) (*domain.Checkpoint, error)
	Save(ctx context.Context, checkpoint *domain.Checkpoint) error
	// Delete removes a checkpoint. Deleting a missing checkpoint is not an error.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Checkpoint, error)
}

// ArtifactRepository reads and writes compiled contract artifacts
type ArtifactRepository interface {
	Load(ctx context.Context, name string) (*models.Artifact, error)
	Save(ctx context.Context, artifact *models.Artifact) error
	Exists(ctx context.Context, name string) bool
}

// RegistryStore reads and writes the registry document of the selected environment
type RegistryStore interface {
	Load(ctx context.Context) (*models.Registry, error)
	Save(ctx context.Context, registry *models.Registry) error
	Path() string
}

// ContractDeployer deploys artifacts and talks to deployed contracts
type ContractDeployer interface {
	// Deploy sends the creation transaction and records the address in the artifact's networks.
	// When the contract is mined but the record fails, it returns the contract along with the error.
	Deploy(ctx context.Context, artifact *models.Artifact, args []any, opts domain.TxOptions) (*domain.DeployedContract, error)
	// At returns a handle to a contract of the named artifact at address
	At(ctx context.Context, name, address string) (*domain.ContractHandle, error)
	// Deployed returns a handle to the address recorded in the artifact for the current network
	Deployed(ctx context.Context, name string) (*domain.ContractHandle, error)
	Invoke(ctx context.Context, contract *domain.ContractHandle, method string, args []any, opts domain.TxOptions) (*domain.InvokeResult, error)
	Call(ctx context.Context, contract *domain.ContractHandle, method string, args ...any) ([]any, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// InteractiveSelector asks the operator to confirm or choose
type InteractiveSelector interface {
	Confirm(ctx context.Context, message string) (bool, error)
	SelectOne(ctx context.Context, options []string, prompt string) (string, error)
}

// ChainStatus is what a reachable RPC endpoint reports
type ChainStatus struct {
	ChainID     uint64
	BlockNumber uint64
}

// BlockchainChecker inspects networks without sending transactions
type BlockchainChecker interface {
	Probe(ctx context.Context, rpcURL string) (*ChainStatus, error)
	HasCode(ctx context.Context, rpcURL string, addresses []string) (map[string]bool, error)
}

// NetworkResolver turns a [networks] entry into a dialable network
type NetworkResolver interface {
	Resolve(name string) (*config.Network, error)
}

// LocalConfigStore persists per-checkout defaults for env and network
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, local *config.LocalConfig) error
	Path() string
}
