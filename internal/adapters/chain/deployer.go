package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/lmittmann/w3/w3types"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

const (
	defaultPollInterval   = 2 * time.Second
	defaultConfirmTimeout = 5 * time.Minute
)

// DeployerAdapter deploys and invokes contracts over JSON-RPC. Transactions
// are signed locally with the network's configured key.
type DeployerAdapter struct {
	network   *config.Network
	artifacts usecase.ArtifactRepository
	progress  usecase.ProgressSink
	log       *slog.Logger

	pollInterval time.Duration

	mu      sync.Mutex
	client  *w3.Client
	key     *ecdsa.PrivateKey
	from    common.Address
	signer  types.Signer
	chainID uint64
}

// NewDeployerAdapter creates a new DeployerAdapter. The connection is opened on first use.
func NewDeployerAdapter(cfg *config.RuntimeConfig, artifacts usecase.ArtifactRepository, progress usecase.ProgressSink, log *slog.Logger) *DeployerAdapter {
	return &DeployerAdapter{
		network:      cfg.Network,
		artifacts:    artifacts,
		progress:     progress,
		log:          log,
		pollInterval: defaultPollInterval,
	}
}

// connect dials the network and resolves the signer
func (d *DeployerAdapter) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		return nil
	}
	if d.network == nil {
		return fmt.Errorf("no network selected: %w", domain.ErrUnknownNetwork)
	}
	if d.network.RPCURL == "" {
		return fmt.Errorf("network %s has no rpc_url configured", d.network.Name)
	}

	client, err := w3.Dial(d.network.RPCURL)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}

	var chainID uint64
	if err := client.CallCtx(ctx, eth.ChainID().Returns(&chainID)); err != nil {
		_ = client.Close()
		return fmt.Errorf("get chain id: %w", err)
	}

	if d.network.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(d.network.PrivateKey, "0x"))
		if err != nil {
			_ = client.Close()
			return fmt.Errorf("invalid private key for network %s: %w", d.network.Name, err)
		}
		d.key = key
		d.from = crypto.PubkeyToAddress(key.PublicKey)
	} else if d.network.From != "" {
		d.from = common.HexToAddress(d.network.From)
	}

	d.client = client
	d.chainID = chainID
	d.signer = types.LatestSignerForChainID(new(big.Int).SetUint64(chainID))

	d.log.Debug("connected to network", "network", d.network.Name, "chainId", chainID, "from", d.from.Hex())
	return nil
}

// Close closes the RPC connection, if one was opened
func (d *DeployerAdapter) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// Deploy sends the creation transaction for an artifact and records the new
// address in the artifact file under the network ID.
func (d *DeployerAdapter) Deploy(ctx context.Context, artifact *models.Artifact, args []any, opts domain.TxOptions) (*domain.DeployedContract, error) {
	name := artifact.ContractName
	fail := func(err error) error {
		return &domain.ExternalCallError{Op: "deploy", Target: name, Err: err}
	}

	data, err := artifact.CreationCode()
	if err != nil {
		return nil, fail(err)
	}
	if len(args) > 0 {
		parsed, err := artifact.ParsedABI()
		if err != nil {
			return nil, fail(err)
		}
		converted, err := convertArgs(parsed.Constructor.Inputs, args)
		if err != nil {
			return nil, fail(fmt.Errorf("constructor: %w", err))
		}
		encoded, err := parsed.Pack("", converted...)
		if err != nil {
			return nil, fail(fmt.Errorf("encode constructor: %w", err))
		}
		data = append(data, encoded...)
	}

	if err := d.connect(ctx); err != nil {
		return nil, fail(err)
	}

	receipt, txHash, err := d.transact(ctx, nil, data, opts, "Deploying "+name)
	if err != nil {
		return nil, fail(err)
	}

	deployed := &domain.DeployedContract{
		Name:    name,
		Address: receipt.ContractAddress.Hex(),
		TxHash:  txHash.Hex(),
	}
	d.progress.Info(fmt.Sprintf("Deployed %s at %s", name, deployed.Address))
	d.log.Info("contract deployed", "contract", name, "address", deployed.Address, "tx", deployed.TxHash, "gasUsed", receipt.GasUsed)

	if err := d.recordDeployment(ctx, artifact, deployed); err != nil {
		return deployed, fmt.Errorf("deployed %s at %s but failed to record it: %w", name, deployed.Address, err)
	}
	return deployed, nil
}

// recordDeployment stores the address on the artifact file. The file is
// reloaded so linked bytecode never replaces the template on disk.
func (d *DeployerAdapter) recordDeployment(ctx context.Context, artifact *models.Artifact, deployed *domain.DeployedContract) error {
	stored, err := d.artifacts.Load(ctx, artifact.ContractName)
	if err != nil {
		if !errors.Is(err, domain.ErrArtifactNotFound) {
			return err
		}
		stored = artifact
	}
	stored.RecordDeployment(d.network.ID(), models.NetworkDeployment{
		Address:         deployed.Address,
		TransactionHash: deployed.TxHash,
	})
	artifact.RecordDeployment(d.network.ID(), models.NetworkDeployment{
		Address:         deployed.Address,
		TransactionHash: deployed.TxHash,
	})
	return d.artifacts.Save(ctx, stored)
}

// At returns a handle to a contract of the named artifact
func (d *DeployerAdapter) At(ctx context.Context, name, address string) (*domain.ContractHandle, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%s at %q: %w", name, address, domain.ErrInvalidAddress)
	}
	if _, err := d.artifacts.Load(ctx, name); err != nil {
		return nil, err
	}
	return &domain.ContractHandle{Name: name, Address: common.HexToAddress(address).Hex()}, nil
}

// Deployed returns a handle to the artifact's recorded address on the current network
func (d *DeployerAdapter) Deployed(ctx context.Context, name string) (*domain.ContractHandle, error) {
	if d.network == nil {
		return nil, fmt.Errorf("no network selected: %w", domain.ErrUnknownNetwork)
	}
	artifact, err := d.artifacts.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	address, ok := artifact.Address(d.network.ID())
	if !ok {
		return nil, fmt.Errorf("%s on network %s: %w", name, d.network.ID(), domain.ErrNotDeployed)
	}
	return &domain.ContractHandle{Name: name, Address: address}, nil
}

// Invoke sends a transaction calling method on the contract and waits for it to be mined
func (d *DeployerAdapter) Invoke(ctx context.Context, contract *domain.ContractHandle, method string, args []any, opts domain.TxOptions) (*domain.InvokeResult, error) {
	fail := func(err error) error {
		return &domain.ExternalCallError{Op: contract.Name + "." + method, Target: contract.Address, Err: err}
	}

	input, _, err := d.encodeCall(ctx, contract, method, args)
	if err != nil {
		return nil, fail(err)
	}
	if err := d.connect(ctx); err != nil {
		return nil, fail(err)
	}

	to := common.HexToAddress(contract.Address)
	receipt, txHash, err := d.transact(ctx, &to, input, opts, fmt.Sprintf("Calling %s.%s", contract.Name, method))
	if err != nil {
		return nil, fail(err)
	}

	d.log.Info("transaction mined", "contract", contract.Name, "method", method, "tx", txHash.Hex(), "gasUsed", receipt.GasUsed)
	result := &domain.InvokeResult{
		TxHash:  txHash.Hex(),
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return result, nil
}

// Call runs a read-only call and returns the decoded outputs
func (d *DeployerAdapter) Call(ctx context.Context, contract *domain.ContractHandle, method string, args ...any) ([]any, error) {
	fail := func(err error) error {
		return &domain.ExternalCallError{Op: contract.Name + "." + method, Target: contract.Address, Err: err}
	}

	input, m, err := d.encodeCall(ctx, contract, method, args)
	if err != nil {
		return nil, fail(err)
	}
	if err := d.connect(ctx); err != nil {
		return nil, fail(err)
	}

	to := common.HexToAddress(contract.Address)
	msg := &w3types.Message{From: d.from, To: &to, Input: input}

	var output []byte
	if err := d.client.CallCtx(ctx, eth.Call(msg, nil, nil).Returns(&output)); err != nil {
		return nil, fail(err)
	}

	values, err := m.Outputs.Unpack(output)
	if err != nil {
		return nil, fail(fmt.Errorf("decode output: %w", err))
	}
	return values, nil
}

func (d *DeployerAdapter) encodeCall(ctx context.Context, contract *domain.ContractHandle, method string, args []any) ([]byte, *abi.Method, error) {
	artifact, err := d.artifacts.Load(ctx, contract.Name)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := artifact.ParsedABI()
	if err != nil {
		return nil, nil, err
	}
	m, ok := parsed.Methods[method]
	if !ok {
		return nil, nil, fmt.Errorf("method %s not found in %s ABI", method, contract.Name)
	}
	converted, err := convertArgs(m.Inputs, args)
	if err != nil {
		return nil, nil, err
	}
	input, err := parsed.Pack(method, converted...)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", method, err)
	}
	return input, &m, nil
}

// transact signs and sends a legacy transaction, then waits for its receipt.
// A reverted transaction is an error.
func (d *DeployerAdapter) transact(ctx context.Context, to *common.Address, data []byte, opts domain.TxOptions, label string) (*types.Receipt, common.Hash, error) {
	if d.key == nil {
		return nil, common.Hash{}, fmt.Errorf("no private key configured for network %s", d.network.Name)
	}
	if opts.From != "" && !strings.EqualFold(common.HexToAddress(opts.From).Hex(), d.from.Hex()) {
		return nil, common.Hash{}, fmt.Errorf("sender %s does not match configured key %s", opts.From, d.from.Hex())
	}

	var nonce uint64
	if err := d.client.CallCtx(ctx, eth.Nonce(d.from, nil).Returns(&nonce)); err != nil {
		return nil, common.Hash{}, fmt.Errorf("get nonce: %w", err)
	}

	gasPrice := opts.GasPrice
	if gasPrice == nil && d.network.GasPrice > 0 {
		gasPrice = new(big.Int).SetUint64(d.network.GasPrice)
	}
	if gasPrice == nil {
		if err := d.client.CallCtx(ctx, eth.GasPrice().Returns(&gasPrice)); err != nil {
			return nil, common.Hash{}, fmt.Errorf("get gas price: %w", err)
		}
	}

	gas := opts.Gas
	if gas == 0 {
		gas = d.network.Gas
	}
	if gas == 0 {
		msg := &w3types.Message{From: d.from, To: to, Input: data}
		if err := d.client.CallCtx(ctx, eth.EstimateGas(msg, nil).Returns(&gas)); err != nil {
			return nil, common.Hash{}, fmt.Errorf("estimate gas: %w", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       to,
		Data:     data,
	})
	signedTx, err := types.SignTx(tx, d.signer, d.key)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("sign tx: %w", err)
	}

	var txHash common.Hash
	if err := d.client.CallCtx(ctx, eth.SendTx(signedTx).Returns(&txHash)); err != nil {
		return nil, common.Hash{}, fmt.Errorf("send tx: %w", err)
	}
	if txHash == (common.Hash{}) {
		txHash = signedTx.Hash()
	}

	d.progress.OnProgress(ctx, usecase.ProgressEvent{
		Stage:   "confirm",
		Message: fmt.Sprintf("%s (tx %s)", label, txHash.Hex()),
		Spinner: true,
	})
	receipt, err := d.waitForReceipt(ctx, txHash)
	d.progress.OnProgress(ctx, usecase.ProgressEvent{Stage: "confirmed"})
	if err != nil {
		return nil, txHash, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, txHash, fmt.Errorf("transaction %s reverted", txHash.Hex())
	}
	return receipt, txHash, nil
}

func (d *DeployerAdapter) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	timeout := d.network.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultConfirmTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		err := d.client.CallCtx(ctx, eth.TxReceipt(txHash).Returns(&receipt))
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt of %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Ensure DeployerAdapter implements ContractDeployer
var _ usecase.ContractDeployer = (*DeployerAdapter)(nil)
