package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

const probeTimeout = 5 * time.Second

// CheckerAdapter implements the BlockchainChecker interface using ethclient
type CheckerAdapter struct{}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter() *CheckerAdapter {
	return &CheckerAdapter{}
}

// Probe connects to an RPC endpoint and reports its chain ID and head block
func (c *CheckerAdapter) Probe(ctx context.Context, rpcURL string) (*usecase.ChainStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	block, err := client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get block number: %w", err)
	}

	return &usecase.ChainStatus{ChainID: chainID.Uint64(), BlockNumber: block}, nil
}

// HasCode reports whether each address holds contract code
func (c *CheckerAdapter) HasCode(ctx context.Context, rpcURL string, addresses []string) (map[string]bool, error) {
	dialCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	result := make(map[string]bool, len(addresses))
	for _, address := range addresses {
		if !common.IsHexAddress(address) {
			result[address] = false
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		code, err := client.CodeAt(callCtx, common.HexToAddress(address), nil)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to check code at %s: %w", address, err)
		}
		result[address] = len(code) > 0
	}
	return result, nil
}

// Ensure the adapter implements the interface
var _ usecase.BlockchainChecker = (*CheckerAdapter)(nil)
