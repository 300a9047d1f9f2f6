package usecase

import (
	"context"
	"fmt"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// VerifiedEntry is the on-chain check of one registry address
type VerifiedEntry struct {
	// Table is "" for the flat table, else the multichain network key
	Table   string
	Key     string
	Name    string
	Address string
	HasCode bool
}

// VerifyRegistryResult contains the checks for the selected network
type VerifyRegistryResult struct {
	Network string
	Entries []VerifiedEntry
}

// Missing returns entries whose address holds no code
func (r *VerifyRegistryResult) Missing() []VerifiedEntry {
	var out []VerifiedEntry
	for _, e := range r.Entries {
		if !e.HasCode {
			out = append(out, e)
		}
	}
	return out
}

// VerifyRegistry checks that registry addresses hold contract code on the selected network
type VerifyRegistry struct {
	config  *config.RuntimeConfig
	store   RegistryStore
	checker BlockchainChecker
}

// NewVerifyRegistry creates a new VerifyRegistry use case
func NewVerifyRegistry(cfg *config.RuntimeConfig, store RegistryStore, checker BlockchainChecker) *VerifyRegistry {
	return &VerifyRegistry{config: cfg, store: store, checker: checker}
}

// Execute verifies the flat table, or with multichain set the selected network's table
func (uc *VerifyRegistry) Execute(ctx context.Context, multichain bool) (*VerifyRegistryResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected: %w", domain.ErrUnknownNetwork)
	}

	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	tableName := ""
	table := reg.Contracts
	if multichain {
		tableName = network.ID()
		var ok bool
		if table, ok = reg.Multichain.Table(tableName); !ok {
			return &VerifyRegistryResult{Network: network.Name}, nil
		}
	}

	var entries []VerifiedEntry
	var addresses []string
	for _, key := range table.Keys() {
		e, _ := table.Entry(key)
		if e.Address == "" {
			continue
		}
		entries = append(entries, VerifiedEntry{Table: tableName, Key: key, Name: e.Name, Address: e.Address})
		addresses = append(addresses, e.Address)
	}

	hasCode, err := uc.checker.HasCode(ctx, network.RPCURL, addresses)
	if err != nil {
		return nil, &domain.ExternalCallError{Op: "getCode", Target: network.Name, Err: err}
	}
	for i := range entries {
		entries[i].HasCode = hasCode[entries[i].Address]
	}

	return &VerifyRegistryResult{Network: network.Name, Entries: entries}, nil
}
