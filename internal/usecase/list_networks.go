package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Probe connects to each network to read its chain ID and head block
	Probe bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name        string
	NetworkID   uint64
	RPCURL      string
	ChainID     uint64
	BlockNumber uint64
	Selected    bool
	Error       error
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
	checker  BlockchainChecker
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, checker BlockchainChecker) *ListNetworks {
	return &ListNetworks{
		config:   cfg,
		resolver: resolver,
		checker:  checker,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	var configured map[string]config.NetworkConfig
	if uc.config.Project != nil {
		configured = uc.config.Project.Networks
	}

	names := lo.Keys(configured)
	sort.Strings(names)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		nc := configured[name]
		status := NetworkStatus{
			Name:      name,
			NetworkID: nc.NetworkID,
			RPCURL:    nc.RPCURL,
			Selected:  uc.config.Network != nil && uc.config.Network.Name == name,
		}

		if params.Probe {
			uc.probe(ctx, &status)
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}

// probe dials the resolved RPC endpoint, so ${VAR} references are expanded first
func (uc *ListNetworks) probe(ctx context.Context, status *NetworkStatus) {
	network, err := uc.resolver.Resolve(status.Name)
	if err != nil {
		status.Error = err
		return
	}
	info, err := uc.checker.Probe(ctx, network.RPCURL)
	if err != nil {
		status.Error = err
		return
	}
	status.ChainID = info.ChainID
	status.BlockNumber = info.BlockNumber
}
