package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// NetworkResolver resolves network names against the [networks] tables
type NetworkResolver struct {
	project *config.ProjectConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	return &NetworkResolver{project: project}
}

// ProvideNetworkResolver builds a resolver over the loaded project
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.Project)
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	if r.project == nil {
		return nil, fmt.Errorf("%w %q: no %s loaded", domain.ErrUnknownNetwork, name, ProjectFile)
	}
	nc, ok := r.project.Networks[name]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s [networks] (available: %s)",
			domain.ErrUnknownNetwork, name, ProjectFile, strings.Join(sortedKeys(r.project.Networks), ", "))
	}
	if nc.NetworkID == 0 {
		return nil, fmt.Errorf("network %s: network_id is required", name)
	}

	rpcURL, err := resolveRPCURL(name, nc.RPCURL)
	if err != nil {
		return nil, err
	}

	network := &config.Network{
		Name:       name,
		NetworkID:  nc.NetworkID,
		RPCURL:     rpcURL,
		Gas:        nc.Gas,
		GasPrice:   nc.GasPrice,
		PrivateKey: os.ExpandEnv(nc.PrivateKey),
		From:       os.ExpandEnv(nc.From),
	}

	if nc.ConfirmTimeout != "" {
		network.ConfirmTimeout, err = time.ParseDuration(nc.ConfirmTimeout)
		if err != nil {
			return nil, fmt.Errorf("network %s: invalid confirm_timeout %q: %w", name, nc.ConfirmTimeout, err)
		}
	}

	return network, nil
}

// resolveRPCURL expands the configured URL. An empty value falls back to the
// conventional <NAME>_RPC_URL variable.
func resolveRPCURL(name, raw string) (string, error) {
	if raw == "" {
		envVar := GenerateEnvVarName(name)
		if url := os.Getenv(envVar); url != "" {
			return url, nil
		}
		return "", fmt.Errorf("network %s: rpc_url is not set and %s is empty", name, envVar)
	}

	if envVar, ok := DetectEnvVar(raw); ok {
		if url := os.Getenv(envVar); url != "" {
			return url, nil
		}
		return "", fmt.Errorf("network %s: rpc_url references ${%s} which is not set", name, envVar)
	}
	return os.ExpandEnv(raw), nil
}
