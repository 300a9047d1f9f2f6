package config

import (
	"path/filepath"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and migrations and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	BuildDir    string

	// Context settings
	Environment string             // dev, qa or prod
	Parameters  *EnvironmentConfig // parameters of the selected environment
	Network     *Network           // nil if not specified
	Registry    RegistryConfig     // registry document settings

	// Execution settings
	Debug            bool
	NonInteractive   bool
	Timeout          time.Duration
	StrictCheckpoint bool // fail the run when a checkpoint can't be persisted

	// Resolved project file
	Project *ProjectConfig
}

// RegistryPath returns the absolute path of the selected environment's registry document
func (c *RuntimeConfig) RegistryPath() string {
	var path string
	if c.Parameters != nil {
		path = c.Parameters.RegistryPath
	}
	if path == "" {
		path = filepath.Join("src", "streamtide", "shared", "smart_contracts_"+c.Environment+".cljs")
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectRoot, path)
}

// RegistryNamespace is the header namespace written at the top of the registry document
func (c *RuntimeConfig) RegistryNamespace() string {
	return c.Registry.Namespace + "-" + c.Environment
}

// CheckpointDir is where migration checkpoints for the current environment and network live
func (c *RuntimeConfig) CheckpointDir() string {
	network := "default"
	if c.Network != nil {
		network = c.Network.Name
	}
	return filepath.Join(c.DataDir, "checkpoints", c.Environment, network)
}

// Network represents a resolved network configuration
type Network struct {
	Name           string        `json:"name"`
	NetworkID      uint64        `json:"networkId"`
	RPCURL         string        `json:"rpcUrl"`
	Gas            uint64        `json:"gas"`
	GasPrice       uint64        `json:"gasPrice"`
	PrivateKey     string        `json:"-"`
	From           string        `json:"from,omitempty"`
	ConfirmTimeout time.Duration `json:"confirmTimeout"`
}

// ID returns the network identifier used as the multichain registry key and
// as the artifact networks key.
func (n *Network) ID() string {
	return formatUint(n.NetworkID)
}
