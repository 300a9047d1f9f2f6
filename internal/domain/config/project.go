package config

import "strconv"

// DefaultRegistryNamespace prefixes the environment name in the registry header
const DefaultRegistryNamespace = "streamtide.shared.smart-contracts"

// ProjectConfig represents streamtide.toml
type ProjectConfig struct {
	BuildDir     string                       `toml:"build_dir"`
	DataDir      string                       `toml:"data_dir"`
	Registry     RegistryConfig               `toml:"registry"`
	Environments map[string]EnvironmentConfig `toml:"environments"`
	Networks     map[string]NetworkConfig     `toml:"networks"`
}

// RegistryConfig holds registry document settings
type RegistryConfig struct {
	Namespace string `toml:"namespace"`
}

// EnvironmentConfig holds the per-environment parameter table
type EnvironmentConfig struct {
	RegistryPath string   `toml:"registry_path"`
	MultiSig     string   `toml:"multisig"`
	Admins       []string `toml:"admins"`
	Patrons      []string `toml:"patrons"`
}

// NetworkConfig is a [networks.<name>] table
type NetworkConfig struct {
	RPCURL         string `toml:"rpc_url"`
	NetworkID      uint64 `toml:"network_id"`
	Gas            uint64 `toml:"gas"`
	GasPrice       uint64 `toml:"gas_price"`
	PrivateKey     string `toml:"private_key"` //nolint:gosec // holds env var reference, not a literal secret
	From           string `toml:"from,omitempty"`
	ConfirmTimeout string `toml:"confirm_timeout,omitempty"`
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
