package config

// LocalConfigFile is the name of the local defaults file inside the data directory
const LocalConfigFile = "config.local.json"

// LocalConfig holds per-checkout defaults stored in the data directory.
// Flags and STREAMTIDE_* variables still take precedence over it.
type LocalConfig struct {
	Env     string `json:"env,omitempty"`
	Network string `json:"network,omitempty"`
}

// ConfigKey represents a local configuration key
type ConfigKey string

const (
	ConfigKeyEnv     ConfigKey = "env"
	ConfigKeyNetwork ConfigKey = "network"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{ConfigKeyEnv, ConfigKeyNetwork}
}

// NormalizeConfigKey maps aliases onto their key ("environment" -> "env").
// It returns false for unknown keys.
func NormalizeConfigKey(key string) (ConfigKey, bool) {
	switch key {
	case "env", "environment":
		return ConfigKeyEnv, true
	case "network", "net":
		return ConfigKeyNetwork, true
	}
	return "", false
}

// Get returns the value stored under key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyEnv:
		return c.Env
	case ConfigKeyNetwork:
		return c.Network
	}
	return ""
}

// Set stores value under key. An empty value clears it.
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyEnv:
		c.Env = value
	case ConfigKeyNetwork:
		c.Network = value
	}
}
