package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	dataDir := resolvePath(projectRoot, project.DataDir)
	mergeLocalConfig(v, dataDir)

	cfg := &config.RuntimeConfig{
		ProjectRoot:      projectRoot,
		DataDir:          dataDir,
		BuildDir:         resolvePath(projectRoot, project.BuildDir),
		Environment:      v.GetString("env"),
		Registry:         project.Registry,
		Debug:            v.GetBool("debug"),
		NonInteractive:   v.GetBool("non_interactive"),
		Timeout:          v.GetDuration("timeout"),
		StrictCheckpoint: v.GetBool("strict_checkpoint"),
		Project:          project,
	}

	params, ok := project.Environments[cfg.Environment]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s (available: %s)",
			domain.ErrUnknownEnvironment, cfg.Environment, ProjectFile, strings.Join(sortedKeys(project.Environments), ", "))
	}
	cfg.Parameters = &params

	// Resolve network if specified
	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(project).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find streamtide.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRoot(dir)
}

func findProjectRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a streamtide project (%s not found)", ProjectFile)
		}
		dir = parent
	}
}

// mergeLocalConfig reads the local defaults from a data_dir other than the default one
func mergeLocalConfig(v *viper.Viper, dataDir string) {
	path := filepath.Join(dataDir, config.LocalConfigFile)
	if v.ConfigFileUsed() == path {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	v.SetConfigFile(path)
	_ = v.MergeInConfig()
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Local overrides, e.g. a developer's default network
	v.SetConfigFile(filepath.Join(projectRoot, DefaultDataDir, config.LocalConfigFile))

	// Set up environment variables
	v.SetEnvPrefix("STREAMTIDE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("env", "dev")
	v.SetDefault("network", "")
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("strict_checkpoint", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	return v
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
