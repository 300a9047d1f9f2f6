package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// ProjectFile marks the project root
const ProjectFile = "streamtide.toml"

// Defaults for paths left out of streamtide.toml
const (
	DefaultDataDir  = ".streamtide"
	DefaultBuildDir = "build/contracts"
)

// LoadProjectConfig loads .env files and parses streamtide.toml. Environment
// parameters have ${VAR} references expanded; network fields are expanded
// when the network is resolved.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	path := filepath.Join(projectRoot, ProjectFile)
	var cfg config.ProjectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = DefaultBuildDir
	}
	if cfg.Registry.Namespace == "" {
		cfg.Registry.Namespace = config.DefaultRegistryNamespace
	}

	for name, env := range cfg.Environments {
		env.RegistryPath = os.ExpandEnv(env.RegistryPath)
		env.MultiSig = os.ExpandEnv(env.MultiSig)
		env.Admins = expandAll(env.Admins)
		env.Patrons = expandAll(env.Patrons)
		cfg.Environments[name] = env
	}

	return &cfg, nil
}

// loadEnvFiles loads .env then .env.local. Variables already set win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

func expandAll(values []string) []string {
	return lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = os.ExpandEnv(v)
		return v, v != ""
	})
}
