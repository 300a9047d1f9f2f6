package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// ArtifactRepositoryAdapter reads and writes <build_dir>/<name>.json artifacts
type ArtifactRepositoryAdapter struct {
	buildDir string
}

// NewArtifactRepositoryAdapter creates a new ArtifactRepositoryAdapter
func NewArtifactRepositoryAdapter(cfg *config.RuntimeConfig) *ArtifactRepositoryAdapter {
	dir := cfg.BuildDir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return &ArtifactRepositoryAdapter{buildDir: dir}
}

func (r *ArtifactRepositoryAdapter) path(name string) string {
	return filepath.Join(r.buildDir, name+".json")
}

// Load reads an artifact by contract name
func (r *ArtifactRepositoryAdapter) Load(_ context.Context, name string) (*models.Artifact, error) {
	path := r.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.ArtifactNotFoundError{Name: name, Path: path}
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if artifact.ContractName == "" {
		artifact.ContractName = name
	}

	return &artifact, nil
}

// Save writes the artifact under its contract name, replacing any existing file
func (r *ArtifactRepositoryAdapter) Save(_ context.Context, artifact *models.Artifact) error {
	if artifact.ContractName == "" {
		return fmt.Errorf("artifact has no contract name")
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact %s: %w", artifact.ContractName, err)
	}

	if err := writeFileAtomic(r.path(artifact.ContractName), data); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", artifact.ContractName, err)
	}

	return nil
}

// Exists reports whether an artifact file is present
func (r *ArtifactRepositoryAdapter) Exists(_ context.Context, name string) bool {
	return fileExists(r.path(name))
}

// Ensure ArtifactRepositoryAdapter implements ArtifactRepository
var _ usecase.ArtifactRepository = (*ArtifactRepositoryAdapter)(nil)
