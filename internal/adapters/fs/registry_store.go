package fs

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/streamtide/deploy-cli/internal/adapters/registry"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// RegistryStoreAdapter reads and writes the registry document of the selected environment
type RegistryStoreAdapter struct {
	path      string
	namespace string
}

// NewRegistryStoreAdapter creates a new RegistryStoreAdapter
func NewRegistryStoreAdapter(cfg *config.RuntimeConfig) *RegistryStoreAdapter {
	return &RegistryStoreAdapter{
		path:      cfg.RegistryPath(),
		namespace: cfg.RegistryNamespace(),
	}
}

// Path returns the registry document path
func (s *RegistryStoreAdapter) Path() string {
	return s.path
}

// Load decodes the registry document. A missing document is an empty registry.
func (s *RegistryStoreAdapter) Load(_ context.Context) (*models.Registry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Registry{}, nil
		}
		return nil, fmt.Errorf("failed to read registry document: %w", err)
	}

	reg, err := registry.Decode(data)
	if err != nil {
		var decodeErr *domain.RegistryDecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Path = s.path
		}
		return nil, err
	}
	return reg, nil
}

// Save encodes the registry under the environment's namespace header and writes it
func (s *RegistryStoreAdapter) Save(_ context.Context, reg *models.Registry) error {
	data, err := registry.Encode(reg, s.namespace)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write registry document: %w", err)
	}

	return nil
}

// Ensure RegistryStoreAdapter implements RegistryStore
var _ usecase.RegistryStore = (*RegistryStoreAdapter)(nil)
