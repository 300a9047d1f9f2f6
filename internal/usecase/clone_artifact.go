package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/models"
)

// CloneArtifactParams contains parameters for cloning an artifact
type CloneArtifactParams struct {
	Template string
	Name     string
	// Network and Address optionally record a known deployment of the clone
	Network string
	Address string
}

// CloneArtifactResult contains the written artifact
type CloneArtifactResult struct {
	Artifact *models.Artifact
	// PreservedNetworks lists deployments kept from an existing artifact of the same name
	PreservedNetworks []string
}

// CloneArtifact copies a compiled artifact under a new contract name
type CloneArtifact struct {
	artifacts ArtifactRepository
	log       *slog.Logger
}

// NewCloneArtifact creates a new CloneArtifact use case
func NewCloneArtifact(artifacts ArtifactRepository, log *slog.Logger) *CloneArtifact {
	return &CloneArtifact{artifacts: artifacts, log: log}
}

// Execute clones the template. Deployments already recorded on an existing
// artifact with the new name are kept. The template's own deployments are not.
func (uc *CloneArtifact) Execute(ctx context.Context, params CloneArtifactParams) (*CloneArtifactResult, error) {
	if params.Name == "" || params.Template == "" {
		return nil, fmt.Errorf("template and new name are required")
	}
	if (params.Network == "") != (params.Address == "") {
		return nil, fmt.Errorf("network and address must be given together")
	}
	if params.Address != "" && !common.IsHexAddress(params.Address) {
		return nil, fmt.Errorf("%q: %w", params.Address, domain.ErrInvalidAddress)
	}

	template, err := uc.artifacts.Load(ctx, params.Template)
	if err != nil {
		return nil, err
	}
	clone, err := template.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to copy artifact %s: %w", params.Template, err)
	}
	clone.Rename(params.Name)
	clone.Networks = make(map[string]models.NetworkDeployment)

	result := &CloneArtifactResult{Artifact: clone}
	if uc.artifacts.Exists(ctx, params.Name) {
		existing, err := uc.artifacts.Load(ctx, params.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read existing artifact %s: %w", params.Name, err)
		}
		for network, d := range existing.Networks {
			clone.Networks[network] = d
			result.PreservedNetworks = append(result.PreservedNetworks, network)
		}
		sort.Strings(result.PreservedNetworks)
	}

	if params.Network != "" {
		clone.RecordDeployment(models.NormalizeKey(params.Network), models.NetworkDeployment{Address: params.Address})
	}

	if err := uc.artifacts.Save(ctx, clone); err != nil {
		return nil, err
	}
	uc.log.Debug("artifact cloned", "template", params.Template, "name", params.Name, "preserved", result.PreservedNetworks)
	return result, nil
}
