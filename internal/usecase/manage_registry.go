package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RegistryView is the decoded registry with integrity findings
type RegistryView struct {
	Environment string
	Path        string
	Registry    *models.Registry
	// Dangling maps a table name ("" for the flat table, else the network) to
	// entries whose forwards-to names a missing key
	Dangling map[string][]string
}

// RegistryLookup identifies one registry entry
type RegistryLookup struct {
	Key string
	// Network selects the multichain table of that network; empty means the flat table
	Network string
}

// ManageRegistry reads and edits the registry document of the selected environment
type ManageRegistry struct {
	config *config.RuntimeConfig
	store  RegistryStore
	log    *slog.Logger
}

// NewManageRegistry creates a new ManageRegistry use case
func NewManageRegistry(cfg *config.RuntimeConfig, store RegistryStore, log *slog.Logger) *ManageRegistry {
	return &ManageRegistry{config: cfg, store: store, log: log}
}

// Show loads the registry and checks forwarding references
func (uc *ManageRegistry) Show(ctx context.Context) (*RegistryView, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	view := &RegistryView{
		Environment: uc.config.Environment,
		Path:        uc.store.Path(),
		Registry:    reg,
		Dangling:    make(map[string][]string),
	}
	if d := reg.Contracts.DanglingReferences(); len(d) > 0 {
		view.Dangling[""] = d
	}
	for _, network := range reg.Multichain.Networks() {
		table, _ := reg.Multichain.Table(network)
		if d := table.DanglingReferences(); len(d) > 0 {
			view.Dangling[network] = d
		}
	}
	return view, nil
}

// Get returns the address of an entry. An entry without an address is not deployed.
func (uc *ManageRegistry) Get(ctx context.Context, lookup RegistryLookup) (string, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return "", err
	}

	table, err := uc.table(reg, lookup.Network)
	if err != nil {
		return "", err
	}
	key := models.NormalizeKey(lookup.Key)
	if _, ok := table.Entry(key); !ok {
		return "", withSuggestions(&domain.EntryNotFoundError{Key: key, Network: lookup.Network}, key, table.Keys())
	}
	address, ok := table.GetAddress(key)
	if !ok {
		return "", fmt.Errorf(":%s: %w", key, domain.ErrNotDeployed)
	}
	return address, nil
}

// Set replaces the address of an existing entry and writes the document back
func (uc *ManageRegistry) Set(ctx context.Context, lookup RegistryLookup, address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%q: %w", address, domain.ErrInvalidAddress)
	}
	address = common.HexToAddress(address).Hex()

	reg, err := uc.store.Load(ctx)
	if err != nil {
		return err
	}

	key := models.NormalizeKey(lookup.Key)
	if lookup.Network == "" {
		updated, err := models.SetAddress(reg.Contracts, key, address)
		if err != nil {
			return withSuggestions(err, key, reg.Contracts.Keys())
		}
		reg.Contracts = updated
	} else {
		updated, err := models.SetChainAddress(reg.Multichain, lookup.Network, key, address)
		if err != nil {
			table, _ := reg.Multichain.Table(lookup.Network)
			return withSuggestions(err, key, table.Keys())
		}
		reg.Multichain = updated
	}

	if err := uc.store.Save(ctx, reg); err != nil {
		return err
	}
	uc.log.Info("registry entry updated", "key", key, "network", lookup.Network, "address", address)
	return nil
}

func (uc *ManageRegistry) table(reg *models.Registry, network string) (*models.RegistryTable, error) {
	if network == "" {
		return reg.Contracts, nil
	}
	table, ok := reg.Multichain.Table(network)
	if !ok {
		return nil, withSuggestions(fmt.Errorf("network %s: %w", models.NormalizeKey(network), domain.ErrNotDeployed), models.NormalizeKey(network), reg.Multichain.Networks())
	}
	return table, nil
}

type exportEntry struct {
	Name       string `json:"name" yaml:"name"`
	Address    string `json:"address,omitempty" yaml:"address,omitempty"`
	ForwardsTo string `json:"forwardsTo,omitempty" yaml:"forwardsTo,omitempty"`
}

type exportDocument struct {
	Environment string                            `json:"environment" yaml:"environment"`
	Contracts   map[string]exportEntry            `json:"contracts" yaml:"contracts"`
	Multichain  map[string]map[string]exportEntry `json:"multichain" yaml:"multichain"`
}

// Export renders the registry as JSON or YAML for tooling that can't read the document
func (uc *ManageRegistry) Export(ctx context.Context, format string) ([]byte, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	doc := exportDocument{
		Environment: uc.config.Environment,
		Contracts:   exportTable(reg.Contracts),
		Multichain:  make(map[string]map[string]exportEntry),
	}
	for _, network := range reg.Multichain.Networks() {
		table, _ := reg.Multichain.Table(network)
		doc.Multichain[network] = exportTable(table)
	}

	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported export format %q (use %s or %s)", format, FormatJSON, FormatYAML)
	}
}

func exportTable(t *models.RegistryTable) map[string]exportEntry {
	out := make(map[string]exportEntry, t.Len())
	for _, key := range t.Keys() {
		e, _ := t.Entry(key)
		out[key] = exportEntry{Name: e.Name, Address: e.Address, ForwardsTo: e.ForwardsTo}
	}
	return out
}
