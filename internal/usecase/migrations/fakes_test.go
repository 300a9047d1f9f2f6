package migrations_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

const (
	multiSig  = "0x00000000000000000000000000000000000000ff"
	networkID = 5777
)

type memCheckpoints struct {
	data map[string]*domain.Checkpoint
}

func newMemCheckpoints() *memCheckpoints {
	return &memCheckpoints{data: make(map[string]*domain.Checkpoint)}
}

func (s *memCheckpoints) Load(_ context.Context, id string) (*domain.Checkpoint, error) {
	cp, ok := s.data[id]
	if !ok {
		return domain.NewCheckpoint(id), nil
	}
	c := *cp
	c.Values = make(map[string]any, len(cp.Values))
	for k, v := range cp.Values {
		c.Values[k] = v
	}
	return &c, nil
}

func (s *memCheckpoints) Save(_ context.Context, cp *domain.Checkpoint) error {
	c := *cp
	c.Values = make(map[string]any, len(cp.Values))
	for k, v := range cp.Values {
		c.Values[k] = v
	}
	s.data[cp.ID] = &c
	return nil
}

func (s *memCheckpoints) Delete(_ context.Context, id string) error {
	delete(s.data, id)
	return nil
}

func (s *memCheckpoints) List(context.Context) ([]*domain.Checkpoint, error) {
	var out []*domain.Checkpoint
	for _, cp := range s.data {
		out = append(out, cp)
	}
	return out, nil
}

type memArtifacts map[string]*models.Artifact

func (m memArtifacts) Load(_ context.Context, name string) (*models.Artifact, error) {
	a, ok := m[name]
	if !ok {
		return nil, &domain.ArtifactNotFoundError{Name: name, Path: name + ".json"}
	}
	return a.Clone()
}

func (m memArtifacts) Save(_ context.Context, a *models.Artifact) error {
	c, err := a.Clone()
	if err != nil {
		return err
	}
	m[a.ContractName] = c
	return nil
}

func (m memArtifacts) Exists(_ context.Context, name string) bool {
	_, ok := m[name]
	return ok
}

type memRegistry struct {
	registry *models.Registry
	saves    int
}

func (m *memRegistry) Load(context.Context) (*models.Registry, error) {
	if m.registry == nil {
		return &models.Registry{}, nil
	}
	return &models.Registry{Contracts: m.registry.Contracts.Clone(), Multichain: m.registry.Multichain.Clone()}, nil
}

func (m *memRegistry) Save(_ context.Context, reg *models.Registry) error {
	m.registry = &models.Registry{Contracts: reg.Contracts.Clone(), Multichain: reg.Multichain.Clone()}
	m.saves++
	return nil
}

func (m *memRegistry) Path() string { return "smart_contracts_dev.cljs" }

// deployer hands out sequential addresses and records deployed bytecode and invocations
type deployer struct {
	next     int
	deployed []string
	bytecode map[string]string
	invoked  []string
	recorded map[string]string
	failOn   string
	// unrecorded names an artifact whose deployment is mined but not written to its file
	unrecorded string
}

func newDeployer() *deployer {
	return &deployer{bytecode: make(map[string]string), recorded: make(map[string]string)}
}

func (d *deployer) Deploy(_ context.Context, a *models.Artifact, _ []any, opts domain.TxOptions) (*domain.DeployedContract, error) {
	if d.failOn == "deploy "+a.ContractName {
		return nil, &domain.ExternalCallError{Op: "deploy", Target: a.ContractName, Err: fmt.Errorf("out of gas")}
	}
	d.next++
	addr := fmt.Sprintf("0x%040x", d.next)
	d.deployed = append(d.deployed, fmt.Sprintf("%s gas=%d", a.ContractName, opts.Gas))
	d.bytecode[a.ContractName] = a.Bytecode
	deployed := &domain.DeployedContract{Name: a.ContractName, Address: addr}
	if d.unrecorded == a.ContractName {
		return deployed, fmt.Errorf("write %s.json: permission denied", a.ContractName)
	}
	d.recorded[a.ContractName] = addr
	return deployed, nil
}

func (d *deployer) At(_ context.Context, name, address string) (*domain.ContractHandle, error) {
	return &domain.ContractHandle{Name: name, Address: address}, nil
}

func (d *deployer) Deployed(_ context.Context, name string) (*domain.ContractHandle, error) {
	addr, ok := d.recorded[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotDeployed)
	}
	return &domain.ContractHandle{Name: name, Address: addr}, nil
}

func (d *deployer) Invoke(_ context.Context, c *domain.ContractHandle, method string, args []any, _ domain.TxOptions) (*domain.InvokeResult, error) {
	if d.failOn == method {
		return nil, &domain.ExternalCallError{Op: method, Target: c.Address, Err: fmt.Errorf("reverted")}
	}
	d.invoked = append(d.invoked, fmt.Sprintf("%s@%s.%s%v", c.Name, c.Address, method, args))
	return &domain.InvokeResult{}, nil
}

func (d *deployer) Call(_ context.Context, c *domain.ContractHandle, method string, _ ...any) ([]any, error) {
	return nil, fmt.Errorf("%s: unexpected call", method)
}

func newArtifacts() memArtifacts {
	return memArtifacts{
		"Migrations":       {ContractName: "Migrations", Bytecode: "0x6001"},
		"MVPCLR":           {ContractName: "MVPCLR", Bytecode: "0x6002"},
		"MatchingPool":     {ContractName: "MatchingPool", Bytecode: "0x6003"},
		"MutableForwarder": {ContractName: "MutableForwarder", Bytecode: "0x6080beefbeefbeefbeefbeefbeefbeefbeefbeefbeef00"},
	}
}

func newConfig(params config.EnvironmentConfig) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Environment: "dev",
		Parameters:  &params,
		Network:     &config.Network{Name: "ganache", NetworkID: networkID},
	}
}

type harness struct {
	cfg         *config.RuntimeConfig
	checkpoints *memCheckpoints
	artifacts   memArtifacts
	registry    *memRegistry
	deployer    *deployer
}

func newHarness(params config.EnvironmentConfig) *harness {
	return &harness{
		cfg:         newConfig(params),
		checkpoints: newMemCheckpoints(),
		artifacts:   newArtifacts(),
		registry:    &memRegistry{},
		deployer:    newDeployer(),
	}
}

// run opens the migration's steps like the run use case does and cleans up on success
func (h *harness) run(ctx context.Context, m usecase.Migration) error {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	steps := usecase.NewStepRunner(h.checkpoints, h.cfg, log).Open(ctx, m.ID())
	env := &usecase.MigrationEnv{
		Config:    h.cfg,
		Steps:     steps,
		Deployer:  h.deployer,
		Artifacts: h.artifacts,
		Registry:  h.registry,
		Progress:  usecase.NopProgress{},
		Log:       log,
	}
	if err := m.Run(ctx, env); err != nil {
		return err
	}
	steps.Clean(ctx)
	return nil
}
