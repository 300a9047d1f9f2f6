package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
	"github.com/stretchr/testify/mock"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	if buf == nil {
		buf = &bytes.Buffer{}
	}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// memCheckpointStore keeps checkpoints as JSON, like the file store does
type memCheckpointStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	saves     int
	saveErr   error
	deleteErr error
}

func newMemCheckpointStore() *memCheckpointStore {
	return &memCheckpointStore{data: make(map[string][]byte)}
}

func (s *memCheckpointStore) Load(_ context.Context, id string) (*domain.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[id]
	if !ok {
		return domain.NewCheckpoint(id), nil
	}
	var cp domain.Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, &domain.CheckpointIOError{Op: "read", Path: id, Err: err}
	}
	cp.ID = id
	return &cp, nil
}

func (s *memCheckpointStore) Save(_ context.Context, cp *domain.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	s.data[cp.ID] = raw
	s.saves++
	return nil
}

func (s *memCheckpointStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.data, id)
	return nil
}

func (s *memCheckpointStore) List(ctx context.Context) ([]*domain.Checkpoint, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)

	var out []*domain.Checkpoint
	for _, id := range ids {
		cp, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

func (s *memCheckpointStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[id]
	return ok
}

// MockCheckpointStore is a mock implementation of CheckpointStore
type MockCheckpointStore struct {
	mock.Mock
}

func (m *MockCheckpointStore) Load(ctx context.Context, id string) (*domain.Checkpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkpoint), args.Error(1)
}

func (m *MockCheckpointStore) Save(ctx context.Context, cp *domain.Checkpoint) error {
	return m.Called(ctx, cp).Error(0)
}

func (m *MockCheckpointStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCheckpointStore) List(ctx context.Context) ([]*domain.Checkpoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Checkpoint), args.Error(1)
}

// memArtifacts is an in-memory ArtifactRepository
type memArtifacts struct {
	artifacts map[string]*models.Artifact
}

func newMemArtifacts(artifacts ...*models.Artifact) *memArtifacts {
	m := &memArtifacts{artifacts: make(map[string]*models.Artifact)}
	for _, a := range artifacts {
		m.artifacts[a.ContractName] = a
	}
	return m
}

func (m *memArtifacts) Load(_ context.Context, name string) (*models.Artifact, error) {
	a, ok := m.artifacts[name]
	if !ok {
		return nil, &domain.ArtifactNotFoundError{Name: name, Path: "build/contracts/" + name + ".json"}
	}
	return a.Clone()
}

func (m *memArtifacts) Save(_ context.Context, a *models.Artifact) error {
	c, err := a.Clone()
	if err != nil {
		return err
	}
	m.artifacts[a.ContractName] = c
	return nil
}

func (m *memArtifacts) Exists(_ context.Context, name string) bool {
	_, ok := m.artifacts[name]
	return ok
}

// memRegistryStore is an in-memory RegistryStore
type memRegistryStore struct {
	registry *models.Registry
	saves    int
}

func (m *memRegistryStore) Load(context.Context) (*models.Registry, error) {
	if m.registry == nil {
		return &models.Registry{}, nil
	}
	return &models.Registry{
		Contracts:  m.registry.Contracts.Clone(),
		Multichain: m.registry.Multichain.Clone(),
	}, nil
}

func (m *memRegistryStore) Save(_ context.Context, reg *models.Registry) error {
	m.registry = &models.Registry{Contracts: reg.Contracts.Clone(), Multichain: reg.Multichain.Clone()}
	m.saves++
	return nil
}

func (m *memRegistryStore) Path() string { return "smart_contracts_dev.cljs" }

// fakeDeployer hands out sequential addresses and records every call
type fakeDeployer struct {
	next      int
	deployed  []string
	invoked   []string
	recorded  map[string]string
	callValue map[string][]any
	failOn    string
}

func newFakeDeployer() *fakeDeployer {
	return &fakeDeployer{recorded: make(map[string]string), callValue: make(map[string][]any)}
}

func (d *fakeDeployer) Deploy(_ context.Context, a *models.Artifact, _ []any, _ domain.TxOptions) (*domain.DeployedContract, error) {
	if d.failOn == "deploy "+a.ContractName {
		return nil, &domain.ExternalCallError{Op: "deploy", Target: a.ContractName, Err: fmt.Errorf("out of gas")}
	}
	d.next++
	addr := fmt.Sprintf("0x%040x", d.next)
	d.deployed = append(d.deployed, a.ContractName)
	d.recorded[a.ContractName] = addr
	return &domain.DeployedContract{Name: a.ContractName, Address: addr, TxHash: fmt.Sprintf("0x%064x", d.next)}, nil
}

func (d *fakeDeployer) At(_ context.Context, name, address string) (*domain.ContractHandle, error) {
	return &domain.ContractHandle{Name: name, Address: address}, nil
}

func (d *fakeDeployer) Deployed(_ context.Context, name string) (*domain.ContractHandle, error) {
	addr, ok := d.recorded[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotDeployed)
	}
	return &domain.ContractHandle{Name: name, Address: addr}, nil
}

func (d *fakeDeployer) Invoke(_ context.Context, c *domain.ContractHandle, method string, args []any, _ domain.TxOptions) (*domain.InvokeResult, error) {
	call := fmt.Sprintf("%s.%s%v", c.Name, method, args)
	if d.failOn == method {
		return nil, &domain.ExternalCallError{Op: method, Target: c.Address, Err: fmt.Errorf("reverted")}
	}
	d.invoked = append(d.invoked, call)
	return &domain.InvokeResult{TxHash: "0x01"}, nil
}

func (d *fakeDeployer) Call(_ context.Context, c *domain.ContractHandle, method string, _ ...any) ([]any, error) {
	if v, ok := d.callValue[method]; ok {
		return v, nil
	}
	return nil, &domain.ExternalCallError{Op: method, Target: c.Address, Err: fmt.Errorf("no value")}
}

// fakeSelector answers every confirmation the same way
type fakeSelector struct {
	answer bool
	err    error
	asked  []string
}

func (s *fakeSelector) Confirm(_ context.Context, message string) (bool, error) {
	s.asked = append(s.asked, message)
	return s.answer, s.err
}

func (s *fakeSelector) SelectOne(_ context.Context, options []string, _ string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to select")
	}
	return options[0], s.err
}

// fakeChecker reports canned chain status per RPC URL and code per address
type fakeChecker struct {
	status  map[string]*usecase.ChainStatus
	code    map[string]bool
	codeErr error
	queried []string
}

func (c *fakeChecker) Probe(_ context.Context, rpcURL string) (*usecase.ChainStatus, error) {
	st, ok := c.status[rpcURL]
	if !ok {
		return nil, fmt.Errorf("dial %s: connection refused", rpcURL)
	}
	return st, nil
}

func (c *fakeChecker) HasCode(_ context.Context, _ string, addresses []string) (map[string]bool, error) {
	if c.codeErr != nil {
		return nil, c.codeErr
	}
	c.queried = append(c.queried, addresses...)
	out := make(map[string]bool, len(addresses))
	for _, a := range addresses {
		out[a] = c.code[a]
	}
	return out, nil
}

// memLocalConfig is a LocalConfigStore that never touches disk
type memLocalConfig struct {
	stored *config.LocalConfig
}

func (m *memLocalConfig) Exists() bool { return m.stored != nil }

func (m *memLocalConfig) Load(context.Context) (*config.LocalConfig, error) {
	if m.stored == nil {
		return &config.LocalConfig{}, nil
	}
	cp := *m.stored
	return &cp, nil
}

func (m *memLocalConfig) Save(_ context.Context, local *config.LocalConfig) error {
	cp := *local
	m.stored = &cp
	return nil
}

func (m *memLocalConfig) Path() string { return ".streamtide/config.local.json" }

var (
	_ usecase.LocalConfigStore    = (*memLocalConfig)(nil)
	_ usecase.InteractiveSelector = (*fakeSelector)(nil)
	_ usecase.BlockchainChecker   = (*fakeChecker)(nil)
	_ usecase.CheckpointStore     = (*memCheckpointStore)(nil)
	_ usecase.CheckpointStore     = (*MockCheckpointStore)(nil)
	_ usecase.ArtifactRepository  = (*memArtifacts)(nil)
	_ usecase.RegistryStore       = (*memRegistryStore)(nil)
	_ usecase.ContractDeployer    = (*fakeDeployer)(nil)
)
