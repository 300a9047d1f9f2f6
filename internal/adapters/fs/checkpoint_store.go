package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

const checkpointSuffix = "_status.json"

// CheckpointStoreAdapter implements CheckpointStore with one JSON file per migration
type CheckpointStoreAdapter struct {
	dir string
}

// NewCheckpointStoreAdapter creates a new CheckpointStoreAdapter
func NewCheckpointStoreAdapter(cfg *config.RuntimeConfig) *CheckpointStoreAdapter {
	return &CheckpointStoreAdapter{
		dir: cfg.CheckpointDir(),
	}
}

// Path returns the checkpoint file of a migration
func (s *CheckpointStoreAdapter) Path(id string) string {
	return filepath.Join(s.dir, id+checkpointSuffix)
}

// Load reads a checkpoint from disk. Returns a fresh checkpoint if the file does not exist.
func (s *CheckpointStoreAdapter) Load(_ context.Context, id string) (*domain.Checkpoint, error) {
	path := s.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewCheckpoint(id), nil
		}
		return nil, &domain.CheckpointIOError{Op: "read", Path: path, Err: err}
	}

	cp := domain.NewCheckpoint(id)
	if err := json.Unmarshal(data, cp); err != nil {
		return nil, &domain.CheckpointIOError{Op: "parse", Path: path, Err: err}
	}
	cp.ID = id

	if cp.Values == nil {
		cp.Values = make(map[string]any)
	}

	return cp, nil
}

// Save writes a checkpoint to disk, creating the directory if needed.
func (s *CheckpointStoreAdapter) Save(_ context.Context, cp *domain.Checkpoint) error {
	if cp.ID == "" {
		return &domain.CheckpointIOError{Op: "write", Path: s.dir, Err: errors.New("checkpoint has no migration id")}
	}
	path := s.Path(cp.ID)

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return &domain.CheckpointIOError{Op: "encode", Path: path, Err: err}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return &domain.CheckpointIOError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// Delete removes a checkpoint file from disk.
func (s *CheckpointStoreAdapter) Delete(_ context.Context, id string) error {
	path := s.Path(id)
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return &domain.CheckpointIOError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// List loads every checkpoint of the current environment and network, ordered by id.
// An unreadable file is listed with LoadErr set rather than failing the listing.
func (s *CheckpointStoreAdapter) List(ctx context.Context) ([]*domain.Checkpoint, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.CheckpointIOError{Op: "list", Path: s.dir, Err: err}
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), checkpointSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), checkpointSuffix))
	}
	sort.Slice(ids, func(i, j int) bool { return migrationLess(ids[i], ids[j]) })

	checkpoints := make([]*domain.Checkpoint, 0, len(ids))
	for _, id := range ids {
		cp, err := s.Load(ctx, id)
		if err != nil {
			cp = domain.NewCheckpoint(id)
			cp.LoadErr = err
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, nil
}

// migrationLess orders numeric ids numerically, then everything else by name
func migrationLess(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Ensure CheckpointStoreAdapter implements CheckpointStore
var _ usecase.CheckpointStore = (*CheckpointStoreAdapter)(nil)
