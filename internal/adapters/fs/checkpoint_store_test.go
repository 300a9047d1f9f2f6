package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCheckpointStore(t *testing.T) (*CheckpointStoreAdapter, *config.RuntimeConfig) {
	t.Helper()
	cfg := &config.RuntimeConfig{
		DataDir:     t.TempDir(),
		Environment: "dev",
		Network:     &config.Network{Name: "ganache", NetworkID: 1337},
	}
	return NewCheckpointStoreAdapter(cfg), cfg
}

func TestCheckpointStore_LoadEmpty(t *testing.T) {
	store, _ := newTestCheckpointStore(t)

	cp, err := store.Load(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "2", cp.ID)
	assert.Equal(t, domain.NoStepCompleted, cp.LastStep)
	assert.NotNil(t, cp.Values)
	assert.Empty(t, cp.Values)
}

func TestCheckpointStore_SaveAndLoad(t *testing.T) {
	store, cfg := newTestCheckpointStore(t)
	ctx := context.Background()

	cp := domain.NewCheckpoint("2")
	cp.Merge(map[string]any{
		"streamtideAddr":          "0x00000000000000000000000000000000000000aa",
		"streamtideForwarderAddr": "0x00000000000000000000000000000000000000bb",
	})
	cp.Advance(1)
	require.NoError(t, store.Save(ctx, cp))

	expected := filepath.Join(cfg.DataDir, "checkpoints", "dev", "ganache", "2_status.json")
	assert.Equal(t, expected, store.Path("2"))
	data, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lastStep": 1, "values": {
		"streamtideAddr": "0x00000000000000000000000000000000000000aa",
		"streamtideForwarderAddr": "0x00000000000000000000000000000000000000bb"}}`, string(data))

	loaded, err := store.Load(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, cp, loaded)

	_, err = os.Stat(expected + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestCheckpointStore_LoadCorrupt(t *testing.T) {
	store, _ := newTestCheckpointStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path("3")), 0755))
	require.NoError(t, os.WriteFile(store.Path("3"), []byte(`{"lastStep": 2, "values": {`), 0644))

	_, err := store.Load(context.Background(), "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointIO)

	var ioErr *domain.CheckpointIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "parse", ioErr.Op)
}

func TestCheckpointStore_LoadNullValues(t *testing.T) {
	store, _ := newTestCheckpointStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path("4")), 0755))
	require.NoError(t, os.WriteFile(store.Path("4"), []byte(`{"lastStep": 0, "values": null}`), 0644))

	cp, err := store.Load(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, 0, cp.LastStep)
	assert.NotNil(t, cp.Values)
}

func TestCheckpointStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// The data dir is a regular file so the checkpoint directory can't be created
	store := NewCheckpointStoreAdapter(&config.RuntimeConfig{DataDir: blocker, Environment: "dev"})
	err := store.Save(context.Background(), domain.NewCheckpoint("2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointIO)

	err = store.Save(context.Background(), &domain.Checkpoint{})
	assert.ErrorIs(t, err, domain.ErrCheckpointIO)
}

func TestCheckpointStore_Delete(t *testing.T) {
	store, _ := newTestCheckpointStore(t)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "2"), "deleting a missing checkpoint is fine")

	require.NoError(t, store.Save(ctx, domain.NewCheckpoint("2")))
	require.NoError(t, store.Delete(ctx, "2"))

	_, err := os.Stat(store.Path("2"))
	assert.True(t, os.IsNotExist(err))
}

func TestCheckpointStore_List(t *testing.T) {
	store, _ := newTestCheckpointStore(t)
	ctx := context.Background()

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []string{"99", "5", "2"} {
		cp := domain.NewCheckpoint(id)
		cp.Advance(0)
		require.NoError(t, store.Save(ctx, cp))
	}
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(store.Path("2")), "notes.txt"), []byte("x"), 0644))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2", list[0].ID)
	assert.Equal(t, "5", list[1].ID)
	assert.Equal(t, "99", list[2].ID)
}

func TestCheckpointStore_ListKeepsUnreadable(t *testing.T) {
	store, _ := newTestCheckpointStore(t)
	ctx := context.Background()

	cp := domain.NewCheckpoint("2")
	cp.Advance(0)
	require.NoError(t, store.Save(ctx, cp))
	require.NoError(t, os.WriteFile(store.Path("3"), []byte("{garbage"), 0644))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "2", list[0].ID)
	assert.NoError(t, list[0].LoadErr)
	assert.Equal(t, 0, list[0].LastStep)

	assert.Equal(t, "3", list[1].ID)
	assert.ErrorIs(t, list[1].LoadErr, domain.ErrCheckpointIO)
	assert.Equal(t, domain.NoStepCompleted, list[1].LastStep)

	require.NoError(t, store.Delete(ctx, "3"))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCheckpointStore_ScopedByEnvironmentAndNetwork(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	goerli := NewCheckpointStoreAdapter(&config.RuntimeConfig{DataDir: dataDir, Environment: "qa", Network: &config.Network{Name: "goerli"}})
	mumbai := NewCheckpointStoreAdapter(&config.RuntimeConfig{DataDir: dataDir, Environment: "qa", Network: &config.Network{Name: "mumbai"}})

	cp := domain.NewCheckpoint("5")
	cp.Advance(2)
	require.NoError(t, goerli.Save(ctx, cp))

	other, err := mumbai.Load(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, domain.NoStepCompleted, other.LastStep)
}
