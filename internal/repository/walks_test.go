package repository

import (
	"context"
	"testing"
	"time"

	"github.com/masjidwalk/backend/internal/storage"
	"github.com/masjidwalk/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory storage.Store for repository tests
type memStore struct {
	blobs  map[string][]byte
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.blobs[key] = value
	return nil
}

func (m *memStore) Ping(ctx context.Context) error { return nil }
func (m *memStore) Close()                         {}

func entry(id string, steps int) model.WalkEntry {
	return model.WalkEntry{
		ID:         id,
		Date:       time.Date(2025, 6, 1, 5, 30, 0, 0, time.UTC),
		MosqueName: "Al-Noor Mosque",
		DistanceKm: 1.2,
		Steps:      steps,
		Hasanat:    2400,
		Prayer:     model.PrayerFajr,
	}
}

func TestWalkRepository_EmptyStoreListsEmpty(t *testing.T) {
	repo := NewWalkRepository(newMemStore(), zap.NewNop())

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestWalkRepository_AddPrependsNewestFirst(t *testing.T) {
	repo := NewWalkRepository(newMemStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, entry("first", 1000)))
	require.NoError(t, repo.Add(ctx, entry("second", 2666)))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].ID)
	assert.Equal(t, "first", entries[1].ID)
}

func TestWalkRepository_DeleteRemovesExactlyOne(t *testing.T) {
	repo := NewWalkRepository(newMemStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, entry("a", 1000)))
	require.NoError(t, repo.Add(ctx, entry("b", 2666)))

	require.NoError(t, repo.Delete(ctx, "a"))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ID)
}

func TestWalkRepository_DeleteUnknownIDIsNoOp(t *testing.T) {
	store := newMemStore()
	repo := NewWalkRepository(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, entry("a", 1000)))
	before := string(store.blobs[storage.KeyWalkHistory])

	require.NoError(t, repo.Delete(ctx, "missing"))

	// No rewrite happened
	assert.Equal(t, before, string(store.blobs[storage.KeyWalkHistory]))
}

func TestWalkRepository_CorruptBlobReadsAsEmpty(t *testing.T) {
	store := newMemStore()
	store.blobs[storage.KeyWalkHistory] = []byte("{not json")
	repo := NewWalkRepository(store, zap.NewNop())

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWalkRepository_StorageReadErrorReadsAsEmpty(t *testing.T) {
	store := newMemStore()
	store.getErr = assert.AnError
	repo := NewWalkRepository(store, zap.NewNop())

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWalkRepository_EntriesSurviveReload(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	repo := NewWalkRepository(store, zap.NewNop())
	require.NoError(t, repo.Add(ctx, entry("a", 1234)))

	// Fresh repository over the same store sees the same log
	reopened := NewWalkRepository(store, zap.NewNop())
	entries, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1234, entries[0].Steps)
	assert.Equal(t, model.PrayerFajr, entries[0].Prayer)
}
