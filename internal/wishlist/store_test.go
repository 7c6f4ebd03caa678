package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

type failingStorage struct {
	*storage.MemoryStorage
	setErr error
}

func (f *failingStorage) Set(ctx context.Context, slot string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStorage.Set(ctx, slot, value)
}

func setupStore(t *testing.T) (*Store, *failingStorage) {
	t.Helper()
	backing := &failingStorage{MemoryStorage: storage.NewMemoryStorage("test")}
	return NewStore(context.Background(), backing, zap.NewNop()), backing
}

func ids(entries []domain.WishlistEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ProductID)
	}
	return out
}

func TestAdd_Idempotent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "A"))
	require.NoError(t, s.Add(ctx, "A"))

	assert.Equal(t, []string{"A"}, ids(s.Entries()))
	assert.True(t, s.Contains("A"))
}

func TestAdd_RejectsEmptyID(t *testing.T) {
	s, _ := setupStore(t)
	assert.ErrorIs(t, s.Add(context.Background(), ""), ErrInvalidProduct)
}

func TestAdd_PersistFailure(t *testing.T) {
	s, backing := setupStore(t)
	backing.setErr = errors.New("read-only")

	require.Error(t, s.Add(context.Background(), "A"))
	assert.False(t, s.Contains("A"))
}

func TestRemove(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "A"))
	require.NoError(t, s.Add(ctx, "B"))

	removed, err := s.Remove(ctx, "A")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"B"}, ids(s.Entries()))

	removed, err = s.Remove(ctx, "A")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReconcile_UnionWithLocalPriority(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "A"))
	local := s.Entries()[0]

	added, err := s.Reconcile(ctx, []domain.WishlistEntry{{ProductID: "A"}, {ProductID: "B"}, {ProductID: ""}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"A", "B"}, ids(s.Entries()))
	assert.Equal(t, local.AddedAt, s.Entries()[0].AddedAt)

	added, err = s.Reconcile(ctx, []domain.WishlistEntry{{ProductID: "B"}})
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestNewStore_RestoresPersisted(t *testing.T) {
	backing := storage.NewMemoryStorage("test")
	ctx := context.Background()

	first := NewStore(ctx, backing, zap.NewNop())
	require.NoError(t, first.Add(ctx, "A"))
	require.NoError(t, first.Add(ctx, "B"))

	second := NewStore(ctx, backing, zap.NewNop())
	assert.Equal(t, []string{"A", "B"}, ids(second.Entries()))
}

func TestNewStore_CorruptedSlot(t *testing.T) {
	backing := storage.NewMemoryStorage("test")
	require.NoError(t, backing.Set(context.Background(), storage.SlotWishlist, []byte(`"oops"`)))

	s := NewStore(context.Background(), backing, zap.NewNop())
	assert.Empty(t, s.Entries())
}

func TestReset(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Add(context.Background(), "A"))

	s.Reset()
	assert.Empty(t, s.Entries())
}
