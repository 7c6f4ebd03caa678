// Package wishlist holds the saved-for-later product ids of the current device.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

var ErrInvalidProduct = errors.New("product id is required")

type SlotStore interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
}

// Store keeps at most one entry per product and persists every change before
// applying it.
type Store struct {
	mu      sync.Mutex
	entries []domain.WishlistEntry
	storage SlotStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewStore(ctx context.Context, store SlotStore, logger *zap.Logger) *Store {
	s := &Store{
		storage: store,
		logger:  logger.With(zap.String("component", "wishlist")),
		now:     time.Now,
	}
	s.entries = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.WishlistEntry {
	data, err := s.storage.Get(ctx, storage.SlotWishlist)
	if errors.Is(err, storage.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to read wishlist slot, starting empty", zap.Error(err))
		return nil
	}

	var entries []domain.WishlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("corrupted wishlist slot, starting empty", zap.Error(err))
		return nil
	}

	out := make([]domain.WishlistEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ProductID == "" || seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true
		out = append(out, e)
	}
	return out
}

func (s *Store) persist(ctx context.Context, entries []domain.WishlistEntry) error {
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal wishlist: %w", err)
	}
	if err := s.storage.Set(ctx, storage.SlotWishlist, data); err != nil {
		return fmt.Errorf("failed to persist wishlist: %w", err)
	}
	return nil
}

func (s *Store) indexOf(productID string) int {
	for i, e := range s.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add saves productID. Adding an id that is already present changes nothing.
func (s *Store) Add(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(productID) >= 0 {
		return nil
	}
	now := s.now().UTC()
	next := make([]domain.WishlistEntry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, domain.WishlistEntry{ProductID: productID, AddedAt: &now})

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// Remove reports false when productID was not saved.
func (s *Store) Remove(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return false, nil
	}
	next := make([]domain.WishlistEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:i]...)
	next = append(next, s.entries[i+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.entries = next
	return true, nil
}

func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) Entries() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WishlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reconcile adds the remote entries that are missing locally. Nothing is
// removed and nothing is pushed back. It returns the number of entries added.
func (s *Store) Reconcile(ctx context.Context, remote []domain.WishlistEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.WishlistEntry, len(s.entries), len(s.entries)+len(remote))
	copy(next, s.entries)
	seen := make(map[string]bool, len(next)+len(remote))
	for _, e := range next {
		seen[e.ProductID] = true
	}

	added := 0
	for _, e := range remote {
		if e.ProductID == "" || seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true
		next = append(next, e)
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}
	s.entries = next
	return added, nil
}

// Reset drops the in-memory wishlist without touching storage.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
