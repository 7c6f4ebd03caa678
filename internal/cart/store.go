// Package cart holds the shopping cart of the current device.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/outbox"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("product id is required")
	ErrLineNotFound    = errors.New("cart line not found")
)

// SlotStore is the persistence the cart needs.
type SlotStore interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
}

type Publisher interface {
	Publish(e outbox.Event) bool
}

// TokenSource returns the session token, or "" when nobody is signed in.
type TokenSource func() string

// Store is a write-through cart: every mutation is persisted before it is
// applied in memory, so a failed write leaves the cart as it was.
type Store struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	storage SlotStore
	events  Publisher
	token   TokenSource
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore loads the persisted cart. A missing or unreadable slot yields an
// empty cart.
func NewStore(ctx context.Context, store SlotStore, events Publisher, token TokenSource, logger *zap.Logger) *Store {
	if token == nil {
		token = func() string { return "" }
	}
	s := &Store{
		storage: store,
		events:  events,
		token:   token,
		logger:  logger.With(zap.String("component", "cart")),
		now:     time.Now,
	}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.CartLine {
	data, err := s.storage.Get(ctx, storage.SlotCart)
	if errors.Is(err, storage.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to read cart slot, starting empty", zap.Error(err))
		return nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logger.Warn("corrupted cart slot, starting empty", zap.Error(err))
		return nil
	}
	return sanitize(lines)
}

// sanitize restores the one-line-per-key invariant on data read from disk.
func sanitize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	index := make(map[domain.LineKey]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			continue
		}
		if l.Variant == "" {
			l.Variant = domain.DefaultVariant
		}
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		if i, ok := index[l.Key()]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.Key()] = len(out)
		out = append(out, l)
	}
	return out
}

func (s *Store) persist(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.storage.Set(ctx, storage.SlotCart, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *Store) snapshot() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) find(lines []domain.CartLine, key domain.LineKey) int {
	for i, l := range lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// AddItem adds quantity units of the product's variant. An existing line for
// the same variant is incremented; its snapshotted price is kept.
func (s *Store) AddItem(ctx context.Context, p domain.Product, quantity int, variant string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.ID == "" {
		return ErrInvalidProduct
	}
	if variant == "" {
		variant = domain.DefaultVariant
	}

	s.mu.Lock()
	next := s.snapshot()
	key := domain.LineKey{ProductID: p.ID, Variant: variant}
	if i := s.find(next, key); i >= 0 {
		next[i].Quantity += quantity
	} else {
		now := s.now().UTC()
		next = append(next, domain.CartLine{
			ProductID:   p.ID,
			Variant:     variant,
			Quantity:    quantity,
			UnitPrice:   p.PriceFor(variant),
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Image:       p.Image,
			Category:    p.Category,
			AddedAt:     &now,
		})
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.lines = next
	s.mu.Unlock()

	s.notify(outbox.KindCartAdd, p.ID)
	return nil
}

// RemoveItem deletes the line. It reports false when there was no such line.
func (s *Store) RemoveItem(ctx context.Context, productID, variant string) (bool, error) {
	if variant == "" {
		variant = domain.DefaultVariant
	}

	s.mu.Lock()
	i := s.find(s.lines, domain.LineKey{ProductID: productID, Variant: variant})
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := make([]domain.CartLine, 0, len(s.lines)-1)
	next = append(next, s.lines[:i]...)
	next = append(next, s.lines[i+1:]...)
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.lines = next
	s.mu.Unlock()

	s.notify(outbox.KindCartRemove, productID)
	return true, nil
}

// UpdateQuantity sets the line's quantity. Values below 1 are rejected and
// leave the cart unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variant string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if variant == "" {
		variant = domain.DefaultVariant
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	i := s.find(next, domain.LineKey{ProductID: productID, Variant: variant})
	if i < 0 {
		return ErrLineNotFound
	}
	if next[i].Quantity == quantity {
		return nil
	}
	next[i].Quantity = quantity
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.lines = next
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, nil); err != nil {
		return err
	}
	s.lines = nil
	return nil
}

// Reset drops the in-memory cart without touching storage.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// MergeRemoteHistory adds remote lines whose (product, variant) is not in the
// cart yet. Local lines always win. It returns the number of lines added.
func (s *Store) MergeRemoteHistory(ctx context.Context, remote []domain.CartLine) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	seen := make(map[domain.LineKey]bool, len(next)+len(remote))
	for _, l := range next {
		seen[l.Key()] = true
	}

	added := 0
	for _, l := range remote {
		if l.ProductID == "" {
			continue
		}
		if l.Variant == "" {
			l.Variant = domain.DefaultVariant
		}
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		if seen[l.Key()] {
			continue
		}
		seen[l.Key()] = true
		next = append(next, l)
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}
	s.lines = next
	return added, nil
}

func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Total is the sum of price times quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count is the number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) notify(kind outbox.Kind, productID string) {
	if s.events == nil {
		return
	}
	token := s.token()
	if token == "" {
		return
	}
	s.events.Publish(outbox.NewEvent(kind, token, productID))
}
