// Package catalog serves products, categories and brands from the backend
// with a short-lived cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/taxonomy"
)

var ErrProductNotFound = errors.New("product not found")

// Source is the part of the backend client the catalog reads from.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Brands(ctx context.Context) ([]domain.Brand, error)
}

type Filter struct {
	Category string
	Query    string
}

type cached struct {
	value     interface{}
	fetchedAt time.Time
}

type Catalog struct {
	src    Source
	ttl    time.Duration
	sfg    singleflight.Group // one backend fetch per key at a time
	mu     sync.Mutex
	cache  map[string]cached
	logger *zap.Logger
	now    func() time.Time
}

// New builds a catalog. A ttl of zero disables caching.
func New(src Source, ttl time.Duration, logger *zap.Logger) *Catalog {
	return &Catalog{
		src:    src,
		ttl:    ttl,
		cache:  make(map[string]cached),
		logger: logger.With(zap.String("component", "catalog")),
		now:    time.Now,
	}
}

// load returns the cached value for key or fetches it. On fetch failure a
// stale value is served if there is one; otherwise the fetch error is returned.
func (c *Catalog) load(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	entry, ok := c.cache[key]
	c.mu.Unlock()
	if ok && c.ttl > 0 && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.value, nil
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[key] = cached{value: v, fetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		if ok {
			c.logger.Warn("serving stale data", zap.String("key", key), zap.Error(err))
			return entry.value, nil
		}
		c.logger.Warn("failed to load from backend", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return v, nil
}

func (c *Catalog) allProducts(ctx context.Context) ([]domain.Product, error) {
	v, err := c.load(ctx, "products", func(ctx context.Context) (interface{}, error) {
		return c.src.Products(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Products lists products matching f with storefront imagery applied.
// Backend failures yield an empty list.
func (c *Catalog) Products(ctx context.Context, f Filter) []domain.Product {
	all, _ := c.allProducts(ctx)
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if f.Category != "" && !taxonomy.MatchesFilter(f.Category, p) {
			continue
		}
		p.Image = taxonomy.ProductImage(p.Category, p.Name, p.DisplayName, p.Image)
		out = append(out, p)
	}
	return out
}

// Product finds a product by id. It returns ErrProductNotFound when the
// catalog loaded but has no such product, and the backend error when the
// catalog could not be loaded at all.
func (c *Catalog) Product(ctx context.Context, id string) (domain.Product, error) {
	all, err := c.allProducts(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range all {
		if p.ID == id {
			p.Image = taxonomy.ProductImage(p.Category, p.Name, p.DisplayName, p.Image)
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

// Categories returns the backend categories renamed and decorated for display.
func (c *Catalog) Categories(ctx context.Context) []domain.Category {
	v, err := c.load(ctx, "categories", func(ctx context.Context) (interface{}, error) {
		return c.src.Categories(ctx)
	})
	if err != nil {
		return nil
	}
	raw := v.([]domain.Category)

	out := make([]domain.Category, 0, len(raw))
	for _, cat := range raw {
		res := taxonomy.Normalize(cat.Name)
		cat.Name = taxonomy.DisplayName(cat.Name)
		cat.Image = res.Image
		cat.Color = res.Color
		out = append(out, cat)
	}
	return out
}

// Nav returns the header menu built from the backend categories.
func (c *Catalog) Nav(ctx context.Context) []taxonomy.NavItem {
	cats := c.Categories(ctx)
	names := make([]string, 0, len(cats))
	for _, cat := range cats {
		names = append(names, cat.Name)
	}
	return taxonomy.NavOrder(names)
}

func (c *Catalog) Brands(ctx context.Context) []domain.Brand {
	v, err := c.load(ctx, "brands", func(ctx context.Context) (interface{}, error) {
		return c.src.Brands(ctx)
	})
	if err != nil {
		return nil
	}
	return v.([]domain.Brand)
}

type Home struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
	Brands     []domain.Brand    `json:"brands"`
}

// Home loads everything the landing page needs in parallel.
func (c *Catalog) Home(ctx context.Context) Home {
	var h Home
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.Categories = c.Categories(ctx)
		return nil
	})
	g.Go(func() error {
		h.Products = c.Products(ctx, Filter{})
		return nil
	})
	g.Go(func() error {
		h.Brands = c.Brands(ctx)
		return nil
	})
	_ = g.Wait()
	return h
}

// Invalidate drops every cached response.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cached)
}
