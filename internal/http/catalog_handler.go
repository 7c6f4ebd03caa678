package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/catalog"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/taxonomy"
)

type CatalogService interface {
	Products(ctx context.Context, f catalog.Filter) []domain.Product
	Product(ctx context.Context, id string) (domain.Product, error)
	Categories(ctx context.Context) []domain.Category
	Nav(ctx context.Context) []taxonomy.NavItem
	Home(ctx context.Context) catalog.Home
}

type CatalogHandler struct {
	responder
	catalog CatalogService
	timeout time.Duration
}

func NewCatalogHandler(c CatalogService, timeout time.Duration, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		responder: responder{logger: logger},
		catalog:   c,
		timeout:   timeout,
	}
}

type ProductDetailResponse struct {
	Product  domain.Product           `json:"product"`
	Variants []catalog.Variant        `json:"variants"`
	Details  taxonomy.CategoryDetails `json:"category"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	products := h.catalog.Products(ctx, catalog.Filter{Category: q.Get("category"), Query: q.Get("q")})
	if products == nil {
		products = []domain.Product{}
	}
	h.respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.Product(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, ProductDetailResponse{
		Product:  p,
		Variants: catalog.Variants(p),
		Details:  taxonomy.Details(p.Category),
	})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cats := h.catalog.Categories(ctx)
	if cats == nil {
		cats = []domain.Category{}
	}
	h.respondJSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) Nav(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.respondJSON(w, http.StatusOK, h.catalog.Nav(ctx))
}

func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.respondJSON(w, http.StatusOK, h.catalog.Home(ctx))
}

// Normalize resolves a raw category name to its canonical form.
func (h *CatalogHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	h.respondJSON(w, http.StatusOK, taxonomy.Normalize(name))
}
