// Package http exposes the application context as a local JSON API for a
// web front end.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/app"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

type Services struct {
	Cart       CartService
	Wishlist   WishlistService
	Session    SessionService
	Catalog    CatalogService
	Checkout   CheckoutService
	Tracker    OrderTracker
	History    OrderHistory
	Newsletter Newsletter
}

// ServicesFrom picks the gateway's dependencies out of the application context.
func ServicesFrom(a *app.App) Services {
	return Services{
		Cart:       a.Cart,
		Wishlist:   a.Wishlist,
		Session:    a.Session,
		Catalog:    a.Catalog,
		Checkout:   a.Checkout,
		Tracker:    a.Tracker,
		History:    a.History,
		Newsletter: a.Backend,
	}
}

func NewRouter(s Services, cfg RouterConfig, logger *zap.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = 1 << 20
	}
	logger = logger.With(zap.String("component", "gateway"))

	cartHandler := NewCartHandler(s.Cart, s.Catalog, cfg.RequestTimeout, logger)
	wishlistHandler := NewWishlistHandler(s.Wishlist, cfg.RequestTimeout, logger)
	sessionHandler := NewSessionHandler(s.Session, cfg.RequestTimeout, logger)
	catalogHandler := NewCatalogHandler(s.Catalog, cfg.RequestTimeout, logger)
	ordersHandler := NewOrdersHandler(s.Checkout, s.Tracker, s.History, cfg.RequestTimeout, logger)
	newsletterHandler := NewNewsletterHandler(s.Newsletter, cfg.RequestTimeout, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		responder{logger: logger}.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Put("/{product_id}", wishlistHandler.AddItem)
			r.Delete("/{product_id}", wishlistHandler.RemoveItem)
		})
		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.With(RequireSession(s.Session, logger)).Patch("/", sessionHandler.UpdateProfile)
			r.Post("/login", sessionHandler.Login)
			r.Post("/register", sessionHandler.Register)
			r.Post("/logout", sessionHandler.Logout)
		})
		r.Get("/taxonomy/normalize", catalogHandler.Normalize)
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/home", catalogHandler.Home)
			r.Get("/nav", catalogHandler.Nav)
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{product_id}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.ListCategories)
		})
		r.With(RequireSession(s.Session, logger)).Post("/checkout", ordersHandler.Checkout)
		r.With(RequireSession(s.Session, logger)).Get("/orders", ordersHandler.ListOrders)
		r.Get("/orders/{order_id}/tracking", ordersHandler.Track)
		r.Post("/subscribe", newsletterHandler.Subscribe)
	})

	return otelhttp.NewHandler(r, "storefront-gateway")
}

type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(port string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
