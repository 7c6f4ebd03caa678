// Package app wires the storefront components into one application context
// shared by the CLI and the HTTP gateway.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/backend"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/cart"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/catalog"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/checkout"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/config"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/outbox"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/session"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/tracking"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/wishlist"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Storage  storage.Storage
	Backend  *backend.Client
	Outbox   *outbox.Queue
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Session  *session.Gate
	Catalog  *catalog.Catalog
	Checkout *checkout.Service
	Tracker  *tracking.Tracker
	History  *tracking.History

	kafka      *outbox.KafkaSink
	stopWorker context.CancelFunc
}

// New opens storage, builds every component and starts the outbox worker.
// Call Restore to pick up a persisted session.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	client := backend.New(backend.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.APITimeout(),
		BreakerFailures: cfg.API.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown(),
	}, logger)

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Storage: store,
		Backend: client,
	}

	var sink outbox.Sink = outbox.NewBackendSink(client)
	if len(cfg.Outbox.Kafka.Brokers) > 0 {
		a.kafka = outbox.NewKafkaSink(cfg.Outbox.Kafka.Topic, cfg.Outbox.Kafka.Brokers...)
		sink = outbox.MultiSink{sink, a.kafka}
		logger.Info("activity stream enabled",
			zap.Strings("brokers", cfg.Outbox.Kafka.Brokers),
			zap.String("topic", cfg.Outbox.Kafka.Topic))
	}
	a.Outbox = outbox.NewQueue(sink, cfg.Outbox.Capacity, cfg.DeliveryTimeout(), logger)

	// The cart reads the token lazily; the gate is built after it.
	a.Cart = cart.NewStore(ctx, store, a.Outbox, func() string { return a.Session.Token() }, logger)
	a.Wishlist = wishlist.NewStore(ctx, store, logger)
	a.Session = session.NewGate(store, client, a.Cart, a.Wishlist, a.Outbox, logger)
	a.Catalog = catalog.New(client, cfg.CatalogCacheTTL(), logger)
	a.Checkout = checkout.New(a.Cart, a.Session, client, cfg.Checkout.WhatsAppNumber, logger)
	a.Tracker = tracking.NewTracker(client)
	a.History = tracking.NewHistory(client, a.Session)

	workerCtx, cancel := context.WithCancel(context.Background())
	a.stopWorker = cancel
	go a.Outbox.Run(workerCtx)

	return a, nil
}

// Restore rehydrates a persisted session. It reports whether one was found.
func (a *App) Restore(ctx context.Context) bool {
	return a.Session.Restore(ctx)
}

// Close flushes queued events until ctx expires, then releases storage and
// the kafka writer.
func (a *App) Close(ctx context.Context) error {
	a.Outbox.Close()
	select {
	case <-a.Outbox.Done():
	case <-ctx.Done():
		a.Logger.Warn("outbox flush interrupted", zap.Int("pending", a.Outbox.Len()))
		a.stopWorker()
		<-a.Outbox.Done()
	}
	a.stopWorker()

	var errs []error
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close kafka writer: %w", err))
		}
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	return errors.Join(errs...)
}
