// Package storage persists the storefront's local slots (cart, wishlist and
// the session scalars) so they survive restarts.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Slot names. Values are JSON-serialized strings.
const (
	SlotCart            = "cart"
	SlotWishlist        = "wishlist"
	SlotAuthToken       = "authToken"
	SlotUserEmail       = "userEmail"
	SlotUserName        = "userName"
	SlotUserFullName    = "userFullName"
	SlotProfileComplete = "profileComplete"
)

// IdentitySlots are removed together on logout.
var IdentitySlots = []string{
	SlotAuthToken,
	SlotUserEmail,
	SlotUserName,
	SlotUserFullName,
	SlotProfileComplete,
}

var ErrSlotNotFound = errors.New("slot not found")

// Storage is a namespaced key/value store for slots.
// Consumers define narrower interfaces where they need less.
type Storage interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
	Delete(ctx context.Context, slots ...string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

type Options struct {
	Driver    string
	Namespace string

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string
}

// Open connects the configured driver.
func Open(ctx context.Context, opts Options) (Storage, error) {
	ns := opts.Namespace
	if ns == "" {
		ns = "default"
	}

	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStorage(ns), nil
	case DriverSQLite, "":
		return OpenSQLite(ctx, opts.SQLitePath, ns)
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, ns)
	case DriverMongo:
		return OpenMongo(ctx, opts.MongoURI, opts.MongoDatabase, ns)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
