// Package config loads the storefront configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Outbox   OutboxConfig   `yaml:"outbox"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Checkout CheckoutConfig `yaml:"checkout"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type APIConfig struct {
	BaseURL         string `yaml:"base_url"`
	Timeout         string `yaml:"timeout"`
	BreakerFailures uint32 `yaml:"breaker_failures"`
	BreakerCooldown string `yaml:"breaker_cooldown"`
}

type StorageConfig struct {
	Driver     string      `yaml:"driver"` // memory, sqlite, redis, mongo
	Namespace  string      `yaml:"namespace"`
	SQLitePath string      `yaml:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis"`
	Mongo      MongoConfig `yaml:"mongo"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type OutboxConfig struct {
	Capacity        int         `yaml:"capacity"`
	DeliveryTimeout string      `yaml:"delivery_timeout"`
	Kafka           KafkaConfig `yaml:"kafka"`
}

// KafkaConfig enables the activity stream when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type CatalogConfig struct {
	CacheTTL string `yaml:"cache_ttl"`
}

type CheckoutConfig struct {
	WhatsAppNumber string `yaml:"whatsapp_number"`
}

type HTTPConfig struct {
	Port               string `yaml:"port"`
	RequestTimeout     string `yaml:"request_timeout"`
	ShutdownTimeout    string `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64  `yaml:"max_request_body_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8000/api",
			Timeout:         "15s",
			BreakerFailures: 5,
			BreakerCooldown: "30s",
		},
		Storage: StorageConfig{
			Driver:     storage.DriverSQLite,
			Namespace:  "default",
			SQLitePath: "data/storefront.db",
			Redis:      RedisConfig{Addr: "localhost:6379"},
			Mongo:      MongoConfig{URI: "mongodb://localhost:27017", Database: "storefront"},
		},
		Outbox: OutboxConfig{
			Capacity:        256,
			DeliveryTimeout: "5s",
			Kafka:           KafkaConfig{Topic: "storefront-activity"},
		},
		Catalog: CatalogConfig{CacheTTL: "5m"},
		Checkout: CheckoutConfig{
			WhatsAppNumber: "918778699084",
		},
		HTTP: HTTPConfig{
			Port:               "8080",
			RequestTimeout:     "30s",
			ShutdownTimeout:    "10s",
			MaxRequestBodySize: 1 << 20, // 1MB
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	setString(&c.API.BaseURL, "STOREFRONT_API_URL")
	setString(&c.Storage.Driver, "STOREFRONT_STORAGE_DRIVER")
	setString(&c.Storage.Namespace, "STOREFRONT_NAMESPACE")
	setString(&c.Storage.SQLitePath, "STOREFRONT_DB_PATH")
	setString(&c.Storage.Redis.Addr, "REDIS_ADDR")
	setString(&c.Storage.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Storage.Redis.DB = db
		}
	}
	setString(&c.Storage.Mongo.URI, "MONGO_URI")
	setString(&c.Storage.Mongo.Database, "MONGO_DB_NAME")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Outbox.Kafka.Brokers = splitList(v)
	}
	setString(&c.Outbox.Kafka.Topic, "KAFKA_TOPIC")
	setString(&c.HTTP.Port, "HTTP_PORT")
	setString(&c.Logging.Level, "STOREFRONT_LOG_LEVEL")
	setString(&c.Checkout.WhatsAppNumber, "WHATSAPP_NUMBER")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validDrivers = []string{storage.DriverMemory, storage.DriverSQLite, storage.DriverRedis, storage.DriverMongo}

func (c *Config) Validate() error {
	valid := false
	for _, d := range validDrivers {
		if c.Storage.Driver == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, validDrivers)
	}
	if c.Outbox.Capacity <= 0 {
		return fmt.Errorf("outbox capacity must be positive, got %d", c.Outbox.Capacity)
	}
	if c.HTTP.MaxRequestBodySize <= 0 {
		return fmt.Errorf("max request body size must be positive, got %d", c.HTTP.MaxRequestBodySize)
	}
	if c.API.BaseURL == "" {
		return errors.New("api base url is required")
	}
	for name, d := range map[string]string{
		"api.timeout":             c.API.Timeout,
		"api.breaker_cooldown":    c.API.BreakerCooldown,
		"outbox.delivery_timeout": c.Outbox.DeliveryTimeout,
		"catalog.cache_ttl":       c.Catalog.CacheTTL,
		"http.request_timeout":    c.HTTP.RequestTimeout,
		"http.shutdown_timeout":   c.HTTP.ShutdownTimeout,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	return nil
}

// StorageOptions maps the storage section onto storage.Open's options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:        c.Storage.Driver,
		Namespace:     c.Storage.Namespace,
		SQLitePath:    c.Storage.SQLitePath,
		RedisAddr:     c.Storage.Redis.Addr,
		RedisPassword: c.Storage.Redis.Password,
		RedisDB:       c.Storage.Redis.DB,
		MongoURI:      c.Storage.Mongo.URI,
		MongoDatabase: c.Storage.Mongo.Database,
	}
}

func (c *Config) APITimeout() time.Duration { return parseDuration(c.API.Timeout, 15*time.Second) }
func (c *Config) BreakerCooldown() time.Duration {
	return parseDuration(c.API.BreakerCooldown, 30*time.Second)
}
func (c *Config) DeliveryTimeout() time.Duration {
	return parseDuration(c.Outbox.DeliveryTimeout, 5*time.Second)
}
func (c *Config) CatalogCacheTTL() time.Duration {
	return parseDuration(c.Catalog.CacheTTL, 5*time.Minute)
}
func (c *Config) RequestTimeout() time.Duration {
	return parseDuration(c.HTTP.RequestTimeout, 30*time.Second)
}
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.HTTP.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
