package docsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultKeyPrefix = "docsearch:doc:"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "", "valkey" or "redis"
	addrs     []string
	password  string
	keyPrefix string

	cacheSize int
	queueSize int
	defaults  *SearchOptions
	now       func() time.Time

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures Sync to read documents from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures Sync to read documents from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the key prefix Sync scans. Default: "docsearch:doc:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCacheSize sets the number of cached search results. Default: 100.
func WithCacheSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = n
	})
}

// WithQueueSize sets how many requests may wait for the engine. Default: 64.
func WithQueueSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.queueSize = n
	})
}

// WithSearchDefaults replaces the built-in defaults that searches start from.
func WithSearchDefaults(o SearchOptions) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaults = &o
	})
}

// WithClock sets the time source used for indexing timestamps and recency.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client and engine metrics on the given
// registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
