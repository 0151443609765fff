package db

import (
	"context"
	"time"
)

// Store is the document source facade combining the sub-interfaces.
type Store interface {
	Pinger
	KVReader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVReader reads string values and enumerates keys.
type KVReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns one entry per key; missing keys yield nil entries.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}
