// Package cache provides short-lived memoization of model results.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DefaultTTL is how long an entry stays valid after insertion
	DefaultTTL = 300 * time.Second
	// DefaultSweepThreshold is the entry count above which a Put sweeps expired entries
	DefaultSweepThreshold = 100
)

// Store is a key/value cache with time-based expiry.
// Implementations must be safe for concurrent use.
type Store[V any] interface {
	// Get returns the value for key if present and not expired.
	Get(ctx context.Context, key string) (V, bool)
	// Put stores value under key, replacing any previous entry.
	Put(ctx context.Context, key string, value V)
}

// Key derives a deterministic cache key from an operation name and its arguments.
// Arguments are serialised as JSON, so map keys are ordered and map-like arguments
// hash the same regardless of insertion order.
func Key(operation string, args any) (string, error) {
	payload := struct {
		Op   string `json:"op"`
		Args any    `json:"args"`
	}{Op: operation, Args: args}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialise cache key for %s: %w", operation, err)
	}
	sum := sha256.Sum256(data)
	return operation + ":" + hex.EncodeToString(sum[:]), nil
}

// Noop never stores anything.
type Noop[V any] struct{}

// Get always misses.
func (Noop[V]) Get(context.Context, string) (V, bool) {
	var zero V
	return zero, false
}

// Put discards the value.
func (Noop[V]) Put(context.Context, string, V) {}
