// Package persistence mirrors in-memory state into a KeyValueStore: a JSON
// codec per key, a bounded backup ring, and debounced persisters.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/shiftlog/internal/ports/secondary"
)

// Codec reads and writes one JSON document type under string keys.
type Codec[T any] struct {
	store  secondary.KeyValueStore
	seed   func() T
	logger *zap.Logger
}

// NewCodec creates a codec. seed returns the value decoded JSON is merged
// into, so keys absent from the stored document keep their seeded values.
// A nil seed uses the zero value.
func NewCodec[T any](store secondary.KeyValueStore, seed func() T, logger *zap.Logger) *Codec[T] {
	if seed == nil {
		seed = func() T {
			var zero T
			return zero
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec[T]{store: store, seed: seed, logger: logger}
}

// Read returns the decoded value under key. The second result is false when
// the key is missing, the store fails, or the document does not parse.
func (c *Codec[T]) Read(ctx context.Context, key string) (T, bool) {
	var zero T

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, secondary.ErrKeyNotFound) {
			c.logger.Warn("store read failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, false
	}

	v := c.seed()
	if err := json.Unmarshal(trimmed, &v); err != nil {
		c.logger.Warn("stored document is malformed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

// Write encodes v and replaces the value under key.
func (c *Codec[T]) Write(ctx context.Context, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
