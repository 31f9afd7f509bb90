package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Store wraps an ordered key-value backend with the write and read semantics
// of the paper collection: no-overwrite inserts and validated range queries.
type Store struct {
	backend Backend
	config  Config
	logger  *slog.Logger
}

// New creates a new Store instance.
func New(backend Backend, config Config) *Store {
	return NewWithLogger(backend, config, nil)
}

// NewWithLogger creates a new Store instance with a logger.
func NewWithLogger(backend Backend, config Config, logger *slog.Logger) *Store {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		config:  config,
		logger:  logger,
	}
}

// Config returns the store configuration after default normalization.
func (s *Store) Config() Config {
	return s.config
}

// Put inserts an item unless its (PK, SK) already exists, in which case it is
// a silent no-op. This makes loads safe to re-run: re-ingesting an identical
// record writes a byte-identical item set and every collision is absorbed.
func (s *Store) Put(ctx context.Context, item Item) error {
	if item.PK == "" || item.SK == "" {
		return fmt.Errorf("%w: empty key on item for paper %q", ErrMalformedKey, item.PaperID)
	}
	err := s.backend.Put(ctx, item)
	if errors.Is(err, ErrDuplicateKey) {
		s.logger.Debug("duplicate key absorbed", "pk", item.PK, "sk", item.SK)
		return nil
	}
	return err
}

// Get retrieves an item by base key, returning ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, key Key) (*Item, error) {
	return s.backend.Get(ctx, key)
}

// Query returns items of one partition within an optional sort-key bound,
// ordered by sort key, truncated to the limit. A limit of zero or less is an
// ErrInvalidArgument, rejected before the backend is touched.
func (s *Store) Query(ctx context.Context, q Query) ([]Item, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, q.Limit)
	}
	if q.Limit > s.config.MaxLimit {
		q.Limit = s.config.MaxLimit
	}
	if q.Partition == "" {
		return nil, fmt.Errorf("%w: empty partition key", ErrInvalidArgument)
	}
	return s.backend.Query(ctx, q)
}

// Scan returns every item of the base table. It is the slow correctness
// safety net behind the router's index fallback, never the primary path.
func (s *Store) Scan(ctx context.Context) ([]Item, error) {
	return s.backend.Scan(ctx)
}

// Delete removes an item by base key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key Key) error {
	return s.backend.Delete(ctx, key)
}
