// Package memory provides an in-memory Backend for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lattermill/paperdex/store"
)

// Backend implements store.Backend over a mutex-guarded map. Indexes can be
// disabled to exercise the router's scan fallback, and the whole backend can
// be marked unavailable to exercise error propagation.
type Backend struct {
	mu          sync.RWMutex
	items       map[store.Key]store.Item
	disabled    map[string]bool
	unavailable bool
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{
		items:    make(map[store.Key]store.Item),
		disabled: make(map[string]bool),
	}
}

// DisableIndex makes queries against the named index report
// store.ErrIndexMissing, simulating a table created without it.
func (b *Backend) DisableIndex(indexName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disabled[indexName] = true
}

// EnableIndex re-enables a previously disabled index.
func (b *Backend) EnableIndex(indexName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.disabled, indexName)
}

// SetUnavailable toggles simulated backend outage.
func (b *Backend) SetUnavailable(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unavailable = v
}

// Len returns the number of stored items.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Put inserts the item unless its key already exists.
func (b *Backend) Put(_ context.Context, item store.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unavailable {
		return store.ErrBackendUnavailable
	}
	key := item.Key()
	if _, exists := b.items[key]; exists {
		return store.ErrDuplicateKey
	}
	b.items[key] = item
	return nil
}

// Get returns the item at key, or store.ErrNotFound.
func (b *Backend) Get(_ context.Context, key store.Key) (*store.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.unavailable {
		return nil, store.ErrBackendUnavailable
	}
	item, ok := b.items[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

// Query returns the items of one partition within the sort bound, ordered by
// sort key.
func (b *Backend) Query(_ context.Context, q store.Query) ([]store.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.unavailable {
		return nil, store.ErrBackendUnavailable
	}
	if q.Plan.IndexName != "" && b.disabled[q.Plan.IndexName] {
		return nil, store.ErrIndexMissing
	}

	var matched []store.Item
	for _, item := range b.items {
		partition, sortKey := q.Plan.Keys(item)
		if partition != q.Partition {
			continue
		}
		if q.SortLow != "" && sortKey < q.SortLow {
			continue
		}
		if q.SortHigh != "" && sortKey > q.SortHigh {
			continue
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(i, j int) bool {
		_, si := q.Plan.Keys(matched[i])
		_, sj := q.Plan.Keys(matched[j])
		if q.Descending {
			return si > sj
		}
		return si < sj
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Scan returns every item, ordered by base key for determinism.
func (b *Backend) Scan(_ context.Context) ([]store.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.unavailable {
		return nil, store.ErrBackendUnavailable
	}

	all := make([]store.Item, 0, len(b.items))
	for _, item := range b.items {
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].PK == all[j].PK {
			return all[i].SK < all[j].SK
		}
		return all[i].PK < all[j].PK
	})
	return all, nil
}

// Delete removes the item at key; absent keys are a no-op.
func (b *Backend) Delete(_ context.Context, key store.Key) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unavailable {
		return store.ErrBackendUnavailable
	}
	delete(b.items, key)
	return nil
}
