package store

import "context"

// Query defines parameters for an ordered range scan over one partition.
type Query struct {
	// Plan selects the index to read from.
	Plan Plan

	// Partition is the exact partition key value.
	Partition string

	// SortLow and SortHigh bound the sort key inclusively. Both empty
	// means the whole partition.
	SortLow  string
	SortHigh string

	// Limit is the maximum number of items to return. Must be positive.
	Limit int

	// Descending reverses the sort-key order.
	Descending bool
}

// Backend is the external ordered key-value collaborator the Store wraps.
// Implementations must honor:
//
//   - Put: insert only if (PK, SK) does not exist, ErrDuplicateKey otherwise
//   - Get: point lookup by base key, ErrNotFound when absent
//   - Query: items of one partition within the sort bound, ordered by sort
//     key, truncated to the limit; ErrIndexMissing when the plan names an
//     index the table does not have
//   - Scan: every item of the base table, unordered contract
//   - Delete: remove by base key, absent keys are a no-op
type Backend interface {
	Put(ctx context.Context, item Item) error
	Get(ctx context.Context, key Key) (*Item, error)
	Query(ctx context.Context, q Query) ([]Item, error)
	Scan(ctx context.Context) ([]Item, error)
	Delete(ctx context.Context, key Key) error
}
