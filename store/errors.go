package store

import (
	"errors"

	"github.com/lattermill/paperdex/internal/keys"
)

var (
	// ErrMalformedKey is returned when a key component is empty or contains
	// the delimiter. Fatal for the single record, never for a batch.
	ErrMalformedKey = keys.ErrMalformedKey

	// ErrNotFound is returned when a point lookup finds no item.
	ErrNotFound = errors.New("paperdex: item not found")

	// ErrDuplicateKey is reported by backends when a put collides with an
	// existing (partition, sort) pair. Store.Put absorbs it silently.
	ErrDuplicateKey = errors.New("paperdex: duplicate key")

	// ErrInvalidArgument is returned for a bad limit or date range, before
	// the backend is touched.
	ErrInvalidArgument = errors.New("paperdex: invalid argument")

	// ErrIndexMissing is reported by backends when a query names an index
	// the table does not have. The router falls back to a scan.
	ErrIndexMissing = errors.New("paperdex: index missing")

	// ErrBackendUnavailable is returned when the backend cannot be reached.
	ErrBackendUnavailable = errors.New("paperdex: backend unavailable")
)
