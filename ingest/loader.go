// Package ingest loads paper records into the store in batches.
//
// Ingestion is a scoped maintenance operation: it runs to completion before
// queries against the batch are considered valid, and no isolation is
// provided for readers observing a partially-loaded batch.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lattermill/paperdex/paper"
	"github.com/lattermill/paperdex/store"
)

// Loader expands records and writes their item sets to the store. Expansion
// is pure and runs concurrently per record; the resulting puts are
// commutative, so no ordering is needed between records.
type Loader struct {
	store       *store.Store
	topN        int
	concurrency int
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds the number of records processed in parallel.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader. The keyword cap comes from the store config.
func NewLoader(s *store.Store, opts ...Option) *Loader {
	l := &Loader{
		store:       s,
		topN:        s.Config().TopKeywords,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile parses a JSON array of records from path and loads it.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []paper.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return l.LoadRecords(ctx, records)
}

// LoadRecords expands and stores every record. Per-record failures are
// collected into the report instead of aborting the batch; only backend
// errors that would fail every remaining put abort the load.
func (l *Loader) LoadRecords(ctx context.Context, records []paper.Record) (*Report, error) {
	batchID := uuid.New().String()[:8]
	l.logger.Info("starting batch load", "batch", batchID, "records", len(records))

	report := NewReport(len(records))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			items, err := paper.Expand(rec, l.topN)
			if err != nil {
				mu.Lock()
				report.recordFailure(rec.ID, err)
				mu.Unlock()
				l.logger.Warn("record rejected", "batch", batchID, "paper", rec.ID, "error", err)
				return nil
			}
			for _, it := range items {
				if err := l.store.Put(ctx, it); err != nil {
					return fmt.Errorf("put %s/%s: %w", it.PK, it.SK, err)
				}
			}
			mu.Lock()
			report.recordSuccess(items)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	l.logger.Info("batch load completed",
		"batch", batchID,
		"loaded", report.Loaded,
		"failed", report.Failed,
		"items", report.Items,
		"denormalizationFactor", fmt.Sprintf("%.1f", report.Factor()),
	)
	return report, nil
}
