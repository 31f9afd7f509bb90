// Package query maps each supported access pattern to one index plan and one
// store query, with a scan-based fallback when an index is absent.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lattermill/paperdex/internal/keys"
	"github.com/lattermill/paperdex/paper"
	"github.com/lattermill/paperdex/store"
)

// cascadeLimit bounds per-paper row enumeration during removal. A paper
// produces at most 1 + |categories| + |authors| + topN rows.
const cascadeLimit = 1000

// Router resolves the five supported access patterns. Each is a pure mapping
// from parameters to one store call; no query planning happens at runtime.
type Router struct {
	store  *store.Store
	config store.Config
	logger *slog.Logger
}

// NewRouter creates a Router over the store.
func NewRouter(s *store.Store, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		store:  s,
		config: s.Config(),
		logger: logger,
	}
}

// RecentInCategory returns the most recent papers of one category, newest
// first, ties broken by descending id. A limit of zero or less applies the
// configured default.
func (r *Router) RecentInCategory(ctx context.Context, category string, limit int) ([]paper.Summary, error) {
	partition, err := keys.Partition(keys.KindCategory, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
	}
	items, err := r.store.Query(ctx, store.Query{
		Plan:       store.BasePlan,
		Partition:  partition,
		Limit:      r.limitOrDefault(limit),
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	return summaries(items), nil
}

// ByAuthor returns an author's papers in ascending date order. When the
// author index is missing it falls back to a full scan filtered by author
// membership; results are equivalent but the order is not guaranteed.
func (r *Router) ByAuthor(ctx context.Context, author string, limit int) ([]paper.Summary, error) {
	partition, err := keys.Partition(keys.KindAuthor, author)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
	}
	items, err := r.store.Query(ctx, store.Query{
		Plan:      store.AuthorPlan,
		Partition: partition,
		Limit:     r.limitOrDefault(limit),
	})
	if errors.Is(err, store.ErrIndexMissing) {
		r.logger.Warn("author index missing, falling back to scan", "author", author)
		return r.scanFallback(ctx, r.limitOrDefault(limit), func(it store.Item) bool {
			return containsString(it.Authors, author)
		})
	}
	if err != nil {
		return nil, err
	}
	return summaries(items), nil
}

// ByID returns the full record for one paper id, or store.ErrNotFound.
func (r *Router) ByID(ctx context.Context, id string) (*paper.Record, error) {
	partition, err := keys.Partition(keys.KindID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
	}
	item, err := r.store.Get(ctx, store.Key{PK: partition, SK: partition})
	if err != nil {
		return nil, err
	}
	rec := paper.RecordOf(*item)
	return &rec, nil
}

// ByKeyword returns papers matching one extracted keyword, newest first. The
// keyword is lower-cased so lookups are case-insensitive. When the keyword
// index is missing it falls back to a scan over canonical items filtered by
// the extracted keyword set, which keeps both paths answering the same
// question.
func (r *Router) ByKeyword(ctx context.Context, kw string, limit int) ([]paper.Summary, error) {
	normalized := strings.ToLower(strings.TrimSpace(kw))
	partition, err := keys.Partition(keys.KindKeyword, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
	}
	items, err := r.store.Query(ctx, store.Query{
		Plan:       store.KeywordPlan,
		Partition:  partition,
		Limit:      r.limitOrDefault(limit),
		Descending: true,
	})
	if errors.Is(err, store.ErrIndexMissing) {
		r.logger.Warn("keyword index missing, falling back to scan", "keyword", normalized)
		return r.scanFallback(ctx, r.limitOrDefault(limit), func(it store.Item) bool {
			return it.IsCanonical() && containsString(it.Keywords, normalized)
		})
	}
	if err != nil {
		return nil, err
	}
	return summaries(items), nil
}

// DateRange returns the papers of one category published within [start, end]
// inclusive, in ascending date order. Malformed dates are rejected before
// the backend is touched; an inverted range matches nothing.
func (r *Router) DateRange(ctx context.Context, category, start, end string) ([]paper.Summary, error) {
	partition, err := keys.Partition(keys.KindCategory, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
	}
	lo, hi, err := keys.SortRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
	}
	items, err := r.store.Query(ctx, store.Query{
		Plan:      store.BasePlan,
		Partition: partition,
		SortLow:   lo,
		SortHigh:  hi,
		Limit:     r.config.MaxLimit,
	})
	if err != nil {
		return nil, err
	}
	return summaries(items), nil
}

// DeleteByID removes every physical row of one paper: the canonical item,
// its category entries (enumerated via the PaperIndex), and its author and
// keyword entries (which share the paper's base partition). Updates are
// modeled as DeleteByID followed by re-ingestion.
func (r *Router) DeleteByID(ctx context.Context, id string) error {
	partition, err := keys.Partition(keys.KindID, id)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
	}

	rows, err := r.store.Query(ctx, store.Query{
		Plan:      store.BasePlan,
		Partition: partition,
		Limit:     cascadeLimit,
	})
	if err != nil {
		return fmt.Errorf("enumerate base rows: %w", err)
	}
	indexed, err := r.store.Query(ctx, store.Query{
		Plan:      store.PaperPlan,
		Partition: partition,
		Limit:     cascadeLimit,
	})
	if errors.Is(err, store.ErrIndexMissing) {
		// Category entries are reachable only through the PaperIndex, so a
		// partial delete here would leave them orphaned. Enumerate them the
		// slow way instead.
		r.logger.Warn("paper index missing, enumerating rows via scan", "paper", id)
		indexed, err = r.scanRows(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("enumerate index rows: %w", err)
	}

	seen := make(map[store.Key]bool)
	for _, it := range append(rows, indexed...) {
		key := it.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s/%s: %w", key.PK, key.SK, err)
		}
	}
	if len(seen) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// scanRows returns every physical row belonging to one paper via a full
// scan. Safety net for DeleteByID when the PaperIndex is absent.
func (r *Router) scanRows(ctx context.Context, id string) ([]store.Item, error) {
	all, err := r.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	var rows []store.Item
	for _, it := range all {
		if it.PaperID == id {
			rows = append(rows, it)
		}
	}
	return rows, nil
}

// scanFallback filters a full collection scan by predicate, deduplicating to
// one summary per paper. Explicitly slower than an index query; it exists
// only as a correctness safety net.
func (r *Router) scanFallback(ctx context.Context, limit int, match func(store.Item) bool) ([]paper.Summary, error) {
	start := time.Now()
	all, err := r.store.Scan(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var results []paper.Summary
	for _, it := range all {
		if !match(it) || seen[it.PaperID] {
			continue
		}
		seen[it.PaperID] = true
		results = append(results, paper.SummaryOf(it))
		if len(results) >= limit {
			break
		}
	}
	r.logger.Info("scan fallback completed",
		"scanned", len(all),
		"matched", len(results),
		"elapsed", time.Since(start),
	)
	return results, nil
}

func (r *Router) limitOrDefault(limit int) int {
	if limit <= 0 {
		return r.config.DefaultLimit
	}
	if limit > r.config.MaxLimit {
		return r.config.MaxLimit
	}
	return limit
}

func summaries(items []store.Item) []paper.Summary {
	out := make([]paper.Summary, 0, len(items))
	for _, it := range items {
		out = append(out, paper.SummaryOf(it))
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
