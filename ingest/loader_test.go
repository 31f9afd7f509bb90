package ingest_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattermill/paperdex/ingest"
	"github.com/lattermill/paperdex/paper"
	"github.com/lattermill/paperdex/store"
	"github.com/lattermill/paperdex/store/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecords() []paper.Record {
	return []paper.Record{
		{
			ID:         "2401.00001",
			Title:      "Attention Mechanisms",
			Abstract:   "Attention layers improve transformers. Attention scales well.",
			Categories: []string{"cs.AI"},
			Authors:    []string{"A. Einstein"},
			Published:  "2024-01-01T10:00:00Z",
		},
		{
			ID:         "2401.00002",
			Title:      "Multilingual Models",
			Abstract:   "Multilingual training helps translation across languages.",
			Categories: []string{"cs.AI", "cs.CL"},
			Authors:    []string{"A. Einstein", "M. Curie"},
			Published:  "2024-01-02T10:00:00Z",
		},
	}
}

func TestLoadRecords(t *testing.T) {
	backend := memory.New()
	s := store.New(backend, store.DefaultConfig())
	loader := ingest.NewLoader(s, ingest.WithLogger(discardLogger()))

	report, err := loader.LoadRecords(context.Background(), testRecords())
	require.NoError(t, err)

	require.Equal(t, 2, report.Records)
	require.Equal(t, 2, report.Loaded)
	require.Zero(t, report.Failed)
	require.Equal(t, 2, report.CanonicalItems)
	require.Equal(t, 3, report.CategoryItems)
	require.Equal(t, 3, report.AuthorItems)
	require.Equal(t, report.Items, backend.Len())
	require.Greater(t, report.Factor(), 1.0)
}

func TestLoadRecordsIdempotent(t *testing.T) {
	backend := memory.New()
	s := store.New(backend, store.DefaultConfig())
	loader := ingest.NewLoader(s, ingest.WithLogger(discardLogger()))
	ctx := context.Background()

	first, err := loader.LoadRecords(ctx, testRecords())
	require.NoError(t, err)
	countAfterFirst := backend.Len()

	second, err := loader.LoadRecords(ctx, testRecords())
	require.NoError(t, err)

	require.Equal(t, countAfterFirst, backend.Len(), "re-ingestion must not create duplicates")
	require.Equal(t, first.Loaded, second.Loaded)
	require.Zero(t, second.Failed)
}

func TestLoadRecordsCollectsPerRecordFailures(t *testing.T) {
	backend := memory.New()
	s := store.New(backend, store.DefaultConfig())
	loader := ingest.NewLoader(s, ingest.WithLogger(discardLogger()))

	records := testRecords()
	records = append(records, paper.Record{
		ID:        "bad#id",
		Title:     "Broken",
		Published: "2024-01-03T10:00:00Z",
	})

	report, err := loader.LoadRecords(context.Background(), records)
	require.NoError(t, err, "a malformed record must not abort the batch")
	require.Equal(t, 2, report.Loaded)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	require.Equal(t, "bad#id", report.Errors[0].PaperID)
}

func TestLoadRecordsAbortsOnBackendOutage(t *testing.T) {
	backend := memory.New()
	backend.SetUnavailable(true)
	s := store.New(backend, store.DefaultConfig())
	loader := ingest.NewLoader(s, ingest.WithLogger(discardLogger()))

	_, err := loader.LoadRecords(context.Background(), testRecords())
	require.ErrorIs(t, err, store.ErrBackendUnavailable)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	data := `[
		{
			"arxiv_id": "2401.00001",
			"title": "Attention Mechanisms",
			"abstract": "Attention layers improve transformers.",
			"categories": ["cs.AI"],
			"authors": ["A. Einstein"],
			"published": "2024-01-01T10:00:00Z"
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	backend := memory.New()
	s := store.New(backend, store.DefaultConfig())
	loader := ingest.NewLoader(s, ingest.WithLogger(discardLogger()))

	report, err := loader.LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, report.Loaded)
	require.Equal(t, backend.Len(), report.Items)
}

func TestLoadFileMissing(t *testing.T) {
	s := store.New(memory.New(), store.DefaultConfig())
	loader := ingest.NewLoader(s, ingest.WithLogger(discardLogger()))

	_, err := loader.LoadFile(context.Background(), "/does/not/exist.json")
	require.Error(t, err)
}

func TestLoadFileMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := store.New(memory.New(), store.DefaultConfig())
	loader := ingest.NewLoader(s, ingest.WithLogger(discardLogger()))

	_, err := loader.LoadFile(context.Background(), path)
	require.Error(t, err)
}
