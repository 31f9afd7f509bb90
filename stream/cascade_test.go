package stream_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lattermill/paperdex/paper"
	"github.com/lattermill/paperdex/query"
	"github.com/lattermill/paperdex/store"
	"github.com/lattermill/paperdex/store/memory"
	"github.com/lattermill/paperdex/stream"
)

func removalEvent(pk, sk string) events.DynamoDBEvent {
	return events.DynamoDBEvent{
		Records: []events.DynamoDBEventRecord{
			{
				EventID:   "evt-1",
				EventName: "REMOVE",
				Change: events.DynamoDBStreamRecord{
					Keys: map[string]events.DynamoDBAttributeValue{
						"PK": events.NewStringAttribute(pk),
						"SK": events.NewStringAttribute(sk),
					},
				},
			},
		},
	}
}

func setup(t *testing.T) (*stream.Handler, *memory.Backend, *store.Store) {
	t.Helper()
	backend := memory.New()
	s := store.New(backend, store.DefaultConfig())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := query.NewRouter(s, log)

	rec := paper.Record{
		ID:         "2401.00001",
		Title:      "Attention Mechanisms",
		Abstract:   "Attention layers improve transformers.",
		Categories: []string{"cs.AI", "cs.CL"},
		Authors:    []string{"A. Einstein"},
		Published:  "2024-01-01T10:00:00Z",
	}
	items, err := paper.Expand(rec, 10)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	for _, it := range items {
		if err := s.Put(context.Background(), it); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	return stream.NewHandler(router, log), backend, s
}

func TestCascadeRemovesDerivedEntries(t *testing.T) {
	h, backend, s := setup(t)
	ctx := context.Background()

	// The caller deletes only the canonical item; the stream event fans out.
	if err := s.Delete(ctx, store.Key{PK: "ID#2401.00001", SK: "ID#2401.00001"}); err != nil {
		t.Fatalf("delete canonical: %v", err)
	}
	if err := h.HandleRecordRemoval(ctx, removalEvent("ID#2401.00001", "ID#2401.00001")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if backend.Len() != 0 {
		all, _ := s.Scan(ctx)
		t.Fatalf("expected no leftover entries, got %d: %+v", backend.Len(), all)
	}
}

func TestCascadeIsIdempotent(t *testing.T) {
	h, _, s := setup(t)
	ctx := context.Background()

	if err := s.Delete(ctx, store.Key{PK: "ID#2401.00001", SK: "ID#2401.00001"}); err != nil {
		t.Fatalf("delete canonical: %v", err)
	}
	event := removalEvent("ID#2401.00001", "ID#2401.00001")
	if err := h.HandleRecordRemoval(ctx, event); err != nil {
		t.Fatalf("first handle: %v", err)
	}
	if err := h.HandleRecordRemoval(ctx, event); err != nil {
		t.Fatalf("retried handle must succeed, got %v", err)
	}
}

func TestCascadeIgnoresDerivedEntryRemovals(t *testing.T) {
	h, backend, _ := setup(t)
	before := backend.Len()

	tests := []struct {
		name   string
		pk, sk string
	}{
		{"category entry", "CATEGORY#cs.AI", "2024-01-01#2401.00001"},
		{"author entry", "ID#2401.00001", "AUTHOR#A. Einstein#2024-01-01"},
		{"non-id partition", "CATEGORY#cs.AI", "CATEGORY#cs.AI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.HandleRecordRemoval(context.Background(), removalEvent(tt.pk, tt.sk)); err != nil {
				t.Fatalf("handle: %v", err)
			}
			if backend.Len() != before {
				t.Errorf("expected no cascade, item count %d -> %d", before, backend.Len())
			}
		})
	}
}

func TestCascadeIgnoresInsertEvents(t *testing.T) {
	h, backend, _ := setup(t)
	before := backend.Len()

	event := removalEvent("ID#2401.00001", "ID#2401.00001")
	event.Records[0].EventName = "INSERT"
	if err := h.HandleRecordRemoval(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if backend.Len() != before {
		t.Errorf("expected no cascade on INSERT, item count %d -> %d", before, backend.Len())
	}
}
