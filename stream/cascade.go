// Package stream provides the DynamoDB Streams handler that removes derived
// index entries when a paper's canonical item is deleted.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lattermill/paperdex/query"
	"github.com/lattermill/paperdex/store"
)

const idPrefix = "ID#"

// Handler processes DynamoDB stream events for cascade removal. Deleting a
// paper means deleting just its canonical item; the stream event then fans
// the removal out to every category, author, and keyword entry, so no entry
// outlives its source record.
type Handler struct {
	router *query.Router
	logger *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(router *query.Router, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		router: router,
		logger: logger,
	}
}

// HandleRecordRemoval processes stream events, cascading canonical-item
// deletions. Designed to be used as an AWS Lambda handler.
func (h *Handler) HandleRecordRemoval(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord handles a single stream record. Only REMOVE events for
// canonical items trigger a cascade; derived-entry removals (including the
// ones this handler issues) are ignored, which keeps the cascade from
// amplifying itself.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "REMOVE" {
		return nil
	}

	pk := getStringAttr(record.Change.Keys, "PK")
	sk := getStringAttr(record.Change.Keys, "SK")
	if pk == "" || pk != sk || !strings.HasPrefix(pk, idPrefix) {
		return nil
	}
	paperID := strings.TrimPrefix(pk, idPrefix)

	h.logger.Info("cascading record removal", "paper", paperID)

	err := h.router.DeleteByID(ctx, paperID)
	if errors.Is(err, store.ErrNotFound) {
		// Already fully removed; retries are idempotent.
		return nil
	}
	if err != nil {
		return fmt.Errorf("cascade removal of %s: %w", paperID, err)
	}

	h.logger.Info("cascade removal completed", "paper", paperID)
	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}
