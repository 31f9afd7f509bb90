// Package dynamo implements the store.Backend contract over a DynamoDB table
// with AuthorIndex, PaperIndex, and KeywordIndex global secondary indexes.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/lattermill/paperdex/store"
)

// Backend talks to one DynamoDB table.
type Backend struct {
	client *dynamodb.Client
	table  string
	logger *slog.Logger
}

// New creates a DynamoDB backend for the named table.
func New(client *dynamodb.Client, table string, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Put inserts the item unless its (PK, SK) already exists.
func (b *Backend) Put(ctx context.Context, item store.Item) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	_, err = b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(b.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return store.ErrDuplicateKey
	}
	return b.mapError(err)
}

// Get retrieves one item by base key.
func (b *Backend) Get(ctx context.Context, key store.Key) (*store.Item, error) {
	result, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(b.table),
		Key:       baseKey(key),
	})
	if err != nil {
		return nil, b.mapError(err)
	}
	if result.Item == nil {
		return nil, store.ErrNotFound
	}

	var item store.Item
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &item, nil
}

// Query reads one partition of the plan's index within the optional
// sort-key bound, paginating until the limit is reached.
func (b *Backend) Query(ctx context.Context, q store.Query) ([]store.Item, error) {
	keyCond := "#pk = :pk"
	exprNames := map[string]string{"#pk": q.Plan.PartitionAttr}
	exprValues := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: q.Partition},
	}
	if q.SortLow != "" || q.SortHigh != "" {
		keyCond += " AND #sk BETWEEN :lo AND :hi"
		exprNames["#sk"] = q.Plan.SortAttr
		exprValues[":lo"] = &types.AttributeValueMemberS{Value: q.SortLow}
		exprValues[":hi"] = &types.AttributeValueMemberS{Value: q.SortHigh}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(b.table),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ScanIndexForward:          aws.Bool(!q.Descending),
		Limit:                     aws.Int32(int32(q.Limit)),
	}
	if q.Plan.IndexName != "" {
		input.IndexName = aws.String(q.Plan.IndexName)
	}

	var items []store.Item
	paginator := dynamodb.NewQueryPaginator(b.client, input)
	for paginator.HasMorePages() && len(items) < q.Limit {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, b.mapError(err)
		}
		for _, raw := range page.Items {
			var item store.Item
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			items = append(items, item)
			if len(items) == q.Limit {
				break
			}
		}
	}
	return items, nil
}

// Scan reads every item of the base table.
func (b *Backend) Scan(ctx context.Context) ([]store.Item, error) {
	var items []store.Item
	paginator := dynamodb.NewScanPaginator(b.client, &dynamodb.ScanInput{
		TableName: aws.String(b.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, b.mapError(err)
		}
		for _, raw := range page.Items {
			var item store.Item
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// Delete removes one item by base key. DynamoDB deletes are idempotent.
func (b *Backend) Delete(ctx context.Context, key store.Key) error {
	_, err := b.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(b.table),
		Key:       baseKey(key),
	})
	return b.mapError(err)
}

// mapError translates DynamoDB failures into the store error taxonomy.
// A ValidationException naming an index means the table was created without
// it; the router turns that into a scan fallback.
func (b *Backend) mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case code == "ValidationException" && strings.Contains(apiErr.ErrorMessage(), "index"):
			return fmt.Errorf("%w: %s", store.ErrIndexMissing, apiErr.ErrorMessage())
		case code == "ResourceNotFoundException":
			return fmt.Errorf("%w: %s", store.ErrBackendUnavailable, apiErr.ErrorMessage())
		case code == "ProvisionedThroughputExceededException",
			code == "InternalServerError",
			code == "ServiceUnavailable":
			return fmt.Errorf("%w: %s", store.ErrBackendUnavailable, apiErr.ErrorMessage())
		}
	}
	return err
}

func baseKey(key store.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key.PK},
		"SK": &types.AttributeValueMemberS{Value: key.SK},
	}
}
