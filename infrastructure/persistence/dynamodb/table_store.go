// Package dynamodb implements the table store on DynamoDB. Each entity type
// gets its own table keyed by PartitionKey (hash) and RowKey (range),
// mirroring the composite identity of the domain entities.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"notebookmark-backend/application/ports"
	"notebookmark-backend/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TableStore is a per-entity-type handle implementing ports.Table. Writes are
// unconditional puts: last writer wins, no concurrency token check.
type TableStore[T domain.Entity] struct {
	client    *awsdynamodb.Client
	tableName string
	logger    *zap.Logger

	ensureOnce sync.Once
	ensureErr  error
}

// NewTableStore creates a table store for one entity type.
func NewTableStore[T domain.Entity](client *awsdynamodb.Client, tableName string, logger *zap.Logger) *TableStore[T] {
	return &TableStore[T]{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// ensureTable creates the backing table on first use. Creation is idempotent;
// an already-existing table is not an error.
func (s *TableStore[T]) ensureTable(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		_, err := s.client.CreateTable(ctx, &awsdynamodb.CreateTableInput{
			TableName: aws.String(s.tableName),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("PartitionKey"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("RowKey"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("PartitionKey"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("RowKey"), KeyType: types.KeyTypeRange},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				return
			}
			s.ensureErr = fmt.Errorf("create table %s: %w", s.tableName, err)
			return
		}

		waiter := awsdynamodb.NewTableExistsWaiter(s.client)
		if err := waiter.Wait(ctx, &awsdynamodb.DescribeTableInput{
			TableName: aws.String(s.tableName),
		}, time.Minute); err != nil {
			s.ensureErr = fmt.Errorf("wait for table %s: %w", s.tableName, err)
			return
		}
		s.logger.Info("created table", zap.String("table", s.tableName))
	})
	return s.ensureErr
}

// Query returns all entities matching the filter, unordered. An empty filter
// returns the whole table.
func (s *TableStore[T]) Query(ctx context.Context, filter ports.Filter) ([]T, error) {
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}

	input := &awsdynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	}
	if !filter.IsEmpty() {
		expr, err := buildFilterExpression(filter)
		if err != nil {
			return nil, fmt.Errorf("build filter for %s: %w", s.tableName, err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	var entities []T
	paginator := awsdynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.tableName, err)
		}
		for _, item := range page.Items {
			var entity T
			if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
				return nil, fmt.Errorf("unmarshal item from %s: %w", s.tableName, err)
			}
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

// buildFilterExpression translates the typed disjunction-of-equalities filter
// into a DynamoDB filter expression.
func buildFilterExpression(filter ports.Filter) (expression.Expression, error) {
	var cond expression.ConditionBuilder
	for i, c := range filter.Any {
		eq := expression.Name(c.Field).Equal(expression.Value(c.Value))
		if i == 0 {
			cond = eq
		} else {
			cond = cond.Or(eq)
		}
	}
	return expression.NewBuilder().WithFilter(cond).Build()
}

// Upsert writes the entity, replacing any existing item with the same keys
// and stamping the storage timestamp.
func (s *TableStore[T]) Upsert(ctx context.Context, entity T) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	keys := entity.EntityKeys()
	if keys.PartitionKey == "" || keys.RowKey == "" {
		return fmt.Errorf("upsert into %s: entity is missing partition or row key", s.tableName)
	}

	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", s.tableName, err)
	}
	item["Timestamp"] = &types.AttributeValueMemberS{
		Value: time.Now().UTC().Format(time.RFC3339Nano),
	}

	if _, err := s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put item into %s: %w", s.tableName, err)
	}

	s.logger.Debug("upserted entity",
		zap.String("table", s.tableName),
		zap.String("partitionKey", keys.PartitionKey),
		zap.String("rowKey", keys.RowKey),
	)
	return nil
}

// Delete removes the entity with the given keys and reports whether it
// existed. A miss is not an error.
func (s *TableStore[T]) Delete(ctx context.Context, partitionKey, rowKey string) (bool, error) {
	if err := s.ensureTable(ctx); err != nil {
		return false, err
	}

	out, err := s.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PartitionKey": &types.AttributeValueMemberS{Value: partitionKey},
			"RowKey":       &types.AttributeValueMemberS{Value: rowKey},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("delete item from %s: %w", s.tableName, err)
	}
	return len(out.Attributes) > 0, nil
}
