// Package dynamodb provides the durable snapshot store backed by DynamoDB.
package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"inquiry-backend/domain/core/aggregates"
	pkgerrors "inquiry-backend/pkg/errors"
)

// ComplexStore implements ports.ComplexStore against a single-table DynamoDB
// layout. Each complex is one item: the whole snapshot travels together so a
// load never observes a partially written graph.
type ComplexStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewComplexStore creates a new ComplexStore
func NewComplexStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *ComplexStore {
	return &ComplexStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// complexItem is the DynamoDB item structure for a complex snapshot
type complexItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	aggregates.ComplexSnapshot
}

func complexKey(complexID string) (string, string) {
	return fmt.Sprintf("COMPLEX#%s", complexID), "SNAPSHOT"
}

// Save writes the snapshot, replacing any previous version of the complex
func (s *ComplexStore) Save(ctx context.Context, snapshot *aggregates.ComplexSnapshot) error {
	pk, sk := complexKey(snapshot.ID)
	item := complexItem{
		PK:              pk,
		SK:              sk,
		ComplexSnapshot: *snapshot,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal complex snapshot")
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewExternalError("dynamodb", err)
	}

	s.logger.Info("Saved complex snapshot to DynamoDB",
		zap.String("complexID", snapshot.ID),
		zap.Int("nodeCount", len(snapshot.Nodes)),
	)
	return nil
}

// Load reads the snapshot for the given complex id
func (s *ComplexStore) Load(ctx context.Context, complexID string) (*aggregates.ComplexSnapshot, error) {
	pk, sk := complexKey(complexID)
	key, err := attributevalue.MarshalMap(map[string]string{"PK": pk, "SK": sk})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to marshal complex key")
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewExternalError("dynamodb", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("complex snapshot")
	}

	var item complexItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal complex snapshot")
	}

	return &item.ComplexSnapshot, nil
}
