package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/sirupsen/logrus"
)

// ModelStore handles all DynamoDB operations for the model library
type ModelStore struct {
	client    *Client
	tableName string
}

// NewModelStore creates a new ModelStore instance
func NewModelStore(client *Client, tableName string) *ModelStore {
	return &ModelStore{
		client:    client,
		tableName: tableName,
	}
}

// Create writes a new model record. Fails with ErrAlreadyExists if a record
// with the same unique id is present.
func (s *ModelStore) Create(ctx context.Context, model *models.Model) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"UniqueId":       model.UniqueID,
		"ModelId":        model.ModelID,
		"ModelName":      model.ModelName,
		"ModelType":      model.ModelType,
		"Description":    model.Description,
		"Streaming":      model.Streaming,
		"ModelUrl":       model.ModelURL,
		"InstanceType":   model.InstanceType,
		"ContainerImage": model.ContainerImage,
		"AutoScaling":    model.AutoScaling,
		"Features":       model.Features,
		"Status":         model.Status,
		"CreatedAt":      model.CreatedAt.Unix(),
		"UpdatedAt":      model.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	_, err = s.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(UniqueId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create model: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"unique_id": model.UniqueID,
		"model_id":  model.ModelID,
	}).Info("Model record created in DynamoDB")

	return nil
}

// Get retrieves a model by its unique id
func (s *ModelStore) Get(ctx context.Context, uniqueID string) (*models.Model, error) {
	result, err := s.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"UniqueId": &types.AttributeValueMemberS{Value: uniqueID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	return s.unmarshalModel(result.Item)
}

// GetAll retrieves every model in the library
func (s *ModelStore) GetAll(ctx context.Context) ([]*models.Model, error) {
	result, err := s.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan models: %w", err)
	}

	items := make([]*models.Model, 0, len(result.Items))
	for _, item := range result.Items {
		m, err := s.unmarshalModel(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal model: %w", err)
		}
		items = append(items, m)
	}

	return items, nil
}

// Update replaces the mutable fields of an existing model
func (s *ModelStore) Update(ctx context.Context, model *models.Model) error {
	scaling, err := attributevalue.Marshal(model.AutoScaling)
	if err != nil {
		return fmt.Errorf("failed to marshal auto scaling: %w", err)
	}
	features, err := attributevalue.Marshal(model.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	_, err = s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"UniqueId": &types.AttributeValueMemberS{Value: model.UniqueID},
		},
		UpdateExpression: aws.String("SET ModelName = :name, Description = :desc, Streaming = :streaming, InstanceType = :instance, ContainerImage = :image, AutoScaling = :scaling, Features = :features, #status = :status, UpdatedAt = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#status": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":       &types.AttributeValueMemberS{Value: model.ModelName},
			":desc":       &types.AttributeValueMemberS{Value: model.Description},
			":streaming":  &types.AttributeValueMemberBOOL{Value: model.Streaming},
			":instance":   &types.AttributeValueMemberS{Value: model.InstanceType},
			":image":      &types.AttributeValueMemberS{Value: model.ContainerImage},
			":scaling":    scaling,
			":features":   features,
			":status":     &types.AttributeValueMemberS{Value: model.Status},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(UniqueId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update model: %w", err)
	}

	return nil
}

// UpdateStatus sets the lifecycle status of a model
func (s *ModelStore) UpdateStatus(ctx context.Context, uniqueID, status string) error {
	_, err := s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"UniqueId": &types.AttributeValueMemberS{Value: uniqueID},
		},
		UpdateExpression: aws.String("SET #status = :status, UpdatedAt = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#status": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: status},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(UniqueId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update model status: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"unique_id": uniqueID,
		"status":    status,
	}).Debug("Model status updated")

	return nil
}

// Delete removes a model record
func (s *ModelStore) Delete(ctx context.Context, uniqueID string) error {
	_, err := s.client.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"UniqueId": &types.AttributeValueMemberS{Value: uniqueID},
		},
		ConditionExpression: aws.String("attribute_exists(UniqueId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete model: %w", err)
	}

	return nil
}

func (s *ModelStore) unmarshalModel(item map[string]types.AttributeValue) (*models.Model, error) {
	var temp struct {
		UniqueID       string                  `dynamodbav:"UniqueId"`
		ModelID        string                  `dynamodbav:"ModelId"`
		ModelName      string                  `dynamodbav:"ModelName"`
		ModelType      string                  `dynamodbav:"ModelType"`
		Description    string                  `dynamodbav:"Description"`
		Streaming      bool                    `dynamodbav:"Streaming"`
		ModelURL       string                  `dynamodbav:"ModelUrl"`
		InstanceType   string                  `dynamodbav:"InstanceType"`
		ContainerImage string                  `dynamodbav:"ContainerImage"`
		AutoScaling    models.ModelAutoScaling `dynamodbav:"AutoScaling"`
		Features       []string                `dynamodbav:"Features"`
		Status         string                  `dynamodbav:"Status"`
		CreatedAt      int64                   `dynamodbav:"CreatedAt"`
		UpdatedAt      int64                   `dynamodbav:"UpdatedAt"`
	}

	if err := attributevalue.UnmarshalMap(item, &temp); err != nil {
		return nil, err
	}

	return &models.Model{
		UniqueID:       temp.UniqueID,
		ModelID:        temp.ModelID,
		ModelName:      temp.ModelName,
		ModelType:      temp.ModelType,
		Description:    temp.Description,
		Streaming:      temp.Streaming,
		ModelURL:       temp.ModelURL,
		InstanceType:   temp.InstanceType,
		ContainerImage: temp.ContainerImage,
		AutoScaling:    temp.AutoScaling,
		Features:       temp.Features,
		Status:         temp.Status,
		CreatedAt:      time.Unix(temp.CreatedAt, 0),
		UpdatedAt:      time.Unix(temp.UpdatedAt, 0),
	}, nil
}
