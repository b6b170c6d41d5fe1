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
	"github.com/awslabs/lisa-admin/internal/models"
)

// RagRepositoryStore handles all DynamoDB operations for RAG repositories
type RagRepositoryStore struct {
	client    *Client
	tableName string
}

// NewRagRepositoryStore creates a new RagRepositoryStore instance
func NewRagRepositoryStore(client *Client, tableName string) *RagRepositoryStore {
	return &RagRepositoryStore{
		client:    client,
		tableName: tableName,
	}
}

// Create writes a new RAG repository record
func (s *RagRepositoryStore) Create(ctx context.Context, repo *models.RagRepository) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"RepositoryId":   repo.RepositoryID,
		"RepositoryName": repo.RepositoryName,
		"Type":           repo.Type,
		"EmbeddingModel": repo.EmbeddingModel,
		"AllowedGroups":  repo.AllowedGroups,
		"Status":         repo.Status,
		"CreatedAt":      repo.CreatedAt.Unix(),
		"UpdatedAt":      repo.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal RAG repository: %w", err)
	}

	_, err = s.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(RepositoryId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create RAG repository: %w", err)
	}

	return nil
}

// Get retrieves a RAG repository by id
func (s *RagRepositoryStore) Get(ctx context.Context, repositoryID string) (*models.RagRepository, error) {
	result, err := s.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"RepositoryId": &types.AttributeValueMemberS{Value: repositoryID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get RAG repository: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	return s.unmarshalRepository(result.Item)
}

// GetAll retrieves every RAG repository
func (s *RagRepositoryStore) GetAll(ctx context.Context) ([]*models.RagRepository, error) {
	result, err := s.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan RAG repositories: %w", err)
	}

	repos := make([]*models.RagRepository, 0, len(result.Items))
	for _, item := range result.Items {
		repo, err := s.unmarshalRepository(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal RAG repository: %w", err)
		}
		repos = append(repos, repo)
	}

	return repos, nil
}

// UpdateStatus sets the lifecycle status of a repository
func (s *RagRepositoryStore) UpdateStatus(ctx context.Context, repositoryID, status string) error {
	_, err := s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"RepositoryId": &types.AttributeValueMemberS{Value: repositoryID},
		},
		UpdateExpression: aws.String("SET #status = :status, UpdatedAt = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#status": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: status},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(RepositoryId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update RAG repository status: %w", err)
	}

	return nil
}

// Delete removes a RAG repository record
func (s *RagRepositoryStore) Delete(ctx context.Context, repositoryID string) error {
	_, err := s.client.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"RepositoryId": &types.AttributeValueMemberS{Value: repositoryID},
		},
		ConditionExpression: aws.String("attribute_exists(RepositoryId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete RAG repository: %w", err)
	}

	return nil
}

func (s *RagRepositoryStore) unmarshalRepository(item map[string]types.AttributeValue) (*models.RagRepository, error) {
	var temp struct {
		RepositoryID   string   `dynamodbav:"RepositoryId"`
		RepositoryName string   `dynamodbav:"RepositoryName"`
		Type           string   `dynamodbav:"Type"`
		EmbeddingModel string   `dynamodbav:"EmbeddingModel"`
		AllowedGroups  []string `dynamodbav:"AllowedGroups"`
		Status         string   `dynamodbav:"Status"`
		CreatedAt      int64    `dynamodbav:"CreatedAt"`
		UpdatedAt      int64    `dynamodbav:"UpdatedAt"`
	}

	if err := attributevalue.UnmarshalMap(item, &temp); err != nil {
		return nil, err
	}

	return &models.RagRepository{
		RepositoryID:   temp.RepositoryID,
		RepositoryName: temp.RepositoryName,
		Type:           temp.Type,
		EmbeddingModel: temp.EmbeddingModel,
		AllowedGroups:  temp.AllowedGroups,
		Status:         temp.Status,
		CreatedAt:      time.Unix(temp.CreatedAt, 0),
		UpdatedAt:      time.Unix(temp.UpdatedAt, 0),
	}, nil
}
