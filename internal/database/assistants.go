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

// AssistantStackStore handles all DynamoDB operations for assistant stacks
type AssistantStackStore struct {
	client    *Client
	tableName string
}

// NewAssistantStackStore creates a new AssistantStackStore instance
func NewAssistantStackStore(client *Client, tableName string) *AssistantStackStore {
	return &AssistantStackStore{
		client:    client,
		tableName: tableName,
	}
}

// Create writes a new assistant stack record
func (s *AssistantStackStore) Create(ctx context.Context, stack *models.AssistantStack) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"Id":            stack.Id,
		"Owner":         stack.Owner,
		"Name":          stack.Name,
		"Description":   stack.Description,
		"SystemPrompt":  stack.SystemPrompt,
		"ModelIds":      stack.ModelIDs,
		"RepositoryIds": stack.RepositoryIDs,
		"McpServerIds":  stack.McpServerIDs,
		"AllowedGroups": stack.AllowedGroups,
		"CreatedAt":     stack.CreatedAt.Unix(),
		"UpdatedAt":     stack.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal assistant stack: %w", err)
	}

	_, err = s.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(Id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create assistant stack: %w", err)
	}

	return nil
}

// Get retrieves an assistant stack by id
func (s *AssistantStackStore) Get(ctx context.Context, id string) (*models.AssistantStack, error) {
	result, err := s.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get assistant stack: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	return s.unmarshalStack(result.Item)
}

// GetAll retrieves every assistant stack
func (s *AssistantStackStore) GetAll(ctx context.Context) ([]*models.AssistantStack, error) {
	result, err := s.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan assistant stacks: %w", err)
	}

	stacks := make([]*models.AssistantStack, 0, len(result.Items))
	for _, item := range result.Items {
		stack, err := s.unmarshalStack(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal assistant stack: %w", err)
		}
		stacks = append(stacks, stack)
	}

	return stacks, nil
}

// Update replaces the mutable fields of an assistant stack
func (s *AssistantStackStore) Update(ctx context.Context, stack *models.AssistantStack) error {
	modelIDs, err := attributevalue.Marshal(stack.ModelIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal model ids: %w", err)
	}
	repoIDs, err := attributevalue.Marshal(stack.RepositoryIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal repository ids: %w", err)
	}
	serverIDs, err := attributevalue.Marshal(stack.McpServerIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal MCP server ids: %w", err)
	}
	groups, err := attributevalue.Marshal(stack.AllowedGroups)
	if err != nil {
		return fmt.Errorf("failed to marshal allowed groups: %w", err)
	}

	_, err = s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: stack.Id},
		},
		UpdateExpression: aws.String("SET #name = :name, Description = :desc, SystemPrompt = :prompt, ModelIds = :models, RepositoryIds = :repos, McpServerIds = :servers, AllowedGroups = :groups, UpdatedAt = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#name": "Name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":       &types.AttributeValueMemberS{Value: stack.Name},
			":desc":       &types.AttributeValueMemberS{Value: stack.Description},
			":prompt":     &types.AttributeValueMemberS{Value: stack.SystemPrompt},
			":models":     modelIDs,
			":repos":      repoIDs,
			":servers":    serverIDs,
			":groups":     groups,
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update assistant stack: %w", err)
	}

	return nil
}

// Delete removes an assistant stack record
func (s *AssistantStackStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete assistant stack: %w", err)
	}

	return nil
}

func (s *AssistantStackStore) unmarshalStack(item map[string]types.AttributeValue) (*models.AssistantStack, error) {
	var temp struct {
		Id            string   `dynamodbav:"Id"`
		Owner         string   `dynamodbav:"Owner"`
		Name          string   `dynamodbav:"Name"`
		Description   string   `dynamodbav:"Description"`
		SystemPrompt  string   `dynamodbav:"SystemPrompt"`
		ModelIDs      []string `dynamodbav:"ModelIds"`
		RepositoryIDs []string `dynamodbav:"RepositoryIds"`
		McpServerIDs  []string `dynamodbav:"McpServerIds"`
		AllowedGroups []string `dynamodbav:"AllowedGroups"`
		CreatedAt     int64    `dynamodbav:"CreatedAt"`
		UpdatedAt     int64    `dynamodbav:"UpdatedAt"`
	}

	if err := attributevalue.UnmarshalMap(item, &temp); err != nil {
		return nil, err
	}

	return &models.AssistantStack{
		Id:            temp.Id,
		Owner:         temp.Owner,
		Name:          temp.Name,
		Description:   temp.Description,
		SystemPrompt:  temp.SystemPrompt,
		ModelIDs:      temp.ModelIDs,
		RepositoryIDs: temp.RepositoryIDs,
		McpServerIDs:  temp.McpServerIDs,
		AllowedGroups: temp.AllowedGroups,
		CreatedAt:     time.Unix(temp.CreatedAt, 0),
		UpdatedAt:     time.Unix(temp.UpdatedAt, 0),
	}, nil
}
