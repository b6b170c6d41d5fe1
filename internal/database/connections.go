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

// McpConnectionStore handles all DynamoDB operations for external MCP
// server connections
type McpConnectionStore struct {
	client    *Client
	tableName string
}

// NewMcpConnectionStore creates a new McpConnectionStore instance
func NewMcpConnectionStore(client *Client, tableName string) *McpConnectionStore {
	return &McpConnectionStore{
		client:    client,
		tableName: tableName,
	}
}

// Create writes a new connection record
func (s *McpConnectionStore) Create(ctx context.Context, conn *models.McpConnection) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"Id":           conn.Id,
		"Owner":        conn.Owner,
		"Name":         conn.Name,
		"Description":  conn.Description,
		"Url":          conn.URL,
		"ClientConfig": conn.ClientConfig,
		"Active":       conn.Active,
		"CreatedAt":    conn.CreatedAt.Unix(),
		"UpdatedAt":    conn.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal MCP connection: %w", err)
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
		return fmt.Errorf("failed to create MCP connection: %w", err)
	}

	return nil
}

// Get retrieves a connection by id
func (s *McpConnectionStore) Get(ctx context.Context, id string) (*models.McpConnection, error) {
	result, err := s.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get MCP connection: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	return s.unmarshalConnection(result.Item)
}

// GetAll retrieves every connection record
func (s *McpConnectionStore) GetAll(ctx context.Context) ([]*models.McpConnection, error) {
	result, err := s.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan MCP connections: %w", err)
	}

	return s.unmarshalConnections(result.Items)
}

// GetVisibleTo retrieves the connections a user may see: their own plus
// public ones
func (s *McpConnectionStore) GetVisibleTo(ctx context.Context, owner string) ([]*models.McpConnection, error) {
	result, err := s.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String("#owner = :owner OR #owner = :public"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "Owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner":  &types.AttributeValueMemberS{Value: owner},
			":public": &types.AttributeValueMemberS{Value: models.PublicOwner},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan MCP connections by owner: %w", err)
	}

	return s.unmarshalConnections(result.Items)
}

// Update replaces the mutable fields of a connection
func (s *McpConnectionStore) Update(ctx context.Context, conn *models.McpConnection) error {
	clientConfig, err := attributevalue.Marshal(conn.ClientConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal client config: %w", err)
	}

	_, err = s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: conn.Id},
		},
		UpdateExpression: aws.String("SET #name = :name, Description = :desc, #url = :url, ClientConfig = :config, Active = :active, UpdatedAt = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#name": "Name",
			"#url":  "Url",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":       &types.AttributeValueMemberS{Value: conn.Name},
			":desc":       &types.AttributeValueMemberS{Value: conn.Description},
			":url":        &types.AttributeValueMemberS{Value: conn.URL},
			":config":     clientConfig,
			":active":     &types.AttributeValueMemberBOOL{Value: conn.Active},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update MCP connection: %w", err)
	}

	return nil
}

// Delete removes a connection record
func (s *McpConnectionStore) Delete(ctx context.Context, id string) error {
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
		return fmt.Errorf("failed to delete MCP connection: %w", err)
	}

	return nil
}

func (s *McpConnectionStore) unmarshalConnections(items []map[string]types.AttributeValue) ([]*models.McpConnection, error) {
	conns := make([]*models.McpConnection, 0, len(items))
	for _, item := range items {
		conn, err := s.unmarshalConnection(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal MCP connection: %w", err)
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

func (s *McpConnectionStore) unmarshalConnection(item map[string]types.AttributeValue) (*models.McpConnection, error) {
	var temp struct {
		Id           string            `dynamodbav:"Id"`
		Owner        string            `dynamodbav:"Owner"`
		Name         string            `dynamodbav:"Name"`
		Description  string            `dynamodbav:"Description"`
		URL          string            `dynamodbav:"Url"`
		ClientConfig map[string]string `dynamodbav:"ClientConfig"`
		Active       bool              `dynamodbav:"Active"`
		CreatedAt    int64             `dynamodbav:"CreatedAt"`
		UpdatedAt    int64             `dynamodbav:"UpdatedAt"`
	}

	if err := attributevalue.UnmarshalMap(item, &temp); err != nil {
		return nil, err
	}

	return &models.McpConnection{
		Id:           temp.Id,
		Owner:        temp.Owner,
		Name:         temp.Name,
		Description:  temp.Description,
		URL:          temp.URL,
		ClientConfig: temp.ClientConfig,
		Active:       temp.Active,
		CreatedAt:    time.Unix(temp.CreatedAt, 0),
		UpdatedAt:    time.Unix(temp.UpdatedAt, 0),
	}, nil
}
