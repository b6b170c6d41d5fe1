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

// HostedMcpServerStore handles all DynamoDB operations for platform-hosted
// MCP servers
type HostedMcpServerStore struct {
	client    *Client
	tableName string
}

// NewHostedMcpServerStore creates a new HostedMcpServerStore instance
func NewHostedMcpServerStore(client *Client, tableName string) *HostedMcpServerStore {
	return &HostedMcpServerStore{
		client:    client,
		tableName: tableName,
	}
}

// Create writes a new hosted server record
func (s *HostedMcpServerStore) Create(ctx context.Context, server *models.HostedMcpServer) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"Id":                  server.Id,
		"Owner":               server.Owner,
		"Name":                server.Name,
		"Description":         server.Description,
		"ContainerImage":      server.ContainerImage,
		"ImageRepositoryName": server.ImageRepositoryName,
		"ImageRepositoryUri":  server.ImageRepositoryURI,
		"Envs":                server.EnvironmentVariables,
		"Status":              server.Status,
		"StatusReason":        server.StatusReason,
		"StackArn":            server.StackArn,
		"CreatedAt":           server.CreatedAt.Unix(),
		"UpdatedAt":           server.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal hosted MCP server: %w", err)
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
		return fmt.Errorf("failed to create hosted MCP server: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"server_id": server.Id,
		"name":      server.Name,
	}).Info("Hosted MCP server record created in DynamoDB")

	return nil
}

// Get retrieves a hosted server by id
func (s *HostedMcpServerStore) Get(ctx context.Context, id string) (*models.HostedMcpServer, error) {
	result, err := s.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get hosted MCP server: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	return s.unmarshalServer(result.Item)
}

// GetAll retrieves every hosted server record
func (s *HostedMcpServerStore) GetAll(ctx context.Context) ([]*models.HostedMcpServer, error) {
	result, err := s.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan hosted MCP servers: %w", err)
	}

	return s.unmarshalServers(result.Items)
}

// GetByOwner retrieves the hosted servers belonging to a user
func (s *HostedMcpServerStore) GetByOwner(ctx context.Context, owner string) ([]*models.HostedMcpServer, error) {
	result, err := s.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "Owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan hosted MCP servers by owner: %w", err)
	}

	return s.unmarshalServers(result.Items)
}

// UpdateStatus sets the lifecycle status of a hosted server. The reason is
// cleared on success transitions and recorded on failures.
func (s *HostedMcpServerStore) UpdateStatus(ctx context.Context, id, status, reason string) error {
	_, err := s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET #status = :status, StatusReason = :reason, UpdatedAt = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#status": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: status},
			":reason":     &types.AttributeValueMemberS{Value: reason},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update hosted MCP server status: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"server_id": id,
		"status":    status,
	}).Debug("Hosted MCP server status updated")

	return nil
}

// SetStackArn records the CloudFormation stack backing a hosted server
func (s *HostedMcpServerStore) SetStackArn(ctx context.Context, id, stackArn string) error {
	_, err := s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET StackArn = :arn, UpdatedAt = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":arn":        &types.AttributeValueMemberS{Value: stackArn},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set stack ARN: %w", err)
	}

	return nil
}

// SetImageRepository records the image repository provisioned for a server
func (s *HostedMcpServerStore) SetImageRepository(ctx context.Context, id, repoName, repoURI string) error {
	_, err := s.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET ImageRepositoryName = :name, ImageRepositoryUri = :uri, UpdatedAt = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":       &types.AttributeValueMemberS{Value: repoName},
			":uri":        &types.AttributeValueMemberS{Value: repoURI},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
		ConditionExpression: aws.String("attribute_exists(Id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set image repository: %w", err)
	}

	return nil
}

// Delete removes a hosted server record
func (s *HostedMcpServerStore) Delete(ctx context.Context, id string) error {
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
		return fmt.Errorf("failed to delete hosted MCP server: %w", err)
	}

	return nil
}

func (s *HostedMcpServerStore) unmarshalServers(items []map[string]types.AttributeValue) ([]*models.HostedMcpServer, error) {
	servers := make([]*models.HostedMcpServer, 0, len(items))
	for _, item := range items {
		server, err := s.unmarshalServer(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal hosted MCP server: %w", err)
		}
		servers = append(servers, server)
	}
	return servers, nil
}

func (s *HostedMcpServerStore) unmarshalServer(item map[string]types.AttributeValue) (*models.HostedMcpServer, error) {
	var temp struct {
		Id                   string                       `dynamodbav:"Id"`
		Owner                string                       `dynamodbav:"Owner"`
		Name                 string                       `dynamodbav:"Name"`
		Description          string                       `dynamodbav:"Description"`
		ContainerImage       string                       `dynamodbav:"ContainerImage"`
		ImageRepositoryName  string                       `dynamodbav:"ImageRepositoryName"`
		ImageRepositoryURI   string                       `dynamodbav:"ImageRepositoryUri"`
		EnvironmentVariables []models.EnvironmentVariable `dynamodbav:"Envs"`
		Status               string                       `dynamodbav:"Status"`
		StatusReason         string                       `dynamodbav:"StatusReason"`
		StackArn             string                       `dynamodbav:"StackArn"`
		CreatedAt            int64                        `dynamodbav:"CreatedAt"`
		UpdatedAt            int64                        `dynamodbav:"UpdatedAt"`
	}

	if err := attributevalue.UnmarshalMap(item, &temp); err != nil {
		return nil, err
	}

	return &models.HostedMcpServer{
		Id:                   temp.Id,
		Owner:                temp.Owner,
		Name:                 temp.Name,
		Description:          temp.Description,
		ContainerImage:       temp.ContainerImage,
		ImageRepositoryName:  temp.ImageRepositoryName,
		ImageRepositoryURI:   temp.ImageRepositoryURI,
		EnvironmentVariables: temp.EnvironmentVariables,
		Status:               temp.Status,
		StatusReason:         temp.StatusReason,
		StackArn:             temp.StackArn,
		CreatedAt:            time.Unix(temp.CreatedAt, 0),
		UpdatedAt:            time.Unix(temp.UpdatedAt, 0),
	}, nil
}
