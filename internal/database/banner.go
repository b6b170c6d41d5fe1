package database

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/awslabs/lisa-admin/internal/models"
)

// The banner table holds a single record under a fixed key.
const bannerKey = "system"

// BannerStore handles DynamoDB operations for the system banner
type BannerStore struct {
	client    *Client
	tableName string
}

// NewBannerStore creates a new BannerStore instance
func NewBannerStore(client *Client, tableName string) *BannerStore {
	return &BannerStore{
		client:    client,
		tableName: tableName,
	}
}

// Get retrieves the current banner record
func (s *BannerStore) Get(ctx context.Context) (*models.Banner, error) {
	result, err := s.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: bannerKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var temp struct {
		Text            string `dynamodbav:"Text"`
		TextColor       string `dynamodbav:"TextColor"`
		BackgroundColor string `dynamodbav:"BackgroundColor"`
		Active          bool   `dynamodbav:"Active"`
		UpdatedBy       string `dynamodbav:"UpdatedBy"`
		UpdatedAt       int64  `dynamodbav:"UpdatedAt"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &temp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal banner: %w", err)
	}

	return &models.Banner{
		Text:            temp.Text,
		TextColor:       temp.TextColor,
		BackgroundColor: temp.BackgroundColor,
		Active:          temp.Active,
		UpdatedBy:       temp.UpdatedBy,
		UpdatedAt:       time.Unix(temp.UpdatedAt, 0),
	}, nil
}

// Put replaces the banner record
func (s *BannerStore) Put(ctx context.Context, banner *models.Banner) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"Id":              bannerKey,
		"Text":            banner.Text,
		"TextColor":       banner.TextColor,
		"BackgroundColor": banner.BackgroundColor,
		"Active":          banner.Active,
		"UpdatedBy":       banner.UpdatedBy,
		"UpdatedAt":       banner.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal banner: %w", err)
	}

	_, err = s.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put banner: %w", err)
	}

	return nil
}

// Delete removes the banner record, deactivating the notice
func (s *BannerStore) Delete(ctx context.Context) error {
	_, err := s.client.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: bannerKey},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}

	return nil
}
