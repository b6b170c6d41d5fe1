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

// UserPreferencesStore handles DynamoDB operations for per-user settings
type UserPreferencesStore struct {
	client    *Client
	tableName string
}

// NewUserPreferencesStore creates a new UserPreferencesStore instance
func NewUserPreferencesStore(client *Client, tableName string) *UserPreferencesStore {
	return &UserPreferencesStore{
		client:    client,
		tableName: tableName,
	}
}

// Get retrieves the preferences for a user
func (s *UserPreferencesStore) Get(ctx context.Context, userID string) (*models.UserPreferences, error) {
	result, err := s.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user preferences: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var temp struct {
		UserID           string            `dynamodbav:"UserId"`
		DefaultModelID   string            `dynamodbav:"DefaultModelId"`
		DefaultAssistant string            `dynamodbav:"DefaultAssistant"`
		StreamingEnabled bool              `dynamodbav:"StreamingEnabled"`
		DarkMode         bool              `dynamodbav:"DarkMode"`
		Extra            map[string]string `dynamodbav:"Extra"`
		UpdatedAt        int64             `dynamodbav:"UpdatedAt"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &temp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user preferences: %w", err)
	}

	return &models.UserPreferences{
		UserID:           temp.UserID,
		DefaultModelID:   temp.DefaultModelID,
		DefaultAssistant: temp.DefaultAssistant,
		StreamingEnabled: temp.StreamingEnabled,
		DarkMode:         temp.DarkMode,
		Extra:            temp.Extra,
		UpdatedAt:        time.Unix(temp.UpdatedAt, 0),
	}, nil
}

// Put replaces the preferences record for a user wholesale
func (s *UserPreferencesStore) Put(ctx context.Context, prefs *models.UserPreferences) error {
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"UserId":           prefs.UserID,
		"DefaultModelId":   prefs.DefaultModelID,
		"DefaultAssistant": prefs.DefaultAssistant,
		"StreamingEnabled": prefs.StreamingEnabled,
		"DarkMode":         prefs.DarkMode,
		"Extra":            prefs.Extra,
		"UpdatedAt":        prefs.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal user preferences: %w", err)
	}

	_, err = s.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put user preferences: %w", err)
	}

	return nil
}
