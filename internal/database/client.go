package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a record already exists
	ErrAlreadyExists = errors.New("record already exists")
)

// Client wraps the DynamoDB client shared by every entity store
type Client struct {
	DynamoDB *dynamodb.Client
}

// NewClient creates a new DynamoDB client for the given region
func NewClient(ctx context.Context, region string) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &Client{
		DynamoDB: dynamodb.NewFromConfig(awsCfg),
	}, nil
}

// VerifyTable checks that a DynamoDB table exists and is reachable. Missing
// tables are logged, not fatal, so a partially provisioned deployment can
// still serve the entities it has.
func (c *Client) VerifyTable(ctx context.Context, tableName string) error {
	_, err := c.DynamoDB.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"table": tableName,
			"error": err.Error(),
		}).Warn("Could not verify DynamoDB table")
		return fmt.Errorf("table %s does not exist or cannot be accessed: %w", tableName, err)
	}

	logger.WithField("table", tableName).Debug("DynamoDB table verified")
	return nil
}
