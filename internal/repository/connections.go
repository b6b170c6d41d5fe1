package repository

import (
	"context"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/models"
)

// McpConnectionRepository defines the interface for external MCP connection
// records
type McpConnectionRepository interface {
	Create(ctx context.Context, conn *models.McpConnection) error
	Get(ctx context.Context, id string) (*models.McpConnection, error)
	GetAll(ctx context.Context) ([]*models.McpConnection, error)
	GetVisibleTo(ctx context.Context, owner string) ([]*models.McpConnection, error)
	Update(ctx context.Context, conn *models.McpConnection) error
	Delete(ctx context.Context, id string) error
}

// dynamoMcpConnectionRepository implements McpConnectionRepository using
// DynamoDB
type dynamoMcpConnectionRepository struct {
	db *database.McpConnectionStore
}

// NewMcpConnectionRepository creates a new DynamoDB-backed connection
// repository
func NewMcpConnectionRepository(db *database.McpConnectionStore) McpConnectionRepository {
	return &dynamoMcpConnectionRepository{
		db: db,
	}
}

func (r *dynamoMcpConnectionRepository) Create(ctx context.Context, conn *models.McpConnection) error {
	return r.db.Create(ctx, conn)
}

func (r *dynamoMcpConnectionRepository) Get(ctx context.Context, id string) (*models.McpConnection, error) {
	return r.db.Get(ctx, id)
}

func (r *dynamoMcpConnectionRepository) GetAll(ctx context.Context) ([]*models.McpConnection, error) {
	return r.db.GetAll(ctx)
}

func (r *dynamoMcpConnectionRepository) GetVisibleTo(ctx context.Context, owner string) ([]*models.McpConnection, error) {
	return r.db.GetVisibleTo(ctx, owner)
}

func (r *dynamoMcpConnectionRepository) Update(ctx context.Context, conn *models.McpConnection) error {
	return r.db.Update(ctx, conn)
}

func (r *dynamoMcpConnectionRepository) Delete(ctx context.Context, id string) error {
	return r.db.Delete(ctx, id)
}
