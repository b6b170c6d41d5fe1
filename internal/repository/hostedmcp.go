package repository

import (
	"context"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/models"
)

// HostedMcpServerRepository defines the interface for platform-hosted MCP
// server records. The provisioning engine drives the status transitions.
type HostedMcpServerRepository interface {
	Create(ctx context.Context, server *models.HostedMcpServer) error
	Get(ctx context.Context, id string) (*models.HostedMcpServer, error)
	GetAll(ctx context.Context) ([]*models.HostedMcpServer, error)
	GetByOwner(ctx context.Context, owner string) ([]*models.HostedMcpServer, error)
	UpdateStatus(ctx context.Context, id, status, reason string) error
	SetStackArn(ctx context.Context, id, stackArn string) error
	SetImageRepository(ctx context.Context, id, repoName, repoURI string) error
	Delete(ctx context.Context, id string) error
}

// dynamoHostedMcpServerRepository implements HostedMcpServerRepository using
// DynamoDB
type dynamoHostedMcpServerRepository struct {
	db *database.HostedMcpServerStore
}

// NewHostedMcpServerRepository creates a new DynamoDB-backed hosted server
// repository
func NewHostedMcpServerRepository(db *database.HostedMcpServerStore) HostedMcpServerRepository {
	return &dynamoHostedMcpServerRepository{
		db: db,
	}
}

func (r *dynamoHostedMcpServerRepository) Create(ctx context.Context, server *models.HostedMcpServer) error {
	return r.db.Create(ctx, server)
}

func (r *dynamoHostedMcpServerRepository) Get(ctx context.Context, id string) (*models.HostedMcpServer, error) {
	return r.db.Get(ctx, id)
}

func (r *dynamoHostedMcpServerRepository) GetAll(ctx context.Context) ([]*models.HostedMcpServer, error) {
	return r.db.GetAll(ctx)
}

func (r *dynamoHostedMcpServerRepository) GetByOwner(ctx context.Context, owner string) ([]*models.HostedMcpServer, error) {
	return r.db.GetByOwner(ctx, owner)
}

func (r *dynamoHostedMcpServerRepository) UpdateStatus(ctx context.Context, id, status, reason string) error {
	return r.db.UpdateStatus(ctx, id, status, reason)
}

func (r *dynamoHostedMcpServerRepository) SetStackArn(ctx context.Context, id, stackArn string) error {
	return r.db.SetStackArn(ctx, id, stackArn)
}

func (r *dynamoHostedMcpServerRepository) SetImageRepository(ctx context.Context, id, repoName, repoURI string) error {
	return r.db.SetImageRepository(ctx, id, repoName, repoURI)
}

func (r *dynamoHostedMcpServerRepository) Delete(ctx context.Context, id string) error {
	return r.db.Delete(ctx, id)
}
