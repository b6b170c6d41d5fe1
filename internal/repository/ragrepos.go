package repository

import (
	"context"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/models"
)

// RagRepositoryRepository defines the interface for RAG repository records
type RagRepositoryRepository interface {
	Create(ctx context.Context, repo *models.RagRepository) error
	Get(ctx context.Context, repositoryID string) (*models.RagRepository, error)
	GetAll(ctx context.Context) ([]*models.RagRepository, error)
	UpdateStatus(ctx context.Context, repositoryID, status string) error
	Delete(ctx context.Context, repositoryID string) error
}

// dynamoRagRepository implements RagRepositoryRepository using DynamoDB
type dynamoRagRepository struct {
	db *database.RagRepositoryStore
}

// NewRagRepositoryRepository creates a new DynamoDB-backed repository
func NewRagRepositoryRepository(db *database.RagRepositoryStore) RagRepositoryRepository {
	return &dynamoRagRepository{
		db: db,
	}
}

func (r *dynamoRagRepository) Create(ctx context.Context, repo *models.RagRepository) error {
	return r.db.Create(ctx, repo)
}

func (r *dynamoRagRepository) Get(ctx context.Context, repositoryID string) (*models.RagRepository, error) {
	return r.db.Get(ctx, repositoryID)
}

func (r *dynamoRagRepository) GetAll(ctx context.Context) ([]*models.RagRepository, error) {
	return r.db.GetAll(ctx)
}

func (r *dynamoRagRepository) UpdateStatus(ctx context.Context, repositoryID, status string) error {
	return r.db.UpdateStatus(ctx, repositoryID, status)
}

func (r *dynamoRagRepository) Delete(ctx context.Context, repositoryID string) error {
	return r.db.Delete(ctx, repositoryID)
}
