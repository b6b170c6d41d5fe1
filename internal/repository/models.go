package repository

import (
	"context"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/models"
)

// ModelRepository defines the interface for model library operations
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	Get(ctx context.Context, uniqueID string) (*models.Model, error)
	GetAll(ctx context.Context) ([]*models.Model, error)
	Update(ctx context.Context, model *models.Model) error
	UpdateStatus(ctx context.Context, uniqueID, status string) error
	Delete(ctx context.Context, uniqueID string) error
}

// dynamoModelRepository implements ModelRepository using DynamoDB
type dynamoModelRepository struct {
	db *database.ModelStore
}

// NewModelRepository creates a new DynamoDB-backed model repository
func NewModelRepository(db *database.ModelStore) ModelRepository {
	return &dynamoModelRepository{
		db: db,
	}
}

func (r *dynamoModelRepository) Create(ctx context.Context, model *models.Model) error {
	return r.db.Create(ctx, model)
}

func (r *dynamoModelRepository) Get(ctx context.Context, uniqueID string) (*models.Model, error) {
	return r.db.Get(ctx, uniqueID)
}

func (r *dynamoModelRepository) GetAll(ctx context.Context) ([]*models.Model, error) {
	return r.db.GetAll(ctx)
}

func (r *dynamoModelRepository) Update(ctx context.Context, model *models.Model) error {
	return r.db.Update(ctx, model)
}

func (r *dynamoModelRepository) UpdateStatus(ctx context.Context, uniqueID, status string) error {
	return r.db.UpdateStatus(ctx, uniqueID, status)
}

func (r *dynamoModelRepository) Delete(ctx context.Context, uniqueID string) error {
	return r.db.Delete(ctx, uniqueID)
}
