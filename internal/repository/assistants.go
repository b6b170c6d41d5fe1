package repository

import (
	"context"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/models"
)

// AssistantStackRepository defines the interface for assistant stack records
type AssistantStackRepository interface {
	Create(ctx context.Context, stack *models.AssistantStack) error
	Get(ctx context.Context, id string) (*models.AssistantStack, error)
	GetAll(ctx context.Context) ([]*models.AssistantStack, error)
	Update(ctx context.Context, stack *models.AssistantStack) error
	Delete(ctx context.Context, id string) error
}

// dynamoAssistantStackRepository implements AssistantStackRepository using
// DynamoDB
type dynamoAssistantStackRepository struct {
	db *database.AssistantStackStore
}

// NewAssistantStackRepository creates a new DynamoDB-backed assistant stack
// repository
func NewAssistantStackRepository(db *database.AssistantStackStore) AssistantStackRepository {
	return &dynamoAssistantStackRepository{
		db: db,
	}
}

func (r *dynamoAssistantStackRepository) Create(ctx context.Context, stack *models.AssistantStack) error {
	return r.db.Create(ctx, stack)
}

func (r *dynamoAssistantStackRepository) Get(ctx context.Context, id string) (*models.AssistantStack, error) {
	return r.db.Get(ctx, id)
}

func (r *dynamoAssistantStackRepository) GetAll(ctx context.Context) ([]*models.AssistantStack, error) {
	return r.db.GetAll(ctx)
}

func (r *dynamoAssistantStackRepository) Update(ctx context.Context, stack *models.AssistantStack) error {
	return r.db.Update(ctx, stack)
}

func (r *dynamoAssistantStackRepository) Delete(ctx context.Context, id string) error {
	return r.db.Delete(ctx, id)
}
