package repository

import (
	"context"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/models"
)

// UserPreferencesRepository defines the interface for per-user settings
type UserPreferencesRepository interface {
	Get(ctx context.Context, userID string) (*models.UserPreferences, error)
	Put(ctx context.Context, prefs *models.UserPreferences) error
}

// BannerRepository defines the interface for the system banner record
type BannerRepository interface {
	Get(ctx context.Context) (*models.Banner, error)
	Put(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context) error
}

type dynamoUserPreferencesRepository struct {
	db *database.UserPreferencesStore
}

// NewUserPreferencesRepository creates a new DynamoDB-backed preferences
// repository
func NewUserPreferencesRepository(db *database.UserPreferencesStore) UserPreferencesRepository {
	return &dynamoUserPreferencesRepository{
		db: db,
	}
}

func (r *dynamoUserPreferencesRepository) Get(ctx context.Context, userID string) (*models.UserPreferences, error) {
	return r.db.Get(ctx, userID)
}

func (r *dynamoUserPreferencesRepository) Put(ctx context.Context, prefs *models.UserPreferences) error {
	return r.db.Put(ctx, prefs)
}

type dynamoBannerRepository struct {
	db *database.BannerStore
}

// NewBannerRepository creates a new DynamoDB-backed banner repository
func NewBannerRepository(db *database.BannerStore) BannerRepository {
	return &dynamoBannerRepository{
		db: db,
	}
}

func (r *dynamoBannerRepository) Get(ctx context.Context) (*models.Banner, error) {
	return r.db.Get(ctx)
}

func (r *dynamoBannerRepository) Put(ctx context.Context, banner *models.Banner) error {
	return r.db.Put(ctx, banner)
}

func (r *dynamoBannerRepository) Delete(ctx context.Context) error {
	return r.db.Delete(ctx)
}
