package repository

import (
	"context"
	"price-manager-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceChangeRepository is the append-only journal of price writes.
type PriceChangeRepository interface {
	Create(ctx context.Context, change *models.PriceChange) error
	List(ctx context.Context, filter models.PriceChangeFilter) ([]models.PriceChange, int64, error)
}

// GormPriceChangeRepository implements PriceChangeRepository using GORM.
type GormPriceChangeRepository struct {
	db *gorm.DB
}

func NewGormPriceChangeRepository(db *gorm.DB) PriceChangeRepository {
	return &GormPriceChangeRepository{db: db}
}

func (r *GormPriceChangeRepository) Create(ctx context.Context, change *models.PriceChange) error {
	if change.ID == uuid.Nil {
		change.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(change).Error
}

// List expects filter.Page and filter.PageSize to be positive.
func (r *GormPriceChangeRepository) List(ctx context.Context, filter models.PriceChangeFilter) ([]models.PriceChange, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.PriceChange{})
		if filter.SKU != "" {
			q = q.Where("sku = ?", filter.SKU)
		}
		if filter.StoreCode != "" {
			q = q.Where("store_code = ?", filter.StoreCode)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	changes := []models.PriceChange{}
	offset := (filter.Page - 1) * filter.PageSize
	if err := scoped().
		Order("created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&changes).Error; err != nil {
		return nil, 0, err
	}
	return changes, total, nil
}
