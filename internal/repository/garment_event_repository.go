package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"secondhand-market/internal/model"
)

type GarmentEventRepository struct {
	db *gorm.DB
}

func NewGarmentEventRepository(db *gorm.DB) *GarmentEventRepository {
	return &GarmentEventRepository{db: db}
}

func (r *GarmentEventRepository) Create(ctx context.Context, event *model.GarmentEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create garment event failed: %w", err)
	}
	return nil
}

func (r *GarmentEventRepository) ListByGarmentID(ctx context.Context, garmentID uint, limit int) ([]model.GarmentEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var events []model.GarmentEvent
	if err := r.db.WithContext(ctx).
		Where("garment_id = ?", garmentID).
		Order("occurred_at ASC, id ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list garment events failed: %w", err)
	}
	return events, nil
}
