package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"secondhand-market/internal/model"
)

type GarmentRepository struct {
	db *gorm.DB
}

func NewGarmentRepository(db *gorm.DB) *GarmentRepository {
	return &GarmentRepository{db: db}
}

func (r *GarmentRepository) Create(ctx context.Context, garment *model.Garment) error {
	if err := r.db.WithContext(ctx).Create(garment).Error; err != nil {
		return fmt.Errorf("create garment failed: %w", err)
	}
	return nil
}

func (r *GarmentRepository) GetByID(ctx context.Context, id uint) (*model.Garment, error) {
	var garment model.Garment
	if err := r.db.WithContext(ctx).First(&garment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query garment by id failed: %w", err)
	}
	return &garment, nil
}

func (r *GarmentRepository) List(ctx context.Context) ([]model.Garment, error) {
	var garments []model.Garment
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&garments).Error; err != nil {
		return nil, fmt.Errorf("list garments failed: %w", err)
	}
	return garments, nil
}

func (r *GarmentRepository) ListByType(ctx context.Context, garmentType string) ([]model.Garment, error) {
	var garments []model.Garment
	if err := r.db.WithContext(ctx).Where("type = ?", garmentType).Order("id ASC").Find(&garments).Error; err != nil {
		return nil, fmt.Errorf("list garments by type failed: %w", err)
	}
	return garments, nil
}

func (r *GarmentRepository) ListByPublisher(ctx context.Context, publisherID uint) ([]model.Garment, error) {
	var garments []model.Garment
	if err := r.db.WithContext(ctx).Where("publisher_id = ?", publisherID).Order("id ASC").Find(&garments).Error; err != nil {
		return nil, fmt.Errorf("list garments by publisher failed: %w", err)
	}
	return garments, nil
}

// Update writes the mutable listing fields only. Zero values are written too.
func (r *GarmentRepository) Update(ctx context.Context, garment *model.Garment) error {
	err := r.db.WithContext(ctx).
		Model(garment).
		Select("type", "description", "size", "price", "updated_at").
		Updates(garment).Error
	if err != nil {
		return fmt.Errorf("update garment failed: %w", err)
	}
	return nil
}

func (r *GarmentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Garment{}, id).Error; err != nil {
		return fmt.Errorf("delete garment failed: %w", err)
	}
	return nil
}
