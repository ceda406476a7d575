package main

import (
	"context"

	"gorm.io/gorm"
)

type MLModelStore interface {
	List(ctx context.Context) ([]MLModel, error)
	Active(ctx context.Context) ([]MLModel, error)
}

type gormMLModelStore struct {
	db *gorm.DB
}

func newGormMLModelStore(db *gorm.DB) *gormMLModelStore {
	return &gormMLModelStore{db: db}
}

func (s *gormMLModelStore) List(ctx context.Context) ([]MLModel, error) {
	var models []MLModel
	err := s.db.WithContext(ctx).
		Order("name, trained_at DESC").
		Find(&models).Error
	return models, err
}

// Active returns the serving model per name (training marks at most one row
// active for each name).
func (s *gormMLModelStore) Active(ctx context.Context) ([]MLModel, error) {
	var models []MLModel
	err := s.db.WithContext(ctx).
		Where("is_active").
		Order("name").
		Find(&models).Error
	return models, err
}
