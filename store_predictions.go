package main

import (
	"context"

	"gorm.io/gorm"
)

type PredictionStore interface {
	ListByMatch(ctx context.Context, matchID uint) ([]Prediction, error)
	Create(ctx context.Context, p *Prediction) error
}

type gormPredictionStore struct {
	db *gorm.DB
}

func newGormPredictionStore(db *gorm.DB) *gormPredictionStore {
	return &gormPredictionStore{db: db}
}

func (s *gormPredictionStore) ListByMatch(ctx context.Context, matchID uint) ([]Prediction, error) {
	var preds []Prediction
	err := s.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("id").
		Find(&preds).Error
	return preds, err
}

func (s *gormPredictionStore) Create(ctx context.Context, p *Prediction) error {
	return s.db.WithContext(ctx).Create(p).Error
}
