package main

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// MatchFilter narrows match listings. Zero values mean "no filter".
type MatchFilter struct {
	DivisionID uint
	TeamID     uint // matches where the team played home or away
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

type MatchStore interface {
	List(ctx context.Context, f MatchFilter) ([]Match, int64, error)
	Get(ctx context.Context, id uint) (*Match, error)
}

type gormMatchStore struct {
	db *gorm.DB
}

func newGormMatchStore(db *gorm.DB) *gormMatchStore {
	return &gormMatchStore{db: db}
}

func (s *gormMatchStore) List(ctx context.Context, f MatchFilter) ([]Match, int64, error) {
	q := s.db.WithContext(ctx).Model(&Match{})
	if f.DivisionID != 0 {
		q = q.Where("division_id = ?", f.DivisionID)
	}
	if f.TeamID != 0 {
		q = q.Where("home_team_id = ? OR away_team_id = ?", f.TeamID, f.TeamID)
	}
	if !f.From.IsZero() {
		q = q.Where("match_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("match_date <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var matches []Match
	err := q.Order("match_date DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&matches).Error
	return matches, total, err
}

func (s *gormMatchStore) Get(ctx context.Context, id uint) (*Match, error) {
	var m Match
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
