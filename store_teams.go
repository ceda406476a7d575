package main

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type TeamStore interface {
	List(ctx context.Context, page, pageSize int) ([]Team, int64, error)
	Get(ctx context.Context, id uint) (*Team, error)
	StatsFor(ctx context.Context, teamID uint) (*TeamStats, error)
	EloHistoryFor(ctx context.Context, teamID uint, limit int) ([]EloHistory, error)
}

type gormTeamStore struct {
	db *gorm.DB
}

func newGormTeamStore(db *gorm.DB) *gormTeamStore {
	return &gormTeamStore{db: db}
}

func (s *gormTeamStore) List(ctx context.Context, page, pageSize int) ([]Team, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Team{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var teams []Team
	err := s.db.WithContext(ctx).
		Order("name").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&teams).Error
	return teams, total, err
}

func (s *gormTeamStore) Get(ctx context.Context, id uint) (*Team, error) {
	var t Team
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// StatsFor returns nil without error when the feature pipeline has not
// written a row for the team yet.
func (s *gormTeamStore) StatsFor(ctx context.Context, teamID uint) (*TeamStats, error) {
	var st TeamStats
	err := s.db.WithContext(ctx).Where("team_id = ?", teamID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *gormTeamStore) EloHistoryFor(ctx context.Context, teamID uint, limit int) ([]EloHistory, error) {
	var hist []EloHistory
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("date DESC").
		Limit(limit).
		Find(&hist).Error
	return hist, err
}
