package main

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserStore is the gateway the auth flows depend on. Lookups skip
// soft-deleted rows. Not-found and duplicate-email failures surface as the
// taxonomy sentinels so handlers can errors.Is on them.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Create(ctx context.Context, u *User) error
}

type gormUserStore struct {
	db *gorm.DB
}

func newGormUserStore(db *gorm.DB) *gormUserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).
		Where("email = ? AND NOT is_deleted", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).
		Where("id = ? AND NOT is_deleted", id).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user. The unique index on email is the real uniqueness
// guarantee: if the register pre-check lost a race, the constraint violation
// still comes back as ErrUserAlreadyExists.
func (s *gormUserStore) Create(ctx context.Context, u *User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if isUniqueViolation(err) {
		return ErrUserAlreadyExists
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
