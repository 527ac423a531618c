package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUserConflict  = errors.New("user already exists")
	ErrTokenConflict = errors.New("refresh token already exists")
)

type Repo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

// Transaction runs fn against a transactional view of the repo. Any error
// rolls the whole unit back.
func (r *Repo) Transaction(ctx context.Context, fn func(tx *Repo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{DB: tx})
	})
}
