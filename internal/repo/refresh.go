package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mcreation/auth-service/internal/models"
)

// CreateRefreshToken relies on the unique index over token; a duplicate
// insert surfaces as ErrTokenConflict instead of an application-level check.
func (r *Repo) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTokenConflict
		}
		return err
	}
	return nil
}

// ActiveRefreshToken matches only unrevoked records. Expiry of the stored
// record is the caller's check.
func (r *Repo) ActiveRefreshToken(ctx context.Context, token string, userID uint) (*models.RefreshToken, error) {
	var rec models.RefreshToken
	err := r.DB.WithContext(ctx).
		Where("token = ? AND user_id = ? AND revoked = ?", token, userID, false).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// RevokeRefreshToken is idempotent: revoking an already-revoked or unknown
// token is a no-op, not an error.
func (r *Repo) RevokeRefreshToken(ctx context.Context, token string, userID uint) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND user_id = ?", token, userID).
		Update("revoked", true).Error
}

func (r *Repo) RevokeAllRefreshTokens(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
