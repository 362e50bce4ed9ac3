package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/feature/auth/usecase"
)

// tokenGorm stores verification and reset tokens.
type tokenGorm struct {
	db *gorm.DB
}

var _ usecase.TokenRepository = (*tokenGorm)(nil)

// NewTokenGorm creates a token repository.
func NewTokenGorm(db *gorm.DB) *tokenGorm {
	return &tokenGorm{db: db}
}

// FindVerification returns usecase.ErrInvalidToken when no token matches.
func (r *tokenGorm) FindVerification(ctx context.Context, tokenHash string) (*entity.EmailVerificationToken, error) {
	var t entity.EmailVerificationToken
	if err := r.findByHash(ctx, tokenHash, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenGorm) DeleteVerifications(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.EmailVerificationToken{}).Error
}

func (r *tokenGorm) CreateReset(ctx context.Context, t *entity.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindReset returns usecase.ErrInvalidToken when no token matches.
func (r *tokenGorm) FindReset(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	var t entity.PasswordResetToken
	if err := r.findByHash(ctx, tokenHash, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenGorm) DeleteResets(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.PasswordResetToken{}).Error
}

func (r *tokenGorm) findByHash(ctx context.Context, tokenHash string, dest any) error {
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.ErrInvalidToken
	}
	return err
}
