// Package adapters はfamilyフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	authusecase "jar_backend/internal/feature/auth/usecase"
	"jar_backend/internal/feature/family/domain/entity"
	"jar_backend/internal/feature/family/usecase"
)

// familyGorm は家族と招待のGORM実装です。
type familyGorm struct {
	db *gorm.DB
}

var (
	_ usecase.FamilyRepository     = (*familyGorm)(nil)
	_ authusecase.FamilyRepository = (*familyGorm)(nil)
)

// NewFamilyGorm は familyGorm を生成します。
func NewFamilyGorm(db *gorm.DB) *familyGorm {
	return &familyGorm{db: db}
}

func (r *familyGorm) Create(ctx context.Context, f *entity.Family) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// FindByID returns usecase.ErrFamilyNotFound when the family does not exist.
func (r *familyGorm) FindByID(ctx context.Context, id string) (*entity.Family, error) {
	var f entity.Family
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrFamilyNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *familyGorm) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Family{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// FirstOrCreate returns the oldest family, creating an unnamed one on first signup.
func (r *familyGorm) FirstOrCreate(ctx context.Context) (string, error) {
	var f entity.Family
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&f).Error
	if err == nil {
		return f.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if err := r.Create(ctx, &f); err != nil {
		return "", err
	}
	return f.ID, nil
}

// List returns every family, oldest first.
func (r *familyGorm) List(ctx context.Context) ([]entity.Family, error) {
	var out []entity.Family
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *familyGorm) CreateInvitation(ctx context.Context, inv *entity.FamilyInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// FindInvitation returns usecase.ErrInvalidInvitation when no invitation matches.
func (r *familyGorm) FindInvitation(ctx context.Context, tokenHash string) (*entity.FamilyInvitation, error) {
	var inv entity.FamilyInvitation
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrInvalidInvitation
		}
		return nil, err
	}
	return &inv, nil
}

func (r *familyGorm) DeleteInvitation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.FamilyInvitation{}).Error
}
