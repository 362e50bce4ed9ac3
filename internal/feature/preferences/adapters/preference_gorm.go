// Package adapters はnotification preferencesのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jar_backend/internal/feature/preferences/domain/entity"
	"jar_backend/internal/feature/preferences/usecase"
)

type preferenceGorm struct {
	db *gorm.DB
}

var _ usecase.PreferenceRepository = (*preferenceGorm)(nil)

// NewPreferenceGorm は指定されたgorm.DB接続でpreferenceGormを生成します。
func NewPreferenceGorm(db *gorm.DB) *preferenceGorm {
	return &preferenceGorm{db: db}
}

// Find は家族の設定行を返します。行がなければ nil, nil を返します。
func (r *preferenceGorm) Find(ctx context.Context, familyID string) (*entity.NotificationPreference, error) {
	var p entity.NotificationPreference
	err := r.db.WithContext(ctx).Where("family_id = ?", familyID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert は family_id の衝突時に全カラムを更新します。
func (r *preferenceGorm) Upsert(ctx context.Context, p *entity.NotificationPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "family_id"}},
		UpdateAll: true,
	}).Create(p).Error
}
