// Package adapters はjarフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jar_backend/internal/feature/jar/domain"
	"jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/feature/jar/usecase"
	"jar_backend/internal/platform/db"
)

// entryGorm はEntryRepositoryインターフェースのGORM実装です。
type entryGorm struct {
	db *gorm.DB
}

var _ usecase.EntryRepository = (*entryGorm)(nil)

// NewEntryGorm は指定されたgorm.DB接続でentryGormを生成します。
func NewEntryGorm(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

// Create はエントリを保存します。
// response_to のユニーク制約違反は、同じ better choice への二重応答として返します。
func (r *entryGorm) Create(ctx context.Context, e *entity.JarEntry) error {
	if e == nil {
		return errors.New("entry is nil")
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return domain.ErrAlreadyResponded
		}
		return err
	}
	return nil
}

// FindByID はIDでエントリを取得します。
func (r *entryGorm) FindByID(ctx context.Context, id string) (*entity.JarEntry, error) {
	if id == "" {
		return nil, usecase.ErrEntryNotFound
	}
	var e entity.JarEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListByFamily は家族の全エントリを作成日時の昇順で返します。
func (r *entryGorm) ListByFamily(ctx context.Context, familyID string) ([]entity.JarEntry, error) {
	var entries []entity.JarEntry
	err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Update は本文とメタデータだけを更新します。
func (r *entryGorm) Update(ctx context.Context, e *entity.JarEntry) error {
	res := r.db.WithContext(ctx).Model(e).Select("content", "metadata", "updated_at").Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrEntryNotFound
	}
	return nil
}

// Delete はエントリとその応答をまとめて削除します。
func (r *entryGorm) Delete(ctx context.Context, familyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("family_id = ? AND response_to = ?", familyID, id).Delete(&entity.JarEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("family_id = ? AND id = ?", familyID, id).Delete(&entity.JarEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrEntryNotFound
		}
		return nil
	})
}

// HasResponse は better choice に応答が存在するかを返します。
func (r *entryGorm) HasResponse(ctx context.Context, entryID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.JarEntry{}).Where("response_to = ?", entryID).Count(&n).Error
	return n > 0, err
}
