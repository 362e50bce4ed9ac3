// Package adapters はaudit logのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"jar_backend/internal/feature/audit/domain/entity"
	"jar_backend/internal/feature/audit/usecase"
)

type auditGorm struct {
	db *gorm.DB
}

var _ usecase.AuditRepository = (*auditGorm)(nil)

// NewAuditGorm は指定されたgorm.DB接続でauditGormを生成します。
func NewAuditGorm(db *gorm.DB) *auditGorm {
	return &auditGorm{db: db}
}

func (r *auditGorm) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListRecent は作成日時の新しい順に最大limit件を返します。
func (r *auditGorm) ListRecent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	var out []entity.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}
