package adapters

import (
	"context"

	"gorm.io/gorm"

	"jar_backend/internal/feature/notification/domain/entity"
	"jar_backend/internal/feature/notification/usecase"
)

type notificationGorm struct {
	db *gorm.DB
}

var _ usecase.NotificationRepository = (*notificationGorm)(nil)

// NewNotificationGorm は指定されたgorm.DB接続でnotificationGormを生成します。
func NewNotificationGorm(db *gorm.DB) *notificationGorm {
	return &notificationGorm{db: db}
}

func (r *notificationGorm) Create(ctx context.Context, n *entity.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByFamily は送信日時の新しい順に返します。
func (r *notificationGorm) ListByFamily(ctx context.Context, familyID string) ([]entity.Notification, error) {
	var out []entity.Notification
	err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("sent_at DESC").
		Find(&out).Error
	return out, err
}
