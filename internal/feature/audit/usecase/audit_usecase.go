// Package usecase は監査ログの記録と参照を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jar_backend/internal/feature/audit/domain/entity"
)

// ListLimit is the number of logs returned by List.
const ListLimit = 200

// AuditRepository persists audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditUsecase struct {
	repo    AuditRepository
	timeout time.Duration
}

// NewAuditUsecase creates the audit use case. It is also the AuditRecorder
// handed to every other feature.
func NewAuditUsecase(repo AuditRepository) *auditUsecase {
	return &auditUsecase{repo: repo, timeout: 5 * time.Second}
}

// Record persists an audit event. Failures are logged and never returned so
// the operation being audited is not affected. An empty userID is stored as NULL.
func (u *auditUsecase) Record(ctx context.Context, userID, action string, details map[string]any) {
	log := &entity.AuditLog{Action: action, Details: details}
	if userID != "" {
		log.UserID = &userID
	}
	if log.Details == nil {
		log.Details = map[string]any{}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.timeout)
	defer cancel()
	if err := u.repo.Create(ctx, log); err != nil {
		slog.Error("failed to record audit log", "action", action, "userId", userID, "error", err)
		return
	}
	slog.Info("audit log recorded", "action", action, "userId", userID)
}

// List returns the most recent audit logs, newest first.
func (u *auditUsecase) List(ctx context.Context) ([]entity.AuditLog, error) {
	logs, err := u.repo.ListRecent(ctx, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
