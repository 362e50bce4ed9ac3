// Package handler はnotification機能のHTTPハンドラーを提供します。
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"jar_backend/internal/api"
	"jar_backend/internal/feature/notification/domain/entity"
	"jar_backend/internal/platform/http/response"
	jwtmw "jar_backend/internal/platform/jwt"
)

// NotificationUsecase は手動送信と履歴取得のユースケースを定義します。
type NotificationUsecase interface {
	Send(ctx context.Context, userID, familyID string, kind entity.Kind) (*entity.Notification, error)
	List(ctx context.Context, userID, familyID string) ([]entity.Notification, error)
}

// NotificationHandler は通知APIのHTTPリクエストを処理します。
type NotificationHandler struct {
	notifications NotificationUsecase
}

// NewNotificationHandler は NotificationHandler を生成します。
func NewNotificationHandler(notifications NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Send handles POST /api/notifications/send.
func (h *NotificationHandler) Send(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	var req api.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	n, err := h.notifications.Send(c.Request.Context(), s.UserID, req.FamilyId.String(), entity.Kind(req.Type))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(*n))
}

// List handles GET /api/notifications?family_id=.
func (h *NotificationHandler) List(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	list, err := h.notifications.List(c.Request.Context(), s.UserID, c.Query("family_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]api.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toResponse(n))
	}
	response.OK(c, out)
}

func toResponse(n entity.Notification) api.NotificationResponse {
	return api.NotificationResponse{
		Id:         n.ID,
		FamilyId:   n.FamilyID,
		Type:       string(n.Type),
		Recipients: n.Recipients,
		SentAt:     n.SentAt,
	}
}
