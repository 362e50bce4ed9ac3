// Package handler はnotification preferencesのHTTPハンドラーを提供します。
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"jar_backend/internal/api"
	"jar_backend/internal/feature/preferences/domain"
	"jar_backend/internal/platform/http/response"
	jwtmw "jar_backend/internal/platform/jwt"
)

// PreferencesUsecase は通知設定のユースケースを定義します。
type PreferencesUsecase interface {
	Get(ctx context.Context, userID string) (domain.Preferences, error)
	Update(ctx context.Context, userID string, partial map[string]any) (domain.Preferences, error)
}

// PreferencesHandler は通知設定APIのHTTPリクエストを処理します。
type PreferencesHandler struct {
	prefs PreferencesUsecase
}

// NewPreferencesHandler は PreferencesHandler を生成します。
func NewPreferencesHandler(prefs PreferencesUsecase) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// Get handles GET /api/notification-preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	p, err := h.prefs.Get(c.Request.Context(), s.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(p))
}

// Update handles PUT /api/notification-preferences.
// The body is a partial object; field types are checked by the resolver.
func (h *PreferencesHandler) Update(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.prefs.Update(c.Request.Context(), s.UserID, partial)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(p))
}

func toResponse(p domain.Preferences) api.NotificationPreferences {
	return api.NotificationPreferences{
		DailyReminder:           p.DailyReminder,
		WeeklyReminder:          p.WeeklyReminder,
		EntryAlerts:             p.EntryAlerts,
		SummaryEmail:            p.SummaryEmail,
		PreferredReflectionTime: p.PreferredReflectionTime,
	}
}
