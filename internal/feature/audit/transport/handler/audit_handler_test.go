package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"jar_backend/internal/feature/audit/domain/entity"
)

type mockAuditUsecase struct {
	ListFunc func(ctx context.Context) ([]entity.AuditLog, error)
}

func (m *mockAuditUsecase) List(ctx context.Context) ([]entity.AuditLog, error) {
	return m.ListFunc(ctx)
}

func newRouter(token string, uc AuditUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuditHandler(uc)
	r := gin.New()
	r.GET("/audit-logs", RequireSystemToken(token), h.List)
	return r
}

// TestAuditHandler_List はシステムトークンによるアクセス制御を検証します。
func TestAuditHandler_List(t *testing.T) {
	user := "user-1"
	uc := &mockAuditUsecase{ListFunc: func(context.Context) ([]entity.AuditLog, error) {
		return []entity.AuditLog{{
			ID:        "log-1",
			UserID:    &user,
			Action:    "USER_SIGNED_UP",
			Details:   map[string]any{"email": "mo***@example.com"},
			CreatedAt: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
		}}, nil
	}}

	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			configured: "s3cret",
			header:     "s3cret",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"success","data":[{"id":"log-1","userId":"user-1","action":"USER_SIGNED_UP","details":{"email":"mo***@example.com"},"createdAt":"2024-05-10T09:00:00Z"}]}`,
		},
		{
			name:       "wrong token",
			configured: "s3cret",
			header:     "guess",
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid system token"}`,
		},
		{
			name:       "missing header",
			configured: "s3cret",
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"error","message":"Invalid system token"}`,
		},
		{
			name:       "not configured",
			header:     "anything",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"error","message":"System access is not configured"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/audit-logs", nil)
			if tt.header != "" {
				req.Header.Set(SystemTokenHeader, tt.header)
			}
			w := httptest.NewRecorder()
			newRouter(tt.configured, uc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuditHandler_ListError(t *testing.T) {
	uc := &mockAuditUsecase{ListFunc: func(context.Context) ([]entity.AuditLog, error) {
		return nil, errors.New("db down")
	}}
	req := httptest.NewRequest(http.MethodGet, "/audit-logs", nil)
	req.Header.Set(SystemTokenHeader, "tok")
	w := httptest.NewRecorder()
	newRouter("tok", uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Internal server error"}`, w.Body.String())
}
