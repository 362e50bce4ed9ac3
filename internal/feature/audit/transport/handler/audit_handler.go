// Package handler はaudit logのHTTPハンドラーとシステムトークン認証を提供します。
package handler

import (
	"context"
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"jar_backend/internal/api"
	"jar_backend/internal/feature/audit/domain/entity"
	"jar_backend/internal/platform/http/response"
	"jar_backend/internal/shared/apperr"
)

// SystemTokenHeader carries the operator token.
const SystemTokenHeader = "X-System-Token"

var (
	errSystemAccessDisabled = apperr.New(apperr.KindUnavailable, "System access is not configured")
	errInvalidSystemToken   = apperr.Forbidden("Invalid system token")
)

// AuditUsecase は監査ログ参照のユースケースを定義します。
type AuditUsecase interface {
	List(ctx context.Context) ([]entity.AuditLog, error)
}

// AuditHandler は監査ログAPIのHTTPリクエストを処理します。
type AuditHandler struct {
	audit AuditUsecase
}

// NewAuditHandler は AuditHandler を生成します。
func NewAuditHandler(audit AuditUsecase) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /api/audit-logs.
func (h *AuditHandler) List(c *gin.Context) {
	logs, err := h.audit.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]api.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, api.AuditLogResponse{
			Id:        l.ID,
			UserId:    l.UserID,
			Action:    l.Action,
			Details:   l.Details,
			CreatedAt: l.CreatedAt,
		})
	}
	response.OK(c, out)
}

// RequireSystemToken allows only requests whose X-System-Token equals token.
// An empty token disables the protected routes with 503.
func RequireSystemToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.Abort(c, errSystemAccessDisabled)
			return
		}
		got := c.GetHeader(SystemTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Abort(c, errInvalidSystemToken)
			return
		}
		c.Next()
	}
}
