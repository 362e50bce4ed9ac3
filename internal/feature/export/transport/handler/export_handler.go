// Package handler はjarエントリのエクスポートAPIを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"jar_backend/internal/feature/export/usecase"
	"jar_backend/internal/platform/http/response"
	jwtmw "jar_backend/internal/platform/jwt"
)

// ExportUsecase はエクスポートファイルの生成を定義します。
type ExportUsecase interface {
	Export(ctx context.Context, userID, familyID, period string, format usecase.Format) ([]byte, error)
}

type ExportHandler struct {
	exports ExportUsecase
}

// NewExportHandler は ExportHandler を生成します。
func NewExportHandler(exports ExportUsecase) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// CSV handles GET /api/exports/csv?family_id=&period=.
func (h *ExportHandler) CSV(c *gin.Context) {
	h.serve(c, usecase.FormatCSV, "text/csv; charset=utf-8")
}

// PDF handles GET /api/exports/pdf?family_id=&period=.
func (h *ExportHandler) PDF(c *gin.Context) {
	h.serve(c, usecase.FormatPDF, "application/pdf")
}

func (h *ExportHandler) serve(c *gin.Context, format usecase.Format, contentType string) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	data, err := h.exports.Export(c.Request.Context(), s.UserID, c.Query("family_id"), c.Query("period"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="jar-entries.`+string(format)+`"`)
	c.Data(http.StatusOK, contentType, data)
}
