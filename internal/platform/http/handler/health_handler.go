// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health は /health と /healthz を処理するハンドラーを返します。
// started からの経過秒数を uptime として返し、キャッシュを防止します。
func Health(started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			uptime := time.Since(started).Seconds()
			c.JSON(http.StatusOK, gin.H{"status": "ok", "uptime": math.Round(uptime*1000) / 1000})
		}
	}
}
