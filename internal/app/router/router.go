// Package router はginエンジンの生成とルーティングを行います。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	audithandler "jar_backend/internal/feature/audit/transport/handler"
	authhandler "jar_backend/internal/feature/auth/transport/handler"
	exporthandler "jar_backend/internal/feature/export/transport/handler"
	familyhandler "jar_backend/internal/feature/family/transport/handler"
	jarhandler "jar_backend/internal/feature/jar/transport/handler"
	notificationhandler "jar_backend/internal/feature/notification/transport/handler"
	prefhandler "jar_backend/internal/feature/preferences/transport/handler"
	"jar_backend/internal/platform/http/handler"
	"jar_backend/internal/platform/http/middleware"
	jwtmw "jar_backend/internal/platform/jwt"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/ratelimiter"
)

// Config はルーターの設定値です。
type Config struct {
	JWTSecret         string
	CORSOrigins       []string
	SystemAccessToken string
	Started           time.Time
}

// Handlers は各機能のHTTPハンドラーをまとめたものです。
type Handlers struct {
	Auth          *authhandler.AuthHandler
	Family        *familyhandler.FamilyHandler
	Jar           *jarhandler.JarHandler
	Preferences   *prefhandler.PreferencesHandler
	Notifications *notificationhandler.NotificationHandler
	Exports       *exporthandler.ExportHandler
	Audit         *audithandler.AuditHandler
}

// NewRouter はミドルウェアと全ルートを登録したginエンジンを返します。
func NewRouter(cfg Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// 全体: 1分あたり200リクエスト / 認証: 15分あたり20リクエスト
	general := ratelimiter.NewIPRateLimiter(200, time.Minute)
	authLimiter := ratelimiter.NewIPRateLimiter(20, 15*time.Minute)
	r.Use(general.Middleware())

	// 導通確認用
	health := handler.Health(cfg.Started)
	r.GET("/health", health)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// メール内リンクから開かれるHTMLページ
	r.GET("/verify-email", h.Auth.VerifyEmailPage)

	api := r.Group("/api")

	// 認証不要
	auth := api.Group("/auth", authLimiter.Middleware())
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/request-password-reset", h.Auth.RequestPasswordReset)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
	api.POST("/families/accept-invite", h.Family.AcceptInvite)

	// システムトークン必須
	api.GET("/audit-logs", audithandler.RequireSystemToken(cfg.SystemAccessToken), h.Audit.List)

	// 認証必須のルート
	authed := api.Group("/", jwtmw.AuthRequired(cfg.JWTSecret))
	{
		families := authed.Group("/families")
		families.POST("", jwtmw.RequirePermission(access.ActionFamilyCreate), h.Family.Create)
		families.POST("/invite", jwtmw.RequirePermission(access.ActionFamilyInvite), h.Family.Invite)
		families.GET("/:id", h.Family.Get)

		// 作成時の権限はエントリ種別ごとにユースケースで判定する
		entries := authed.Group("/jar-entries")
		entries.POST("", h.Jar.Create)
		entries.GET("", jwtmw.RequirePermission(access.ActionViewJar), h.Jar.List)
		entries.GET("/summary/data", jwtmw.RequirePermission(access.ActionViewJar), h.Jar.Summary)
		entries.GET("/timeline/data", jwtmw.RequirePermission(access.ActionViewJar), h.Jar.Timeline)
		entries.GET("/:id", jwtmw.RequirePermission(access.ActionViewJar), h.Jar.Get)
		entries.PUT("/:id", jwtmw.RequirePermission(access.ActionEditEntry), h.Jar.Update)
		entries.DELETE("/:id", jwtmw.RequirePermission(access.ActionEditEntry), h.Jar.Delete)
		entries.POST("/:id/respond", jwtmw.RequirePermission(access.ActionRespondBetterChoice), h.Jar.Respond)

		authed.GET("/notification-preferences", h.Preferences.Get)
		authed.PUT("/notification-preferences", h.Preferences.Update)

		authed.POST("/notifications/send", jwtmw.RequirePermission(access.ActionSendNotification), h.Notifications.Send)
		authed.GET("/notifications", h.Notifications.List)

		authed.GET("/exports/csv", jwtmw.RequirePermission(access.ActionExportJar), h.Exports.CSV)
		authed.GET("/exports/pdf", jwtmw.RequirePermission(access.ActionExportJar), h.Exports.PDF)
	}

	return r
}

// corsConfig は許可オリジンを設定します。空なら全オリジンを許可します。
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", audithandler.SystemTokenHeader},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}
