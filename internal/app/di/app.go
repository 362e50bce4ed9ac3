package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"jar_backend/internal/app/router"
	auditadapters "jar_backend/internal/feature/audit/adapters"
	audithandler "jar_backend/internal/feature/audit/transport/handler"
	auditusecase "jar_backend/internal/feature/audit/usecase"
	authadapters "jar_backend/internal/feature/auth/adapters"
	authhandler "jar_backend/internal/feature/auth/transport/handler"
	authusecase "jar_backend/internal/feature/auth/usecase"
	exportadapters "jar_backend/internal/feature/export/adapters"
	exporthandler "jar_backend/internal/feature/export/transport/handler"
	exportusecase "jar_backend/internal/feature/export/usecase"
	familyadapters "jar_backend/internal/feature/family/adapters"
	familyhandler "jar_backend/internal/feature/family/transport/handler"
	familyusecase "jar_backend/internal/feature/family/usecase"
	jardomain "jar_backend/internal/feature/jar/domain"
	jarhandler "jar_backend/internal/feature/jar/transport/handler"
	jarusecase "jar_backend/internal/feature/jar/usecase"
	notificationadapters "jar_backend/internal/feature/notification/adapters"
	notificationdomain "jar_backend/internal/feature/notification/domain"
	"jar_backend/internal/feature/notification/domain/entity"
	"jar_backend/internal/feature/notification/render"
	notificationhandler "jar_backend/internal/feature/notification/transport/handler"
	"jar_backend/internal/feature/notification/transport/scheduler"
	notificationusecase "jar_backend/internal/feature/notification/usecase"
	prefadapters "jar_backend/internal/feature/preferences/adapters"
	prefhandler "jar_backend/internal/feature/preferences/transport/handler"
	prefusecase "jar_backend/internal/feature/preferences/usecase"
	"jar_backend/internal/platform/config"
	jwtmw "jar_backend/internal/platform/jwt"
	"jar_backend/internal/platform/mail"
)

// Notifier sends reminders outside an HTTP request.
type Notifier interface {
	SendForFamily(ctx context.Context, familyID string, kind entity.Kind) (*entity.Notification, error)
	SendScheduled(ctx context.Context, kind entity.Kind) (int, error)
}

// App is the wired application shared by the server and the CLI.
type App struct {
	Handlers  router.Handlers
	Notifier  Notifier
	Scheduler *scheduler.Scheduler
}

// NewApp wires repositories, use cases and handlers. rdb may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sender mail.Sender) *App {
	jarName := cfg.JarName()
	familyName := jarName + " Family"
	catalog := jardomain.NewCatalog(cfg.ChildName)

	// Repository
	users := authadapters.NewUserGorm(db)
	tokens := authadapters.NewTokenGorm(db)
	families := familyadapters.NewFamilyGorm(db)
	entries := NewEntryRepository(rdb, db)
	prefs := prefadapters.NewPreferenceGorm(db)
	notifications := notificationadapters.NewNotificationGorm(db)
	audits := auditadapters.NewAuditGorm(db)

	mailer := notificationadapters.NewEmailMailer(sender, render.NewComposer(jarName, cfg.ClientAppURL))

	// Usecase
	auditUC := auditusecase.NewAuditUsecase(audits)
	prefUC := prefusecase.NewPreferencesUsecase(prefs, users, auditUC)
	notificationUC := notificationusecase.NewNotificationUsecase(
		notifications,
		families,
		users,
		entries,
		prefUC,
		mailer,
		auditUC,
		notificationdomain.NewBuilder(catalog, familyName),
	)
	authUC := authusecase.NewAuthUsecase(users, families, tokens, mailer, auditUC,
		jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiresIn),
		authusecase.Config{
			VerificationTTL: cfg.VerificationTokenTTL,
			ResetTTL:        cfg.ResetTokenTTL,
			AllowedEmails:   cfg.AllowedEmails,
			BcryptCost:      authusecase.DefaultBcryptCost,
		})
	familyUC := familyusecase.NewFamilyUsecase(families, users, mailer, auditUC, cfg.InviteTokenTTL, familyName)
	jarUC := jarusecase.NewJarUsecase(entries, users, notificationUC, auditUC, catalog)
	exportUC := exportusecase.NewExportUsecase(entries, users,
		exportadapters.NewCSVEncoder(), NewPDFEncoder(cfg.PDFFontPath), auditUC, jarName)

	return &App{
		Handlers: router.Handlers{
			Auth:          authhandler.NewAuthHandler(authUC, authhandler.PageConfig{JarName: jarName, ClientAppURL: cfg.ClientAppURL}),
			Family:        familyhandler.NewFamilyHandler(familyUC),
			Jar:           jarhandler.NewJarHandler(jarUC),
			Preferences:   prefhandler.NewPreferencesHandler(prefUC),
			Notifications: notificationhandler.NewNotificationHandler(notificationUC),
			Exports:       exporthandler.NewExportHandler(exportUC),
			Audit:         audithandler.NewAuditHandler(auditUC),
		},
		Notifier:  notificationUC,
		Scheduler: scheduler.New(notificationUC, cfg.DailyCron, cfg.WeeklyCron),
	}
}
