package di

import (
	auditentity "jar_backend/internal/feature/audit/domain/entity"
	authentity "jar_backend/internal/feature/auth/domain/entity"
	familyentity "jar_backend/internal/feature/family/domain/entity"
	jarentity "jar_backend/internal/feature/jar/domain/entity"
	notificationentity "jar_backend/internal/feature/notification/domain/entity"
	prefentity "jar_backend/internal/feature/preferences/domain/entity"
)

// Models returns every persisted model in migration order.
func Models() []any {
	return []any{
		&familyentity.Family{},
		&authentity.User{},
		&authentity.EmailVerificationToken{},
		&authentity.PasswordResetToken{},
		&familyentity.FamilyInvitation{},
		&jarentity.JarEntry{},
		&prefentity.NotificationPreference{},
		&notificationentity.Notification{},
		&auditentity.AuditLog{},
	}
}
