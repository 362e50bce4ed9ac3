package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jar_backend/internal/shared/access"
)

// TestFromEnv_Defaults は環境変数が未設定の場合にデフォルト値が使われることを検証します。
func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CHILD_NAME", "")
	t.Setenv("RESET_TOKEN_EXPIRES_MINUTES", "")
	t.Setenv("AUTH_MOM_EMAIL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")
	t.Setenv("CLIENT_APP_URL", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("VERIFICATION_TOKEN_EXPIRES_MINUTES", "")
	for _, k := range []string{"AUTH_DAD_EMAIL", "AUTH_CHILD_EMAIL"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Child", cfg.ChildName)
	assert.Equal(t, 60*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 1440*time.Minute, cfg.VerificationTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "http://localhost:5173", cfg.ClientAppURL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Empty(t, cfg.AllowedEmails)
}

// TestFromEnv_ProductionRequiresSecret は本番環境でJWT_SECRETが必須であることを検証します。
func TestFromEnv_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AUTH_MOM_EMAIL", " Mom@Example.com ")
	t.Setenv("AUTH_CHILD_EMAIL", "kid@example.com")
	t.Setenv("RESET_TOKEN_EXPIRES_MINUTES", "not-a-number")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("PDF_FONT_PATH", " /fonts/NotoSans-Regular.ttf ")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "mom@example.com", cfg.AllowedEmails[access.FamilyRoleMom])
	assert.Equal(t, "kid@example.com", cfg.AllowedEmails[access.FamilyRoleChild])
	_, hasDad := cfg.AllowedEmails[access.FamilyRoleDad]
	assert.False(t, hasDad)
	assert.Equal(t, 60*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "/fonts/NotoSans-Regular.ttf", cfg.PDFFontPath)
	assert.True(t, cfg.IsProduction())
}

// TestJarName は所有格の組み立てを検証します。
func TestJarName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Rishi", "Rishi’s Jar"},
		{"James", "James’ Jar"},
		{"  ", "Growth Jar"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, JarName(tt.in))
		})
	}
}
