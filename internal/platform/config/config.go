// Package config はアプリケーション設定を環境変数から読み込みます。
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jar_backend/internal/shared/access"
)

// Config はサーバーとバッチが共有する設定値です。
type Config struct {
	Port     string
	Env      string
	LogLevel slog.Level

	JWTSecret    string
	JWTExpiresIn time.Duration

	CORSOrigins  []string
	ClientAppURL string
	ChildName    string

	EmailFrom          string
	EmailFromName      string
	AWSRegion          string
	EmailTestRecipient string

	SystemAccessToken string

	ResetTokenTTL        time.Duration
	VerificationTokenTTL time.Duration
	InviteTokenTTL       time.Duration

	DailyCron  string
	WeeklyCron string

	// PDFFontPath はPDF出力に使うUTF-8対応TTFのパスです。空ならコアフォント（cp1252）を使います。
	PDFFontPath string

	// AllowedEmails は家族ロールごとに登録を許可するメールアドレスです（未設定なら制限なし）。
	AllowedEmails map[access.FamilyRole]string
}

// ErrMissingJWTSecret is returned in production when JWT_SECRET is empty.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// Load は .env（存在すれば）と環境変数から設定を組み立てます。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not loaded, using process environment", "reason", err)
	}
	return FromEnv()
}

// FromEnv は現在の環境変数だけから設定を組み立てます。
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiresIn: getDuration("JWT_EXPIRES_IN", 24*time.Hour),

		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ClientAppURL: getEnv("CLIENT_APP_URL", "http://localhost:5173"),
		ChildName:    strings.TrimSpace(getEnv("CHILD_NAME", "Child")),

		EmailFrom:          getEnv("EMAIL_FROM", "no-reply@growth-jar.local"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Growth Jar"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		EmailTestRecipient: os.Getenv("EMAIL_TEST_RECIPIENT"),

		SystemAccessToken: os.Getenv("SYSTEM_ACCESS_TOKEN"),

		ResetTokenTTL:        time.Duration(getInt("RESET_TOKEN_EXPIRES_MINUTES", 60)) * time.Minute,
		VerificationTokenTTL: time.Duration(getInt("VERIFICATION_TOKEN_EXPIRES_MINUTES", 1440)) * time.Minute,
		InviteTokenTTL:       time.Duration(getInt("INVITE_TOKEN_EXPIRES_MINUTES", 10080)) * time.Minute,

		DailyCron:  os.Getenv("NOTIFICATION_DAILY_CRON"),
		WeeklyCron: os.Getenv("NOTIFICATION_WEEKLY_CRON"),

		PDFFontPath: strings.TrimSpace(os.Getenv("PDF_FONT_PATH")),

		AllowedEmails: map[access.FamilyRole]string{},
	}

	if cfg.ChildName == "" {
		cfg.ChildName = "Child"
	}

	cfg.LogLevel = parseLevel(os.Getenv("LOG_LEVEL"), cfg.IsProduction())

	for _, role := range access.FamilyRoles {
		key := "AUTH_" + strings.ToUpper(string(role)) + "_EMAIL"
		if v := strings.ToLower(strings.TrimSpace(os.Getenv(key))); v != "" {
			cfg.AllowedEmails[role] = v
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		slog.Warn("JWT_SECRET is not set. Using an insecure development secret.")
		cfg.JWTSecret = "dev-insecure-secret"
	}

	return cfg, nil
}

// IsProduction は本番環境かどうかを返します。
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// JarName は子どもの名前から「○○’s Jar」を組み立てます。
func (c *Config) JarName() string {
	return JarName(c.ChildName)
}

// JarName returns the possessive jar title for a child name.
// Names ending in "s" take only the apostrophe.
func JarName(childName string) string {
	name := strings.TrimSpace(childName)
	if name == "" {
		return "Growth Jar"
	}
	if strings.HasSuffix(strings.ToLower(name), "s") {
		return name + "’ Jar"
	}
	return name + "’s Jar"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer env value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(v string, production bool) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if production {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
