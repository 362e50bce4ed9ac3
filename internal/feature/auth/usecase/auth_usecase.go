// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"jar_backend/internal/feature/auth/domain/entity"
	jwtmw "jar_backend/internal/platform/jwt"
	"jar_backend/internal/platform/mail"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/token"
)

// DefaultBcryptCost is the cost used for password hashes.
const DefaultBcryptCost = 12

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーと、verificationがnilでなければその確認トークンを同一トランザクションで永続化します。
	// メール重複やロール重複はErrEmailAlreadyExists / ErrFamilyRoleTakenになります。
	Create(ctx context.Context, user *entity.User, verification *entity.EmailVerificationToken) error
	// FindByEmail はメールアドレスに一致するユーザーを取得します。存在しない場合はErrUserNotFoundです。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByID はIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// ExistsFamilyRole は家族内でロールが使用済みかを返します。
	ExistsFamilyRole(ctx context.Context, familyID string, role access.FamilyRole) (bool, error)
	// MarkEmailVerified はメール確認済みにします。
	MarkEmailVerified(ctx context.Context, id string) error
	// UpdatePassword はパスワードハッシュを更新します。
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// FamilyRepository resolves the family a new user joins.
type FamilyRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	// FirstOrCreate returns the oldest family, creating one when none exists.
	FirstOrCreate(ctx context.Context) (string, error)
}

// TokenRepository stores hashed single-use tokens.
type TokenRepository interface {
	FindVerification(ctx context.Context, tokenHash string) (*entity.EmailVerificationToken, error)
	DeleteVerifications(ctx context.Context, userID string) error
	CreateReset(ctx context.Context, t *entity.PasswordResetToken) error
	FindReset(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)
	DeleteResets(ctx context.Context, userID string) error
}

// Mailer sends the account emails.
type Mailer interface {
	SendVerification(ctx context.Context, email, rawToken string) error
	SendPasswordReset(ctx context.Context, email, rawToken string) error
}

// AuditRecorder records security-relevant events. Failures are handled by the recorder.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	GenerateToken(claims jwtmw.Claims) (string, error)
	TTL() time.Duration
}

// Config holds the auth tunables.
type Config struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	// AllowedEmails restricts signup per family role. An absent role is unrestricted.
	AllowedEmails map[access.FamilyRole]string
	BcryptCost    int
}

// SignupInput is the validated signup request.
type SignupInput struct {
	Email      string
	Password   string
	FamilyRole access.FamilyRole
	FirstName  string
	LastName   string
	FamilyID   string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	families     FamilyRepository
	tokens       TokenRepository
	mailer       Mailer
	audit        AuditRecorder
	jwtGenerator JWTGenerator
	cfg          Config
	now          func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, families FamilyRepository, tokens TokenRepository, mailer Mailer, audit AuditRecorder, jwtGenerator JWTGenerator, cfg Config) *authUsecase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultBcryptCost
	}
	return &authUsecase{
		users:        users,
		families:     families,
		tokens:       tokens,
		mailer:       mailer,
		audit:        audit,
		jwtGenerator: jwtGenerator,
		cfg:          cfg,
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
// 確認メールの送信失敗はログに残すだけで登録自体は成功させます。
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)

	if allowed, ok := u.cfg.AllowedEmails[in.FamilyRole]; ok && allowed != email {
		return nil, ErrEmailNotAllowed
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	familyID, err := u.resolveFamily(ctx, in.FamilyID)
	if err != nil {
		return nil, err
	}

	taken, err := u.users.ExistsFamilyRole(ctx, familyID, in.FamilyRole)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrFamilyRoleTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         in.FamilyRole.UserRole(),
		FamilyRole:   in.FamilyRole,
		FamilyID:     &familyID,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	raw, hash, err := token.Generate()
	if err != nil {
		return nil, err
	}
	verification := &entity.EmailVerificationToken{
		TokenHash: hash,
		ExpiresAt: u.now().Add(u.cfg.VerificationTTL),
	}
	if err := u.users.Create(ctx, user, verification); err != nil {
		return nil, err
	}

	if err := u.mailer.SendVerification(ctx, user.Email, raw); err != nil {
		slog.Error("failed to send verification email", "error", err, "user_id", user.ID, "email", mail.MaskEmail(user.Email))
	}

	u.audit.Record(ctx, user.ID, "USER_SIGNED_UP", map[string]any{"role": string(user.Role), "familyRole": string(user.FamilyRole)})
	return user, nil
}

func (u *authUsecase) resolveFamily(ctx context.Context, familyID string) (string, error) {
	if familyID == "" {
		return u.families.FirstOrCreate(ctx)
	}
	ok, err := u.families.Exists(ctx, familyID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrFamilyNotFound
	}
	return familyID, nil
}

// dummyHash はユーザーが存在しない場合のタイミング攻撃緩和用です。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	claims := jwtmw.Claims{
		UserID:     user.ID,
		Role:       string(user.Role),
		FamilyRole: string(user.FamilyRole),
	}
	if user.FamilyID != nil {
		claims.FamilyID = *user.FamilyID
	}
	signed, err := u.jwtGenerator.GenerateToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	u.audit.Record(ctx, user.ID, "USER_LOGGED_IN", nil)
	return &LoginResult{Token: signed, ExpiresIn: u.jwtGenerator.TTL(), User: user}, nil
}

// VerifyEmail はトークンを検証し、ユーザーをメール確認済みにします。
func (u *authUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	rec, err := u.tokens.FindVerification(ctx, token.Hash(rawToken))
	if err != nil {
		return err
	}
	if rec.ExpiresAt.Before(u.now()) {
		return ErrInvalidToken
	}
	if err := u.users.MarkEmailVerified(ctx, rec.UserID); err != nil {
		return err
	}
	if err := u.tokens.DeleteVerifications(ctx, rec.UserID); err != nil {
		return err
	}
	u.audit.Record(ctx, rec.UserID, "USER_EMAIL_VERIFIED", nil)
	return nil
}

// RequestPasswordReset sends a reset link when the account exists. Unknown
// emails succeed silently so callers cannot probe for accounts.
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	raw, hash, err := token.Generate()
	if err != nil {
		return err
	}
	if err := u.tokens.CreateReset(ctx, &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: u.now().Add(u.cfg.ResetTTL),
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := u.mailer.SendPasswordReset(ctx, user.Email, raw); err != nil {
		slog.Error("failed to send password reset email", "error", err, "user_id", user.ID)
	}
	u.audit.Record(ctx, user.ID, "USER_PASSWORD_RESET_REQUESTED", nil)
	return nil
}

// ResetPassword はトークンを検証して新しいパスワードを設定します。
func (u *authUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	rec, err := u.tokens.FindReset(ctx, token.Hash(rawToken))
	if err != nil {
		return err
	}
	if rec.ExpiresAt.Before(u.now()) {
		return ErrInvalidToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, rec.UserID, string(hashed)); err != nil {
		return err
	}
	if err := u.tokens.DeleteResets(ctx, rec.UserID); err != nil {
		return err
	}
	u.audit.Record(ctx, rec.UserID, "USER_PASSWORD_RESET", nil)
	return nil
}
