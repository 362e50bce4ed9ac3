// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"jar_backend/internal/api"
	"jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/feature/auth/usecase"
	"jar_backend/internal/platform/http/response"
	"jar_backend/internal/platform/mail"
	"jar_backend/internal/shared/access"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*usecase.LoginResult, error)
	VerifyEmail(ctx context.Context, rawToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
	page PageConfig
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, page PageConfig) *AuthHandler {
	return &AuthHandler{auth: auth, page: page}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は422を返却
// - メール重複・ロール重複時は409を返却
// - 成功時は201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	in := usecase.SignupInput{
		Email:      string(req.Email),
		Password:   req.Password,
		FamilyRole: access.FamilyRole(req.FamilyRole),
		FirstName:  req.FirstName,
	}
	if req.LastName != nil {
		in.LastName = *req.LastName
	}
	if req.FamilyId != nil {
		in.FamilyID = req.FamilyId.String()
	}

	user, err := h.auth.Signup(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("user signup successful", "user_id", user.ID, "email", mail.MaskEmail(user.Email), "remote_addr", c.ClientIP())
	response.Created(c, api.SignupResponse{Id: user.ID, Email: user.Email, FamilyRole: string(user.FamilyRole)})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時はメール未登録かパスワード誤りかを区別せず401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), string(req.Email), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	response.OK(c, api.LoginResponse{
		Token:     res.Token,
		ExpiresIn: int64(res.ExpiresIn.Seconds()),
		User:      ToUserResponse(res.User),
	})
}

// VerifyEmail confirms an email address from a JSON body.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req api.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Email verified")
}

// RequestPasswordReset always answers with the same message.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req api.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.auth.RequestPasswordReset(c.Request.Context(), string(req.Email)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "If the account exists, a reset link has been sent")
}

// ResetPassword sets a new password from a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req api.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Password updated")
}

// ToUserResponse maps a user entity to its API shape.
func ToUserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		Id:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		FamilyRole:    string(u.FamilyRole),
		FamilyId:      u.FamilyID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		EmailVerified: u.EmailVerified,
	}
}
