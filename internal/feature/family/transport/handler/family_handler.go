// Package handler はfamilyフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jar_backend/internal/api"
	authentity "jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/feature/family/domain/entity"
	"jar_backend/internal/feature/family/usecase"
	"jar_backend/internal/platform/http/response"
	jwtmw "jar_backend/internal/platform/jwt"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/apperr"
)

// FamilyUsecase は家族操作のユースケースを定義します。
type FamilyUsecase interface {
	Create(ctx context.Context, userID string, name *string) (*entity.Family, error)
	Get(ctx context.Context, userID, familyID string) (*usecase.FamilyDetail, error)
	Invite(ctx context.Context, inviterID string, in usecase.InviteInput) (*entity.FamilyInvitation, error)
	AcceptInvite(ctx context.Context, in usecase.AcceptInput) (*entity.FamilyInvitation, error)
}

// FamilyHandler は家族APIのHTTPリクエストを処理します。
type FamilyHandler struct {
	families FamilyUsecase
}

// NewFamilyHandler は FamilyHandler を生成します。
func NewFamilyHandler(families FamilyUsecase) *FamilyHandler {
	return &FamilyHandler{families: families}
}

// Create handles POST /api/families.
func (h *FamilyHandler) Create(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	var req api.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	f, err := h.families.Create(c.Request.Context(), s.UserID, req.FamilyName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, api.FamilyResponse{Id: f.ID, FamilyName: f.FamilyName, CreatedAt: f.CreatedAt, Members: []api.UserResponse{}})
}

// Get handles GET /api/families/:id.
func (h *FamilyHandler) Get(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperr.Validation("Validation failed", apperr.FieldError{Field: "id", Message: "must be a UUID"}))
		return
	}
	d, err := h.families.Get(c.Request.Context(), s.UserID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	members := make([]api.UserResponse, 0, len(d.Members))
	for i := range d.Members {
		members = append(members, toMember(&d.Members[i]))
	}
	response.OK(c, api.FamilyResponse{Id: d.Family.ID, FamilyName: d.Family.FamilyName, CreatedAt: d.Family.CreatedAt, Members: members})
}

// Invite handles POST /api/families/invite.
func (h *FamilyHandler) Invite(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	var req api.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	in := usecase.InviteInput{Email: string(req.Email), FamilyRole: access.FamilyRole(req.FamilyRole)}
	if req.FamilyId != nil {
		in.FamilyID = req.FamilyId.String()
	}
	inv, err := h.families.Invite(c.Request.Context(), s.UserID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, api.InviteResponse{Email: inv.Email, FamilyRole: string(inv.FamilyRole), ExpiresAt: inv.ExpiresAt})
}

// AcceptInvite handles POST /api/families/accept-invite. No session is required.
func (h *FamilyHandler) AcceptInvite(c *gin.Context) {
	var req api.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	in := usecase.AcceptInput{Token: req.Token}
	if req.FirstName != nil {
		in.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		in.LastName = *req.LastName
	}
	if _, err := h.families.AcceptInvite(c.Request.Context(), in); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Invitation accepted")
}

func toMember(u *authentity.User) api.UserResponse {
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
