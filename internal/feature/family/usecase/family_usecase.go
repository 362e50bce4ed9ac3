// Package usecase はfamilyフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	authusecase "jar_backend/internal/feature/auth/usecase"
	"jar_backend/internal/feature/family/domain/entity"
	"jar_backend/internal/platform/mail"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/apperr"
	"jar_backend/internal/shared/token"
)

// FamilyRepository は家族と招待の永続化を抽象化します。
type FamilyRepository interface {
	Create(ctx context.Context, f *entity.Family) error
	FindByID(ctx context.Context, id string) (*entity.Family, error)
	CreateInvitation(ctx context.Context, inv *entity.FamilyInvitation) error
	FindInvitation(ctx context.Context, tokenHash string) (*entity.FamilyInvitation, error)
	DeleteInvitation(ctx context.Context, id string) error
}

// MemberRepository reads and assigns family members.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*authentity.User, error)
	FindByEmail(ctx context.Context, email string) (*authentity.User, error)
	ListByFamily(ctx context.Context, familyID string) ([]authentity.User, error)
	ExistsFamilyRole(ctx context.Context, familyID string, role access.FamilyRole) (bool, error)
	AssignFamily(ctx context.Context, userID, familyID string, role access.FamilyRole, firstName, lastName string) error
}

// Mailer sends the invitation email.
type Mailer interface {
	SendFamilyInvite(ctx context.Context, email, rawToken, familyName string) error
}

// AuditRecorder records family events.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any)
}

// InviteInput is a validated invite request. FamilyID defaults to the inviter's family.
type InviteInput struct {
	Email      string
	FamilyRole access.FamilyRole
	FamilyID   string
}

// AcceptInput is a validated accept-invite request.
type AcceptInput struct {
	Token     string
	FirstName string
	LastName  string
}

// FamilyDetail is a family with its members.
type FamilyDetail struct {
	Family  *entity.Family
	Members []authentity.User
}

type familyUsecase struct {
	families   FamilyRepository
	members    MemberRepository
	mailer     Mailer
	audit      AuditRecorder
	inviteTTL  time.Duration
	familyName string
	now        func() time.Time
}

// NewFamilyUsecase creates the family use case. defaultName is used in
// invitations for families without a name.
func NewFamilyUsecase(families FamilyRepository, members MemberRepository, mailer Mailer, audit AuditRecorder, inviteTTL time.Duration, defaultName string) *familyUsecase {
	return &familyUsecase{
		families:   families,
		members:    members,
		mailer:     mailer,
		audit:      audit,
		inviteTTL:  inviteTTL,
		familyName: defaultName,
		now:        time.Now,
	}
}

// Create は家族を作成し、作成者をメンバーにします。
func (u *familyUsecase) Create(ctx context.Context, userID string, name *string) (*entity.Family, error) {
	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.FamilyID != nil && *user.FamilyID != "" {
		return nil, ErrAlreadyInFamily
	}

	f := &entity.Family{FamilyName: name}
	if err := u.families.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}
	if err := u.members.AssignFamily(ctx, user.ID, f.ID, user.FamilyRole, "", ""); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, userID, "FAMILY_CREATED", map[string]any{"familyId": f.ID})
	return f, nil
}

// Get returns the family when the caller is a member.
func (u *familyUsecase) Get(ctx context.Context, userID, familyID string) (*FamilyDetail, error) {
	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	if user.FamilyID == nil || *user.FamilyID != familyID {
		return nil, ErrAccessDenied
	}
	f, err := u.families.FindByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	members, err := u.members.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return &FamilyDetail{Family: f, Members: members}, nil
}

// Invite は家族への招待を作成してメールを送ります。
// メール送信の失敗は招待自体を失敗させません。
func (u *familyUsecase) Invite(ctx context.Context, inviterID string, in InviteInput) (*entity.FamilyInvitation, error) {
	inviter, err := u.members.FindByID(ctx, inviterID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, ErrInviterNotInFamily
		}
		return nil, err
	}
	if inviter.FamilyID == nil {
		return nil, ErrInviterNotInFamily
	}
	familyID := in.FamilyID
	if familyID == "" {
		familyID = *inviter.FamilyID
	}
	if *inviter.FamilyID != familyID {
		return nil, ErrInviterNotInFamily
	}

	f, err := u.families.FindByID(ctx, familyID)
	if err != nil {
		return nil, err
	}

	taken, err := u.members.ExistsFamilyRole(ctx, familyID, in.FamilyRole)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrRoleTaken
	}

	raw, hash, err := token.Generate()
	if err != nil {
		return nil, err
	}
	inv := &entity.FamilyInvitation{
		FamilyID:    familyID,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		FamilyRole:  in.FamilyRole,
		TokenHash:   hash,
		ExpiresAt:   u.now().Add(u.inviteTTL),
		InvitedByID: inviterID,
	}
	if err := u.families.CreateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to store invitation: %w", err)
	}

	if err := u.mailer.SendFamilyInvite(ctx, inv.Email, raw, f.Name(u.familyName)); err != nil {
		slog.Error("failed to send family invite", "error", err, "family_id", familyID, "email", mail.MaskEmail(inv.Email))
	}
	u.audit.Record(ctx, inviterID, "FAMILY_MEMBER_INVITED", map[string]any{"email": inv.Email, "familyRole": string(in.FamilyRole)})
	return inv, nil
}

// AcceptInvite assigns the invited user to the family and consumes the invitation.
func (u *familyUsecase) AcceptInvite(ctx context.Context, in AcceptInput) (*entity.FamilyInvitation, error) {
	inv, err := u.families.FindInvitation(ctx, token.Hash(in.Token))
	if err != nil {
		return nil, err
	}
	if inv.ExpiresAt.Before(u.now()) {
		return nil, ErrInvalidInvitation
	}

	user, err := u.members.FindByEmail(ctx, inv.Email)
	if errors.Is(err, authusecase.ErrUserNotFound) {
		return nil, ErrInviteeNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.FamilyID != nil && *user.FamilyID != "" {
		if *user.FamilyID != inv.FamilyID {
			return nil, ErrInAnotherFamily
		}
		// 既存メンバーの役割は招待で変更しない
		if user.FamilyRole != inv.FamilyRole {
			return nil, ErrAlreadyMember
		}
	}

	if err := u.members.AssignFamily(ctx, user.ID, inv.FamilyID, inv.FamilyRole, in.FirstName, in.LastName); err != nil {
		if errors.Is(err, authusecase.ErrFamilyRoleTaken) {
			return nil, ErrRoleTaken
		}
		return nil, err
	}
	if err := u.families.DeleteInvitation(ctx, inv.ID); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, user.ID, "FAMILY_MEMBER_JOINED", map[string]any{"familyId": inv.FamilyID})
	return inv, nil
}
