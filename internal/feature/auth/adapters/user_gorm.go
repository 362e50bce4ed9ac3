// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/feature/auth/usecase"
	"jar_backend/internal/platform/db"
	"jar_backend/internal/shared/access"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーと確認トークンを1つのトランザクションで追加します。
// どちらかが失敗した場合はユーザーも残りません。
// ユニーク制約違反はメール重複かロール重複かを判別して返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User, verification *entity.EmailVerificationToken) error {
	if u == nil {
		return errors.New("user is nil")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if verification == nil {
			return nil
		}
		verification.UserID = u.ID
		return tx.Create(verification).Error
	})
	if err == nil {
		return nil
	}
	if !db.IsDuplicateKey(err) {
		return err
	}
	var n int64
	if cerr := r.db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", u.Email).Count(&n).Error; cerr == nil && n > 0 {
		return usecase.ErrEmailAlreadyExists
	}
	return usecase.ErrFamilyRoleTaken
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGorm) first(ctx context.Context, query string, arg string) (*entity.User, error) {
	if arg == "" {
		return nil, usecase.ErrUserNotFound
	}
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsFamilyRole は家族内でロールが使用済みかを返します。
func (r *userGorm) ExistsFamilyRole(ctx context.Context, familyID string, role access.FamilyRole) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("family_id = ? AND family_role = ?", familyID, role).
		Count(&n).Error
	return n > 0, err
}

// MarkEmailVerified はメール確認済みフラグを立てます。
func (r *userGorm) MarkEmailVerified(ctx context.Context, id string) error {
	return r.update(ctx, id, "email_verified", true)
}

// UpdatePassword はパスワードハッシュを置き換えます。
func (r *userGorm) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, id, "password_hash", passwordHash)
}

func (r *userGorm) update(ctx context.Context, id, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// ListByFamily returns the members of a family ordered by creation time.
func (r *userGorm) ListByFamily(ctx context.Context, familyID string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).Where("family_id = ?", familyID).Order("created_at ASC").Find(&users).Error
	return users, err
}

// AssignFamily moves a user into a family slot. Empty names keep the stored values.
// A taken slot surfaces as usecase.ErrFamilyRoleTaken.
func (r *userGorm) AssignFamily(ctx context.Context, userID, familyID string, role access.FamilyRole, firstName, lastName string) error {
	updates := map[string]any{
		"family_id":   familyID,
		"family_role": role,
		"role":        role.UserRole(),
	}
	if firstName != "" {
		updates["first_name"] = firstName
	}
	if lastName != "" {
		updates["last_name"] = lastName
	}
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		if db.IsDuplicateKey(res.Error) {
			return usecase.ErrFamilyRoleTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
