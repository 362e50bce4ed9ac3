package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jar_backend/internal/feature/family/domain/entity"
	"jar_backend/internal/feature/family/usecase"
	"jar_backend/internal/shared/access"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.AutoMigrate(&entity.Family{}, &entity.FamilyInvitation{}))
	return db
}

// TestFamilyGorm_FirstOrCreate は初回サインアップ時に家族が一度だけ作成されることを検証します。
func TestFamilyGorm_FirstOrCreate(t *testing.T) {
	repo := NewFamilyGorm(setupTestDB(t))
	ctx := context.Background()

	id1, err := repo.FirstOrCreate(ctx)
	require.NoError(t, err)
	assert.Len(t, id1, 36)

	id2, err := repo.FirstOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "existing family is reused")

	ok, err := repo.Exists(ctx, id1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFamilyGorm_FindAndList(t *testing.T) {
	repo := NewFamilyGorm(setupTestDB(t))
	ctx := context.Background()

	name := "The Raos"
	f := &entity.Family{FamilyName: &name}
	require.NoError(t, repo.Create(ctx, f))

	found, err := repo.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Raos", found.Name("fallback"))

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrFamilyNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFamilyGorm_Invitations(t *testing.T) {
	repo := NewFamilyGorm(setupTestDB(t))
	ctx := context.Background()

	inv := &entity.FamilyInvitation{
		FamilyID:    "fam-1",
		Email:       "dad@example.com",
		FamilyRole:  access.FamilyRoleDad,
		TokenHash:   "hash-1",
		ExpiresAt:   time.Now().Add(time.Hour),
		InvitedByID: "user-1",
	}
	require.NoError(t, repo.CreateInvitation(ctx, inv))

	found, err := repo.FindInvitation(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, access.FamilyRoleDad, found.FamilyRole)

	require.NoError(t, repo.DeleteInvitation(ctx, inv.ID))
	_, err = repo.FindInvitation(ctx, "hash-1")
	assert.ErrorIs(t, err, usecase.ErrInvalidInvitation)
}
