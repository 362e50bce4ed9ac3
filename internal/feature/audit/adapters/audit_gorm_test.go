package adapters

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jar_backend/internal/feature/audit/domain/entity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.AutoMigrate(&entity.AuditLog{}), "failed to migrate table")
	return db
}

// TestAuditGorm_CreateAndList はJSON詳細の保存と新しい順・件数制限を検証します。
func TestAuditGorm_CreateAndList(t *testing.T) {
	repo := NewAuditGorm(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	user := "user-1"

	require.NoError(t, repo.Create(ctx, &entity.AuditLog{UserID: &user, Action: "USER_SIGNED_UP", Details: map[string]any{"familyRole": "mom"}, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &entity.AuditLog{Action: "NOTIFICATION_SENT", Details: map[string]any{"recipients": 2}, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.AuditLog{Action: "JAR_ENTRY_CREATED", CreatedAt: base.Add(2 * time.Hour)}))

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "JAR_ENTRY_CREATED", got[0].Action)
	assert.Equal(t, "NOTIFICATION_SENT", got[1].Action)
	assert.Nil(t, got[1].UserID)
	// JSONMapは数値をjson.Numberとして復元する
	assert.Equal(t, json.Number("2"), got[1].Details["recipients"])
	out, err := json.Marshal(got[1].Details)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipients":2}`, string(out))

	all, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NotNil(t, all[2].UserID)
	assert.Equal(t, "user-1", *all[2].UserID)
	assert.Equal(t, "mom", all[2].Details["familyRole"])
}
