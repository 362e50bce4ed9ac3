package di

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jar_backend/internal/app/router"
	authentity "jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/platform/config"
	"jar_backend/internal/platform/mail"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: は接続ごとに別DBになるため1接続に固定
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTExpiresIn:         time.Hour,
		ClientAppURL:         "http://localhost:5173",
		ChildName:            "Mia",
		ResetTokenTTL:        time.Hour,
		VerificationTokenTTL: time.Hour,
		InviteTokenTTL:       time.Hour,
		SystemAccessToken:    "sys-token",
	}
}

func call(t *testing.T, r http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestNewApp_EndToEnd は登録からエントリ作成・エクスポート・監査ログまでの流れを検証します。
func TestNewApp_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	cfg := testConfig()

	app := NewApp(cfg, db, nil, mail.LogSender{})
	require.NotNil(t, app.Notifier)
	assert.Zero(t, app.Scheduler.Jobs())

	r := router.NewRouter(router.Config{
		JWTSecret:         cfg.JWTSecret,
		SystemAccessToken: cfg.SystemAccessToken,
		Started:           time.Now(),
	}, app.Handlers)

	w := call(t, r, http.MethodPost, "/api/auth/signup", "",
		`{"email":"mom@example.com","password":"password123","familyRole":"mom","firstName":"Avery"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 未確認のままではログインできない
	w = call(t, r, http.MethodPost, "/api/auth/login", "", `{"email":"mom@example.com","password":"password123"}`)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	require.NoError(t, db.Model(&authentity.User{}).Where("email = ?", "mom@example.com").Update("email_verified", true).Error)

	w = call(t, r, http.MethodPost, "/api/auth/login", "", `{"email":"mom@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Data.Token
	require.NotEmpty(t, token)

	w = call(t, r, http.MethodPost, "/api/jar-entries", token, `{"entryType":"good_thing","content":"Shared toys at the park"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodGet, "/api/exports/csv?period=all", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	records, err := csv.NewReader(bytes.NewReader(w.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Date", "Type", "Author", "Content"}, records[0])
	assert.Equal(t, "good_thing", records[1][1])
	assert.Equal(t, "Avery", records[1][2])

	req := httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil)
	req.Header.Set("X-System-Token", "sys-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "USER_SIGNED_UP")
	assert.Contains(t, w.Body.String(), "JAR_EXPORTED")
}
