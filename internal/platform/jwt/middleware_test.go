package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jar_backend/internal/shared/access"
)

const testSecret = "test-secret-key"

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func runMiddleware(t *testing.T, mw gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	mw(c)
	return w, c
}

// TestAuthRequired_MissingBearerToken はBearerトークンがない場合やプレフィックスが不正な場合に401が返されることを検証します。
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase", "bearer token123"},
		{"no space after Bearer", "Bearertoken123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runMiddleware(t, AuthRequired(testSecret), tt.authHeader)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
			assert.JSONEq(t, `{"status":"error","message":"missing bearer token"}`, w.Body.String())
		})
	}
}

// TestAuthRequired_MissingJWTSecret はシークレット未設定の場合に500が返されることを検証します。
func TestAuthRequired_MissingJWTSecret(t *testing.T) {
	w, _ := runMiddleware(t, AuthRequired(""), "Bearer sometoken")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// TestAuthRequired_InvalidToken は不正なトークン（改ざん・期限切れ・クレーム不足等）で401が返されることを検証します。
func TestAuthRequired_InvalidToken(t *testing.T) {
	valid := jwt.MapClaims{"sub": "u-1", "role": "parent"}

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", signClaims(t, "wrong-secret", valid, time.Hour)},
		{"expired token", signClaims(t, testSecret, valid, -time.Hour)},
		{"missing sub", signClaims(t, testSecret, jwt.MapClaims{"role": "parent"}, time.Hour)},
		{"unknown role", signClaims(t, testSecret, jwt.MapClaims{"sub": "u-1", "role": "admin"}, time.Hour)},
		{"numeric sub", signClaims(t, testSecret, jwt.MapClaims{"sub": float64(1), "role": "parent"}, time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runMiddleware(t, AuthRequired(testSecret), "Bearer "+tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

// TestAuthRequired_ValidToken は有効なトークンでリクエストが通過し、セッションが設定されることを検証します。
func TestAuthRequired_ValidToken(t *testing.T) {
	gen := NewGenerator(testSecret, time.Hour)
	token, err := gen.GenerateToken(Claims{UserID: "u-42", Role: "child", FamilyRole: "child", FamilyID: "f-7"})
	require.NoError(t, err)

	w, c := runMiddleware(t, AuthRequired(testSecret), "Bearer "+token)
	require.False(t, c.IsAborted(), "response: %s", w.Body.String())

	sess, ok := SessionFrom(c)
	require.True(t, ok)
	assert.Equal(t, Session{
		UserID:     "u-42",
		Role:       access.RoleChild,
		FamilyRole: access.FamilyRoleChild,
		FamilyID:   "f-7",
	}, sess)
}

// TestAuthRequired_InvalidSigningMethod はnoneアルゴリズム（未署名）のトークンが拒否されることを検証します。
func TestAuthRequired_InvalidSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "u-1",
		"role": "parent",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

	w, _ := runMiddleware(t, AuthRequired(testSecret), "Bearer "+tokenStr)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestRequirePermission は権限表に基づき通過・拒否されることを検証します。
func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		action     access.Action
		wantStatus int
	}{
		{"parent may invite", "parent", access.ActionFamilyInvite, http.StatusOK},
		{"child may not invite", "child", access.ActionFamilyInvite, http.StatusForbidden},
		{"child may respond", "child", access.ActionRespondBetterChoice, http.StatusOK},
		{"parent may not respond", "parent", access.ActionRespondBetterChoice, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", AuthRequired(testSecret), RequirePermission(tt.action), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			token := signClaims(t, testSecret, jwt.MapClaims{"sub": "u-1", "role": tt.role}, time.Hour)
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestRequirePermission_NoSession はAuthRequiredなしで使われた場合に401となることを検証します。
func TestRequirePermission_NoSession(t *testing.T) {
	w, c := runMiddleware(t, RequirePermission(access.ActionViewJar), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

// signClaims はテスト用に指定されたシークレットで署名済みJWTトークンを生成します。
func signClaims(t *testing.T, secret string, claims jwt.MapClaims, expiration time.Duration) string {
	t.Helper()
	c := jwt.MapClaims{
		"exp": time.Now().Add(expiration).Unix(),
		"iat": time.Now().Unix(),
	}
	for k, v := range claims {
		c[k] = v
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
