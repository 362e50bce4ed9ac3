package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jar_backend/internal/api"
	"jar_backend/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	UseJSONFieldNames()
	os.Exit(m.Run())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// TestError_StatusMapping はエラー種別ごとのステータスコードとメッセージを検証します。
func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"validation", apperr.Validation("bad input"), http.StatusUnprocessableEntity, "bad input"},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"not found wrapped", fmt.Errorf("get: %w", apperr.NotFound("Entry not found")), http.StatusNotFound, "Entry not found"},
		{"conflict", apperr.Conflict("exists"), http.StatusConflict, "exists"},
		{"unauthorized", apperr.Unauthorized("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{"unavailable", apperr.New(apperr.KindUnavailable, "not configured"), http.StatusServiceUnavailable, "not configured"},
		{"unclassified hides detail", errors.New("sql: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { Error(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decode(t, w)
			assert.Equal(t, api.StatusError, env.Status)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}

type bindProbe struct {
	Email      string `json:"email" binding:"required,email"`
	FamilyRole string `json:"familyRole" binding:"required,oneof=mom dad child"`
	Password   string `json:"password" binding:"required,min=8"`
}

// TestBindError_Details はバインドエラーがJSONフィールド名付きの詳細になることを検証します。
func TestBindError_Details(t *testing.T) {
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req bindProbe
		if err := c.ShouldBindJSON(&req); err != nil {
			BindError(c, err)
			return
		}
		Created(c, req)
	})

	body, _ := json.Marshal(gin.H{"email": "not-an-email", "familyRole": "aunt", "password": "short"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	require.Len(t, env.Details, 3)
	fields := map[string]string{}
	for _, d := range env.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be one of: mom, dad, child", fields["familyRole"])
	assert.Equal(t, "must be at least 8 characters", fields["password"])
}

func TestBindError_MalformedJSON(t *testing.T) {
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req bindProbe
		if err := c.ShouldBindJSON(&req); err != nil {
			BindError(c, err)
			return
		}
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w).Message)
}

func TestSuccessHelpers(t *testing.T) {
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { OK(c, gin.H{"a": 1}) })
	r.GET("/msg", func(c *gin.Context) { Message(c, "done") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"a":1}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/msg", nil))
	assert.JSONEq(t, `{"status":"success","message":"done"}`, w.Body.String())
}
