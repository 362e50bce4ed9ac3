// Package jwtmw はJWTの発行と検証、およびリクエストごとのセッションを提供します。
package jwtmw

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"jar_backend/internal/platform/http/response"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/apperr"
)

var (
	errMissingBearer = apperr.Unauthorized("missing bearer token")
	errInvalidToken  = apperr.Unauthorized("invalid token")
	errMisconfigured = apperr.New(apperr.KindInternal, "server misconfigured")
)

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and stores the caller's Session in the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Abort(c, errMissingBearer)
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Secret must be configured
		if secret == "" {
			response.Abort(c, errMisconfigured)
			return
		}

		// 3. Parse and verify JWT signature
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			// Check signing algorithm (only HMAC allowed)
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Abort(c, errInvalidToken)
			return
		}

		// 4. Extract claims (payload)
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Abort(c, errInvalidToken)
			return
		}
		sess, ok := sessionFromClaims(claims)
		if !ok {
			response.Abort(c, errInvalidToken)
			return
		}
		SetSession(c, sess)

		// 5. Pass control to the next handler
		c.Next()
	}
}

func sessionFromClaims(claims jwt.MapClaims) (Session, bool) {
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !access.Role(role).Valid() {
		return Session{}, false
	}
	familyRole, _ := claims["familyRole"].(string)
	familyID, _ := claims["familyId"].(string)
	return Session{
		UserID:     sub,
		Role:       access.Role(role),
		FamilyRole: access.FamilyRole(familyRole),
		FamilyID:   familyID,
	}, true
}
