package jwtmw

import (
	"github.com/gin-gonic/gin"

	"jar_backend/internal/platform/http/response"
	"jar_backend/internal/shared/access"
	"jar_backend/internal/shared/apperr"
)

const contextSession = "session"

// Session is the authenticated caller. Handlers pass it to use cases
// explicitly.
type Session struct {
	UserID     string
	Role       access.Role
	FamilyRole access.FamilyRole
	FamilyID   string
}

var errNoSession = apperr.Unauthorized("authentication required")

// SetSession stores s for downstream handlers.
func SetSession(c *gin.Context, s Session) {
	c.Set(contextSession, s)
}

// SessionFrom returns the session stored by AuthRequired.
func SessionFrom(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextSession)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// MustSession returns the session or writes a 401 and returns false.
func MustSession(c *gin.Context) (Session, bool) {
	s, ok := SessionFrom(c)
	if !ok {
		response.Abort(c, errNoSession)
	}
	return s, ok
}

// RequirePermission rejects callers whose role lacks any of actions.
// It must run after AuthRequired.
func RequirePermission(actions ...access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := MustSession(c)
		if !ok {
			return
		}
		if !access.Allowed(s.Role, actions...) {
			response.Abort(c, apperr.Forbidden("Insufficient permissions"))
			return
		}
		c.Next()
	}
}
