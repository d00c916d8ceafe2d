package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity headers set by the authenticating reverse proxy. The backend
// trusts them as-is; verifying them is the proxy's job.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

const sessionKey = "session"

// Roles carried in the identity headers.
const (
	RoleOwner  = "owner"
	RoleTenant = "tenant"
)

// Session identifies the authenticated caller for the lifetime of one
// request.
type Session struct {
	UserID string
	Email  string
	Role   string
}

// SessionFromHeaders populates the request session from the identity
// headers. Requests without a user ID are rejected before any handler
// runs.
func SessionFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := Session{
			UserID: c.GetHeader(HeaderUserID),
			Email:  c.GetHeader(HeaderUserEmail),
			Role:   c.GetHeader(HeaderUserRole),
		}
		if s.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}
		if s.Role == "" {
			s.Role = RoleOwner
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// GetSession returns the session stored by SessionFromHeaders. The
// zero Session is returned on routes that skip the middleware.
func GetSession(c *gin.Context) Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}

// RequireRole rejects callers whose session role does not match.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
