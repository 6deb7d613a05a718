package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/roles"
)

// SessionCookie carries the signed session token.
const SessionCookie = "storefront_session"

const identityKey = "identity"

// LoginPath is where rejected requests are sent. A missing session and a
// wrong role land on the same page with no distinguishing message.
const LoginPath = "/login"

// Session resolves the session cookie into an Identity and injects it into
// the context. Requests without a valid session are redirected to the login
// page.
func Session(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || strings.TrimSpace(raw) == "" {
			redirectToLogin(c)
			return
		}

		ident, err := auth.ParseToken(raw, secret)
		if err != nil {
			log.Println("[SESSION] [ERROR] token validation failed:", err)
			redirectToLogin(c)
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// RequireRole gates a route on membership in a single role. It must run
// after Session. Admin does not imply Staff; each gate checks its own role
// only.
func RequireRole(role roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok || !ident.Roles.Has(role) {
			log.Printf("[SESSION] [ERROR] role %q required, denied for %q", role, ident.Username)
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity resolved by Session, if any.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	ident, ok := value.(auth.Identity)
	return ident, ok
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}
