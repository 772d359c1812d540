package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"circuithub_backend/internal/auth"
	"circuithub_backend/internal/authz"
	"circuithub_backend/internal/models"
)

// pageRule maps a page-path prefix to the role it requires. An empty role
// means any authenticated session is enough.
type pageRule struct {
	prefix string
	role   models.Role
}

// Longest prefixes first, so /admin wins over a hypothetical overlap.
var pageRules = []pageRule{
	{prefix: "/admin", role: models.RoleAdmin},
	{prefix: "/dashboard"},
	{prefix: "/profile"},
	{prefix: "/notifications"},
}

// Gatekeeper is the coarse edge check for browser page paths. It redirects
// instead of erroring; handlers and services still enforce the same policy
// authoritatively on every action.
func Gatekeeper() gin.HandlerFunc {
	return func(c *gin.Context) {
		rule, matched := matchPageRule(c.Request.URL.Path)
		if !matched {
			c.Next()
			return
		}

		decision := authz.Authorize(sessionFromRequest(c), rule.role, c.Request.URL.RequestURI())
		if !decision.Allowed {
			c.Redirect(http.StatusFound, decision.RedirectPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

func matchPageRule(path string) (pageRule, bool) {
	for _, rule := range pageRules {
		if path == rule.prefix || strings.HasPrefix(path, rule.prefix+"/") {
			return rule, true
		}
	}
	return pageRule{}, false
}

// sessionFromRequest resolves the session from the access token cookie or,
// failing that, a bearer header. Returns nil when there is no valid token.
func sessionFromRequest(c *gin.Context) *authz.Session {
	tokenStr, err := c.Cookie("access_token")
	if err != nil || tokenStr == "" {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return nil
		}
		tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
	}

	claims, err := auth.ParseToken(tokenStr)
	if err != nil {
		return nil
	}

	return &authz.Session{
		UserID: claims.UserID,
		Role:   models.Role(claims.Role),
	}
}
