package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"circuithub_backend/internal/auth"
	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/models"
)

// AuthMiddleware validates the bearer token and stores the claims in the
// request context. The role claim is a hint for coarse routing only; anything
// that grants privileges re-reads the profile row.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RoleMiddleware restricts a route group to a single role. Admin always
// passes.
func RoleMiddleware(requiredRole models.Role) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireRoles restricts a route group to the given roles. Admin always
// passes.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]bool, len(roles)+1)
	for _, r := range roles {
		roleSet[r] = true
	}
	roleSet[models.RoleAdmin] = true

	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		if !roleSet[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user id from the gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetRole extracts the role claim from the gin context.
func GetRole(c *gin.Context) models.Role {
	roleVal, exists := c.Get("role")
	if !exists {
		return ""
	}

	switch role := roleVal.(type) {
	case models.Role:
		return role
	case string:
		return models.Role(role)
	default:
		return ""
	}
}
