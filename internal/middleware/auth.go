package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/config"
	"diagnostic-center-server/internal/utils"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		roles := make(authz.RoleSet, len(claims.Roles))
		for _, r := range claims.Roles {
			roles[authz.Role(r)] = true
		}

		// Set user information in context for downstream handlers
		c.Set("userID", claims.UserID)
		c.Set("userRoles", roles)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware. Access is granted when the
// user holds any of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := GetRolesFromContext(c)
		if !ok {
			utils.InternalServerError(c, "User roles not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if roles.Has(allowedRole) {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			utils.Forbidden(c, "You do not have permission to access this resource.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnlyMiddleware admits users whose role set carries admin
// capability (super_admin, admin or manager).
func AdminOnlyMiddleware() gin.HandlerFunc {
	return RoleAuthMiddleware(authz.RoleSuperAdmin, authz.RoleAdmin, authz.RoleManager)
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}

// GetRolesFromContext returns the authenticated user's role set.
func GetRolesFromContext(c *gin.Context) (authz.RoleSet, bool) {
	value, exists := c.Get("userRoles")
	if !exists {
		return nil, false
	}
	roles, ok := value.(authz.RoleSet)
	return roles, ok
}

// GetActorFromContext assembles the acting user for state-machine
// calls from the request context.
func GetActorFromContext(c *gin.Context) (authz.Actor, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return authz.Actor{}, false
	}
	roles, ok := GetRolesFromContext(c)
	if !ok {
		return authz.Actor{}, false
	}
	return authz.Actor{ID: userID, Roles: roles}, true
}
