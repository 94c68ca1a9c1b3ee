package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	infraRepo "github.com/merocrm/mero-crm/internal/infrastructure/repository"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware. The token's
// membership becomes the request's tenant.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil || claims.UserID == uuid.Nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", access.Role(claims.Role))
		c.Set("user_permissions", claims.Permissions)
		c.Set("tenant_id", claims.TenantID)

		ctx := infraRepo.WithTenant(c.Request.Context(), claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission
// of the caller's current role
func RequirePermission(permission access.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("user_role")
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}
		r, ok := role.(access.Role)
		if !ok || !access.Has(r, permission) {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}
