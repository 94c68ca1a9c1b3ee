package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
	"github.com/merocrm/mero-crm/pkg/access"
)

// TenantMiddleware checks that the caller still belongs to the token's
// organization and replaces the token's role with the current one, so role
// changes and removals apply before the token expires.
func TenantMiddleware(tenantRepo repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := GetTenantID(c)
		userID := getUserID(c)
		if tenantID == uuid.Nil || userID == uuid.Nil {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		membership, err := tenantRepo.GetMembership(c.Request.Context(), tenantID, userID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if membership == nil {
			response.Forbidden(c, "Access denied to this organization")
			c.Abort()
			return
		}

		c.Set("user_role", membership.Role)
		c.Set("user_permissions", access.PermissionNames(membership.Role))
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func getUserID(c *gin.Context) uuid.UUID {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
