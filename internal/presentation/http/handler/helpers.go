package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
	"github.com/merocrm/mero-crm/pkg/access"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetTenantID extracts the tenant ID from the Gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	v, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// GetUserRole extracts the caller's role in the current organization
func GetUserRole(c *gin.Context) access.Role {
	v, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	role, _ := v.(access.Role)
	return role
}

// requireUser writes 401 and returns false when no user is authenticated
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// parseID reads the :id path parameter, writing 400 when it is malformed
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

// listInput binds the list query. Only the named filter keys are passed on.
func listInput(c *gin.Context, filterKeys ...string) (*service.ListInput, bool) {
	var q request.ListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	var filters map[string]string
	for _, key := range filterKeys {
		if v := c.Query(key); v != "" {
			if filters == nil {
				filters = make(map[string]string)
			}
			filters[key] = v
		}
	}
	return q.Input(filters), true
}

// bindJSON binds the request body, writing 400 on malformed input
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
