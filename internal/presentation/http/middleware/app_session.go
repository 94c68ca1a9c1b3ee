package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// AppSessionHeader carries the lock-screen session token
const AppSessionHeader = "X-App-Session"

// AppSessionChecker validates lock-screen sessions
type AppSessionChecker interface {
	CheckAppSession(ctx context.Context, token string, userID, tenantID uuid.UUID) error
}

// AppSessionMiddleware rejects requests without a live app session for the
// caller's membership
func AppSessionMiddleware(checker AppSessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := checker.CheckAppSession(c.Request.Context(), c.GetHeader(AppSessionHeader), getUserID(c), GetTenantID(c))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
