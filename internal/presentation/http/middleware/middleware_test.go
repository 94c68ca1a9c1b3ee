package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       any
		permission access.Permission
		want       int
	}{
		{"owner manages users", access.RoleOwner, access.PermManageUsers, http.StatusOK},
		{"manager views analytics", access.RoleManager, access.PermViewAnalytics, http.StatusOK},
		{"manager cannot edit catalog", access.RoleManager, access.PermManageCatalog, http.StatusForbidden},
		{"member manages clients", access.RoleMember, access.PermManageClients, http.StatusOK},
		{"member cannot record payments", access.RoleMember, access.PermManagePayments, http.StatusForbidden},
		{"viewer reads", access.RoleViewer, access.PermViewCRM, http.StatusOK},
		{"viewer cannot write", access.RoleViewer, access.PermManageClients, http.StatusForbidden},
		{"unknown role", access.Role("guest"), access.PermViewCRM, http.StatusForbidden},
		{"no role", nil, access.PermViewCRM, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				if tt.role != nil {
					c.Set("user_role", tt.role)
				}
			}, RequirePermission(tt.permission), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, time.Hour)
	userID, tenantID := uuid.New(), uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, tenantID, "ann@acme.test", "member", nil)
	if err != nil {
		t.Fatal(err)
	}

	var gotUser, gotTenant uuid.UUID
	r := gin.New()
	r.GET("/", AuthMiddleware(jwtManager), func(c *gin.Context) {
		gotUser = getUserID(c)
		gotTenant = GetTenantID(c)
		c.Status(http.StatusOK)
	})

	tests := map[string]struct {
		header string
		want   int
	}{
		"missing":      {"", http.StatusUnauthorized},
		"wrong scheme": {"Basic " + token, http.StatusUnauthorized},
		"garbage":      {"Bearer not-a-token", http.StatusUnauthorized},
		"valid":        {"Bearer " + token, http.StatusOK},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if w := serve(r, req); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}

	if gotUser != userID || gotTenant != tenantID {
		t.Errorf("context = %s %s, want %s %s", gotUser, gotTenant, userID, tenantID)
	}
}

func TestTenantRateLimiter(t *testing.T) {
	rl := NewTenantRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if id := c.GetHeader("X-Tenant"); id != "" {
			c.Set("tenant_id", uuid.MustParse(id))
		}
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(tenant string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tenant != "" {
			req.Header.Set("X-Tenant", tenant)
		}
		return serve(r, req).Code
	}

	a, b := uuid.NewString(), uuid.NewString()
	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		if got := call(a); got != want {
			t.Errorf("request %d for tenant a = %d, want %d", i+1, got, want)
		}
	}
	if got := call(b); got != http.StatusOK {
		t.Errorf("tenant b = %d, want 200", got)
	}
	for i := 0; i < 5; i++ {
		if got := call(""); got != http.StatusOK {
			t.Fatalf("request without tenant = %d", got)
		}
	}
	if n := rl.ActiveTenants(); n != 2 {
		t.Errorf("ActiveTenants() = %d, want 2", n)
	}
}

func TestTenantRateLimiterStop(t *testing.T) {
	rl := NewTenantRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Millisecond,
		EntryTTL:          time.Millisecond,
	})
	rl.getLimiter(uuid.New())

	deadline := time.Now().Add(2 * time.Second)
	for rl.ActiveTenants() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("stale limiter was not swept")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rl.Stop()
	rl.Stop()
	select {
	case <-rl.done:
	default:
		t.Fatal("sweep still running after Stop")
	}

	rl.getLimiter(uuid.New())
	time.Sleep(20 * time.Millisecond)
	if n := rl.ActiveTenants(); n != 1 {
		t.Errorf("ActiveTenants() after Stop = %d, want 1", n)
	}
}
