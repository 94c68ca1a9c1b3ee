package crmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/merocrm/mero-crm/pkg/pagination"
)

// AuthAPI signs users in and manages the app session
type AuthAPI struct {
	c *Client
}

// RegisterRequest creates a user together with a new organization
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
}

// LoginRequest signs a user in. TenantID selects the organization when the
// user belongs to several; otherwise the first membership is used.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id,omitempty"`
}

// LoginResult is returned by login, register and refresh
type LoginResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	TokenType    string   `json:"token_type"`
	User         User     `json:"user"`
	TenantID     string   `json:"tenant_id"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
}

// AppSession is the lock-screen session granted after re-entering the password
type AppSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates an account and stores the issued tokens in the session
func (a *AuthAPI) Register(ctx context.Context, in RegisterRequest) (*LoginResult, error) {
	return a.signIn(ctx, "/auth/register", in)
}

// Login authenticates and stores the issued tokens in the session
func (a *AuthAPI) Login(ctx context.Context, in LoginRequest) (*LoginResult, error) {
	return a.signIn(ctx, "/auth/login", in)
}

// Refresh trades the refresh token for a new token pair
func (a *AuthAPI) Refresh(ctx context.Context) (*LoginResult, error) {
	return a.signIn(ctx, "/auth/refresh", map[string]string{"refresh_token": a.c.session.RefreshToken()})
}

func (a *AuthAPI) signIn(ctx context.Context, path string, body any) (*LoginResult, error) {
	var out LoginResult
	if err := a.c.do(ctx, request{method: http.MethodPost, path: path, body: body, public: true}, &out); err != nil {
		return nil, err
	}
	a.c.session.SetTokens(out.AccessToken, out.RefreshToken)
	a.c.session.SetMembership(out.TenantID, out.Role)
	return &out, nil
}

// Profile returns the signed-in user
func (a *AuthAPI) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unlock re-authenticates from the lock screen and stores the app session
func (a *AuthAPI) Unlock(ctx context.Context, password string) (*AppSession, error) {
	var out AppSession
	body := map[string]string{"password": password}
	if err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/app-session", body: body}, &out); err != nil {
		return nil, err
	}
	a.c.session.SetAppSession(out.Token)
	return &out, nil
}

// Lock revokes the app session. The local token is dropped even if the
// server call fails.
func (a *AuthAPI) Lock(ctx context.Context) error {
	err := a.c.do(ctx, request{method: http.MethodDelete, path: "/auth/app-session"}, nil)
	a.c.session.SetAppSession("")
	return err
}

// SettingsAPI reads and writes organization settings
type SettingsAPI struct {
	c *Client
}

// List returns every setting
func (s *SettingsAPI) List(ctx context.Context) ([]Setting, error) {
	var out []Setting
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/crm/settings"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single setting
func (s *SettingsAPI) Get(ctx context.Context, key string) (*Setting, error) {
	var out Setting
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/crm/settings/" + url.PathEscape(key)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Put stores value under key. value is encoded as JSON.
func (s *SettingsAPI) Put(ctx context.Context, key string, value any) (*Setting, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	body := map[string]json.RawMessage{"value": raw}
	var out Setting
	if err := s.c.do(ctx, request{method: http.MethodPut, path: "/crm/settings/" + url.PathEscape(key), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrgAPI is the organization console
type OrgAPI struct {
	c *Client
}

// Users lists the members of the organization
func (o *OrgAPI) Users(ctx context.Context, q ListQuery) (*pagination.Page[Member], error) {
	return NewResource[Member](o.c, "/org/users").List(ctx, q)
}

// Tickets is the console's support ticket collection
func (o *OrgAPI) Tickets() *Resource[Ticket] {
	return NewResource[Ticket](o.c, "/org/tickets")
}

// UpdateRole changes a member's role
func (o *OrgAPI) UpdateRole(ctx context.Context, userID, role string) (*Member, error) {
	var out Member
	path := "/org/users/" + url.PathEscape(userID) + "/role"
	if err := o.c.do(ctx, request{method: http.MethodPatch, path: path, body: map[string]string{"role": role}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove takes a member out of the organization
func (o *OrgAPI) Remove(ctx context.Context, userID string) error {
	return o.c.do(ctx, request{method: http.MethodDelete, path: "/org/users/" + url.PathEscape(userID)}, nil)
}

// Permissions returns the permission matrix keyed by role
func (o *OrgAPI) Permissions(ctx context.Context) (map[string][]string, error) {
	var out map[string][]string
	if err := o.c.do(ctx, request{method: http.MethodGet, path: "/org/permissions"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analytics returns the organization summary
func (o *OrgAPI) Analytics(ctx context.Context) (*Analytics, error) {
	var out Analytics
	if err := o.c.do(ctx, request{method: http.MethodGet, path: "/org/analytics"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
