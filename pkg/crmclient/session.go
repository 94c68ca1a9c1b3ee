package crmclient

import (
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoSession is returned when an authenticated call is made before login
var ErrNoSession = errors.New("crmclient: not signed in")

// Session carries the credentials of the signed-in user: the bearer access
// token, its refresh token, and the app-scoped session obtained from the
// lock screen. A Session is passed explicitly to the Client that uses it and
// is safe for concurrent use.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	appSession   string
	tenantID     string
	role         string
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// SessionState is the persistable form of a Session
type SessionState struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AppSession   string `json:"app_session,omitempty"`
	TenantID     string `json:"tenant_id,omitempty"`
	Role         string `json:"role,omitempty"`
}

// RestoreSession rebuilds a session from saved state
func RestoreSession(state SessionState) *Session {
	return &Session{
		accessToken:  state.AccessToken,
		refreshToken: state.RefreshToken,
		appSession:   state.AppSession,
		tenantID:     state.TenantID,
		role:         state.Role,
	}
}

// State returns a snapshot suitable for persisting
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionState{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		AppSession:   s.appSession,
		TenantID:     s.tenantID,
		Role:         s.role,
	}
}

// SetTokens stores a fresh access/refresh token pair
func (s *Session) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

// SetMembership records the organization and role the tokens were issued for
func (s *Session) SetMembership(tenantID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenantID = tenantID
	s.role = role
}

// SetAppSession stores the app session token returned by the lock screen
func (s *Session) SetAppSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appSession = token
}

// AccessToken returns the current bearer token
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// AppSession returns the app session token, empty while the app is locked
func (s *Session) AppSession() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appSession
}

// Role returns the organization role of the signed-in user
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// TenantID returns the organization the session is bound to
func (s *Session) TenantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenantID
}

// Locked reports whether the app session is missing
func (s *Session) Locked() bool {
	return s.AppSession() == ""
}

// Clear forgets every credential
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.appSession = ""
	s.tenantID = ""
	s.role = ""
}

// Token implements oauth2.TokenSource
func (s *Session) Token() (*oauth2.Token, error) {
	access := s.AccessToken()
	if access == "" {
		return nil, ErrNoSession
	}
	return &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken(),
	}, nil
}
