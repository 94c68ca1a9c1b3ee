package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID, tenantID := uuid.New(), uuid.New()

	access, err := m.GenerateAccessToken(userID, tenantID, "owner@acme.test", "owner", []string{"view-crm"})
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	claims, err := m.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != userID || claims.TenantID != tenantID || claims.Role != "owner" {
		t.Errorf("claims = %+v", claims)
	}

	refresh, err := m.GenerateRefreshToken(userID, tenantID)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	rc, err := m.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if id, _ := rc.UserID(); id != userID || rc.TenantID != tenantID {
		t.Errorf("refresh claims = %+v", rc)
	}

	if _, err := m.ValidateRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
	if _, err := m.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := NewJWTManager("other", time.Hour, time.Hour).ValidateAccessToken(access); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestExpiredToken(t *testing.T) {
	m := NewJWTManager("s", -time.Minute, time.Hour)
	tok, err := m.GenerateAccessToken(uuid.New(), uuid.New(), "a@b.test", "member", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateAccessToken(tok); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPasswordHash("s3cret!", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestSecureToken(t *testing.T) {
	a, _ := GenerateSecureToken(32)
	b, _ := GenerateSecureToken(32)
	if a == b || len(a) != 43 {
		t.Errorf("tokens %q %q", a, b)
	}
	if HashToken(a) == HashToken(b) || len(HashToken(a)) != 64 {
		t.Error("unexpected token hashes")
	}
}

func TestFormatDocumentNumber(t *testing.T) {
	tests := map[string]struct {
		prefix string
		year   int
		n      int
	}{
		"INV-2025-0007": {"INV", 2025, 7},
		"2024-0123":     {"", 2024, 123},
		"QT-2025-12345": {"QT", 2025, 12345},
	}
	for want, in := range tests {
		if got := FormatDocumentNumber(in.prefix, in.year, in.n); got != want {
			t.Errorf("FormatDocumentNumber(%q, %d, %d) = %q, want %q", in.prefix, in.year, in.n, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("  Acme Trading  Co. "); got != "acme-trading-co" {
		t.Errorf("Slugify() = %q", got)
	}
}
