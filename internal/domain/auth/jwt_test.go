package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "user@example.com", []string{"analyst"}, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("token already expired")
	}

	uc, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if uc.UserID != "user-1" || uc.Email != "user@example.com" {
		t.Errorf("unexpected user context: %+v", uc)
	}
	if len(uc.Roles) != 1 || uc.Roles[0] != "analyst" {
		t.Errorf("unexpected roles: %v", uc.Roles)
	}
	if uc.IsAdmin {
		t.Error("IsAdmin should be false")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken("user-1", "", nil, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected signature validation error")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken("user-1", "", nil, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("expected expiry error")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	for _, token := range []string{"", "not-a-token", strings.Repeat("a.", 3)} {
		if _, err := svc.ValidateToken(token); err == nil {
			t.Errorf("token %q validated unexpectedly", token)
		}
	}
}
