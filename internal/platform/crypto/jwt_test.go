package crypto

import (
	"testing"
	"time"
)

func TestGenerateToken_WithJTI(t *testing.T) {
	secret := "test-secret"
	userID := "test-user-id"
	role := "member"
	ttl := 24 * time.Hour

	token, jti, err := GenerateToken(secret, userID, role, ttl)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if token == "" {
		t.Error("Expected token to be generated")
	}

	if jti == "" {
		t.Error("Expected JTI to be generated")
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("Expected no error parsing token, got %v", err)
	}

	if claims.ID != jti {
		t.Errorf("Expected JTI %s, got %s", jti, claims.ID)
	}

	if claims.Sub != userID {
		t.Errorf("Expected user ID %s, got %s", userID, claims.Sub)
	}

	if claims.Role != role {
		t.Errorf("Expected role %s, got %s", role, claims.Role)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	secret := "test-secret"

	_, err := ParseToken(secret, "invalid.token.here")
	if err == nil {
		t.Error("Expected error for invalid token")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret-a", "u1", "member", time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("Expected error for token signed with a different secret")
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	token, _, err := GenerateToken("test-secret", "u1", "member", -time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := ParseToken("test-secret", token); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	_, jti1, err := GenerateToken("test-secret", "u1", "member", time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	_, jti2, err := GenerateToken("test-secret", "u1", "member", time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if jti1 == jti2 {
		t.Error("Expected each token to carry a unique JTI")
	}
}
