package jwt

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@campus.edu", "Student", "secret", 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.PersonID != 42 || claims.Email != "ada@campus.edu" || claims.Role != "Student" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@campus.edu", "Student", "secret", 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ValidateAccessToken(token, "other-secret"); err == nil {
		t.Fatalf("wrong secret should fail validation")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@campus.edu", "Student", "secret", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ValidateAccessToken(token, "secret"); err == nil {
		t.Fatalf("expired token should fail validation")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", "refresh-secret", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateRefreshToken(token, "refresh-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.PersonID != 42 || claims.TokenID != "token-id-1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	// The two token kinds are not interchangeable even with the same secret.
	token, err := GenerateAccessToken(42, "ada@campus.edu", "Student", "shared", 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := ValidateRefreshToken(token, "shared")
	if err == nil && claims.TokenID != "" {
		t.Fatalf("access token should not carry a refresh token id")
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not-a-token", "secret"); err == nil {
		t.Fatalf("garbage should fail validation")
	}
	if _, err := ValidateRefreshToken("", "secret"); err == nil {
		t.Fatalf("empty string should fail validation")
	}
}
