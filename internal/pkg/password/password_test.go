package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !Verify("correct horse battery staple", hash) {
		t.Fatalf("correct password should verify")
	}
	if Verify("wrong password", hash) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")
	if a == b {
		t.Fatalf("different tokens should hash differently")
	}
	if a != HashToken("token-a") {
		t.Fatalf("token hashing should be deterministic")
	}
	// SHA-256 hex digest.
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short") {
		t.Fatalf("7-char password should be rejected")
	}
	if !ValidatePassword("8chars!!") {
		t.Fatalf("8-char password should be accepted")
	}
}
