package services

import (
	"context"
	"errors"
	"testing"

	"campus-clubhub/internal/config"
	"campus-clubhub/internal/core/domain"
)

func newAuthService(env *testEnv) (*AuthService, *fakeRefreshTokenRepo) {
	tokens := newFakeRefreshTokenRepo()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:        "test-access-secret",
			RefreshSecret:       "test-refresh-secret",
			AccessExpiryMinutes: 15,
			RefreshExpiryDays:   7,
		},
	}
	return NewAuthService(env.people, newFakeRoleRepo(), tokens, cfg), tokens
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)

	resp, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Ada",
		LastName:  "Okafor",
		Email:     "ada@campus.edu",
		Password:  "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Self-registration always lands on the student role.
	if resp.Person.Role != string(domain.RoleStudent) {
		t.Fatalf("expected Student role, got %s", resp.Person.Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("registration should issue both tokens")
	}

	// The stored password is hashed, never the plaintext.
	stored, _ := env.people.FindByEmail(context.Background(), "ada@campus.edu")
	if stored.Password == "s3cret-pass" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)

	_, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Ada",
		LastName:  "Okafor",
		Email:     "ada@campus.edu",
		Password:  "short",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("weak password should fail with ErrValidation, got %v", err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)

	input := &RegisterInput{FirstName: "Ada", LastName: "Okafor", Email: "ada@campus.edu", Password: "s3cret-pass"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email should fail with ErrConflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)

	if _, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Ada", LastName: "Okafor", Email: "ada@campus.edu", Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginInput{Email: "ada@campus.edu", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("login should issue an access token")
	}

	// Wrong password and unknown email answer identically.
	_, badPass := svc.Login(context.Background(), &LoginInput{Email: "ada@campus.edu", Password: "wrong"})
	_, badMail := svc.Login(context.Background(), &LoginInput{Email: "ghost@campus.edu", Password: "s3cret-pass"})
	if !errors.Is(badPass, ErrInvalidCredentials) || !errors.Is(badMail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", badPass, badMail)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv()
	svc, tokens := newAuthService(env)

	reg, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Ada", LastName: "Okafor", Email: "ada@campus.edu", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), reg.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.RefreshToken == reg.RefreshToken {
		t.Fatalf("refresh should rotate the token")
	}

	// The old token is revoked and cannot be replayed.
	if _, err := svc.RefreshToken(context.Background(), reg.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("replayed token should fail with ErrUnauthorized, got %v", err)
	}

	// Two rows exist: the revoked original and the live replacement.
	var live int
	for _, row := range tokens.tokens {
		if !row.IsRevoked() {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("expected exactly 1 live token after rotation, got %d", live)
	}
}

func TestRefreshTokenGarbage(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)

	if _, err := svc.RefreshToken(context.Background(), "not-a-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("garbage token should fail with ErrUnauthorized, got %v", err)
	}
}

func TestLogoutRevokesEverything(t *testing.T) {
	env := newTestEnv()
	svc, tokens := newAuthService(env)

	reg, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Ada", LastName: "Okafor", Email: "ada@campus.edu", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginInput{Email: "ada@campus.edu", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), reg.Person.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for id, row := range tokens.tokens {
		if !row.IsRevoked() {
			t.Fatalf("token %d still live after logout", id)
		}
	}
	if _, err := svc.RefreshToken(context.Background(), reg.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("post-logout refresh should fail with ErrUnauthorized, got %v", err)
	}
}
