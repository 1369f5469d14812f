package services

import (
	"context"
	"errors"
	"testing"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/core/domain"
)

func newUserService(env *testEnv) *UserService {
	return NewUserService(env.people, newFakeRoleRepo(), env.memberships)
}

func seedPerson(env *testEnv, id uint, email string) *models.Person {
	p := &models.Person{
		ID:        id,
		FirstName: "Ada",
		LastName:  "Okafor",
		Email:     email,
		RoleID:    3,
		Role:      &models.Role{ID: 3, Name: "Student"},
	}
	env.people.people[id] = p
	return p
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	seedPerson(env, 3, "ada@campus.edu")
	svc := newUserService(env)

	phone := "555-0100"
	dept := "Physics"
	resp, err := svc.UpdateProfile(context.Background(), 3, &UpdateProfileInput{Phone: &phone, Department: &dept})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Phone != phone || resp.Department != dept {
		t.Fatalf("profile not updated: %+v", resp)
	}
	// Untouched fields survive.
	if resp.FirstName != "Ada" {
		t.Fatalf("first name clobbered: %s", resp.FirstName)
	}
}

func TestAssignSystemRole(t *testing.T) {
	env := newTestEnv()
	seedPerson(env, 3, "ada@campus.edu")
	svc := newUserService(env)

	resp, err := svc.AssignSystemRole(context.Background(), 3, "Faculty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Role != "Faculty" {
		t.Fatalf("expected Faculty, got %s", resp.Role)
	}

	if _, err := svc.AssignSystemRole(context.Background(), 3, "Janitor"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown role should fail with ErrValidation, got %v", err)
	}
	if _, err := svc.AssignSystemRole(context.Background(), 404, "Faculty"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing person should fail with ErrNotFound, got %v", err)
	}
}

func TestMyCapabilitiesAggregatesClubRoles(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, studentActor.PersonID)
	env.addMembership(studentActor.PersonID, club.ID, string(domain.ClubRoleLeader), domain.StatusActive)
	// An inactive leadership elsewhere contributes nothing.
	other := env.addClub("Robotics", domain.StatusActive, 99)
	env.addMembership(studentActor.PersonID, other.ID, string(domain.ClubRoleLeader), domain.StatusInactive)
	svc := newUserService(env)

	caps, err := svc.MyCapabilities(context.Background(), studentActor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	have := make(map[string]bool, len(caps))
	for _, c := range caps {
		have[c] = true
	}
	if !have["CREATE_CLUB"] {
		t.Fatalf("student capabilities missing CREATE_CLUB: %v", caps)
	}
	if !have["UPDATE_CLUB"] {
		t.Fatalf("active leadership should add UPDATE_CLUB: %v", caps)
	}
	if have["APPROVE_EXPENDITURE"] {
		t.Fatalf("a leader-student must not see APPROVE_EXPENDITURE: %v", caps)
	}

	// Sorted output.
	for i := 1; i < len(caps); i++ {
		if caps[i-1] >= caps[i] {
			t.Fatalf("capabilities not sorted: %v", caps)
		}
	}
}

func TestMyCapabilitiesRequiresAuth(t *testing.T) {
	env := newTestEnv()
	svc := newUserService(env)

	if _, err := svc.MyCapabilities(context.Background(), anonActor); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv()
	seedPerson(env, 3, "ada@campus.edu")
	svc := newUserService(env)

	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete should fail with ErrNotFound, got %v", err)
	}
}
