package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-clubhub/internal/core/domain"
)

func newEventService(env *testEnv, now time.Time) *EventService {
	svc := NewEventService(env.events, env.clubs, env.memberships, env.guard)
	svc.now = func() time.Time { return now }
	return svc
}

var testToday = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func TestCreateEventByLeader(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, leaderActor.PersonID)
	env.addMembership(leaderActor.PersonID, club.ID, string(domain.ClubRoleLeader), domain.StatusActive)
	svc := newEventService(env, testToday)

	resp, err := svc.Create(context.Background(), leaderActor, &CreateEventInput{
		ClubID:    club.ID,
		Name:      "Summer Open",
		EventDate: testToday.AddDate(0, 0, 7),
		Venue:     "Hall B",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Name != "Summer Open" || resp.ClubID != club.ID {
		t.Fatalf("unexpected event %+v", resp)
	}
}

func TestCreateEventAuthorization(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, 99)
	env.addMembership(studentActor.PersonID, club.ID, string(domain.ClubRoleMember), domain.StatusActive)
	svc := newEventService(env, testToday)

	input := &CreateEventInput{ClubID: club.ID, Name: "Summer Open", EventDate: testToday.AddDate(0, 0, 7)}
	if _, err := svc.Create(context.Background(), studentActor, input); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("plain member should fail with ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(context.Background(), adminActor, input); err != nil {
		t.Fatalf("admin should create events anywhere: %v", err)
	}
}

func TestCreateEventRequiresActiveClub(t *testing.T) {
	env := newTestEnv()
	pending := env.addClub("Chess Club", domain.StatusPending, 99)
	svc := newEventService(env, testToday)

	_, err := svc.Create(context.Background(), adminActor, &CreateEventInput{
		ClubID:    pending.ID,
		Name:      "Summer Open",
		EventDate: testToday.AddDate(0, 0, 7),
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("pending club should fail with ErrInvalidState, got %v", err)
	}
}

func TestCreateEventRequiresDate(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, 99)
	svc := newEventService(env, testToday)

	_, err := svc.Create(context.Background(), adminActor, &CreateEventInput{
		ClubID: club.ID,
		Name:   "Summer Open",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing date should fail with ErrValidation, got %v", err)
	}
}

func TestUpdatePastEventFrozenForEveryone(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, leaderActor.PersonID)
	env.addMembership(leaderActor.PersonID, club.ID, string(domain.ClubRoleLeader), domain.StatusActive)
	svc := newEventService(env, testToday)

	created, err := svc.Create(context.Background(), leaderActor, &CreateEventInput{
		ClubID:    club.ID,
		Name:      "Spring Open",
		EventDate: testToday.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Time passes.
	svc.now = func() time.Time { return testToday.AddDate(0, 0, 14) }

	name := "Renamed"
	// Even the event's own leader gets the frozen answer, not a Forbidden.
	_, err = svc.Update(context.Background(), leaderActor, created.ID, &UpdateEventInput{Name: &name})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("past event edit should fail with ErrInvalidState, got %v", err)
	}
	// And so does an admin.
	_, err = svc.Update(context.Background(), adminActor, created.ID, &UpdateEventInput{Name: &name})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("past event edit should fail with ErrInvalidState for admins too, got %v", err)
	}
}

func TestUpdateSameDayEventStillEditable(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, 99)
	svc := newEventService(env, testToday)

	created, err := svc.Create(context.Background(), adminActor, &CreateEventInput{
		ClubID:    club.ID,
		Name:      "Today's Meetup",
		EventDate: testToday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Later the same calendar day.
	svc.now = func() time.Time { return testToday.Add(8 * time.Hour) }

	venue := "Hall C"
	resp, err := svc.Update(context.Background(), adminActor, created.ID, &UpdateEventInput{Venue: &venue})
	if err != nil {
		t.Fatalf("same-day event should still be editable: %v", err)
	}
	if resp.Venue != "Hall C" {
		t.Fatalf("expected venue Hall C, got %s", resp.Venue)
	}
}

func TestUpdateFutureEventNonLeaderForbidden(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, 99)
	svc := newEventService(env, testToday)

	created, err := svc.Create(context.Background(), adminActor, &CreateEventInput{
		ClubID:    club.ID,
		Name:      "Summer Open",
		EventDate: testToday.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := "Hijacked"
	_, err = svc.Update(context.Background(), studentActor, created.ID, &UpdateEventInput{Name: &name})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-leader edit of a future event should fail with ErrForbidden, got %v", err)
	}
}

func TestRecordAttendance(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, leaderActor.PersonID)
	env.addMembership(leaderActor.PersonID, club.ID, string(domain.ClubRoleLeader), domain.StatusActive)
	env.addMembership(studentActor.PersonID, club.ID, string(domain.ClubRoleMember), domain.StatusActive)
	svc := newEventService(env, testToday)

	created, err := svc.Create(context.Background(), leaderActor, &CreateEventInput{
		ClubID:    club.ID,
		Name:      "Summer Open",
		EventDate: testToday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RecordAttendance(context.Background(), leaderActor, created.ID, studentActor.PersonID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A person is counted once per event.
	err = svc.RecordAttendance(context.Background(), leaderActor, created.ID, studentActor.PersonID)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate attendance should fail with ErrConflict, got %v", err)
	}

	attendees, err := svc.ListAttendees(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attendees) != 1 {
		t.Fatalf("expected 1 attendance row, got %d", len(attendees))
	}
}

func TestRecordAttendanceRequiresActiveMembership(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, 99)
	// A pending membership does not count.
	env.addMembership(studentActor.PersonID, club.ID, string(domain.ClubRoleMember), domain.StatusPending)
	svc := newEventService(env, testToday)

	created, err := svc.Create(context.Background(), adminActor, &CreateEventInput{
		ClubID:    club.ID,
		Name:      "Summer Open",
		EventDate: testToday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.RecordAttendance(context.Background(), adminActor, created.ID, studentActor.PersonID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("pending member attendance should fail with ErrInvalidState, got %v", err)
	}

	// A complete outsider fails the same way.
	err = svc.RecordAttendance(context.Background(), adminActor, created.ID, 77)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("outsider attendance should fail with ErrInvalidState, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv()
	club := env.addClub("Chess Club", domain.StatusActive, 99)
	svc := newEventService(env, testToday)

	created, err := svc.Create(context.Background(), adminActor, &CreateEventInput{
		ClubID:    club.ID,
		Name:      "Summer Open",
		EventDate: testToday.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), studentActor, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-leader delete should fail with ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), adminActor, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted event should be gone, got %v", err)
	}
}
