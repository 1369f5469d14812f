package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/adapters/persistence/repositories"
	"campus-clubhub/internal/core/authz"
	"campus-clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// Event errors
var (
	ErrEventNotFound    = fmt.Errorf("event %w", domain.ErrNotFound)
	ErrEventInPast      = fmt.Errorf("event already happened: %w", domain.ErrInvalidState)
	ErrAlreadyRecorded  = fmt.Errorf("attendance %w", domain.ErrConflict)
	ErrNotActiveMember  = fmt.Errorf("person is not an active member of the club: %w", domain.ErrInvalidState)
	ErrMissingEventDate = fmt.Errorf("event date is required: %w", domain.ErrValidation)
)

// EventService handles event business logic
type EventService struct {
	eventRepo      repositories.EventRepository
	clubRepo       repositories.ClubRepository
	membershipRepo repositories.MembershipRepository
	guard          *authz.Guard
	now            func() time.Time
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repositories.EventRepository,
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	guard *authz.Guard,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		guard:          guard,
		now:            time.Now,
	}
}

// CreateEventInput represents event creation input
type CreateEventInput struct {
	ClubID      uint      `json:"club_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date" validate:"required"`
	Venue       string    `json:"venue"`
}

// UpdateEventInput represents event update input
type UpdateEventInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	EventDate   *time.Time `json:"event_date"`
	Venue       *string    `json:"venue"`
}

// dateOnly truncates a timestamp to its calendar day
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Create schedules a new event for a club. Only the club's leaders and
// admins may create events, and only for active clubs.
func (s *EventService) Create(ctx context.Context, actor domain.Actor, input *CreateEventInput) (*models.EventResponse, error) {
	// 1. Authorize against the club
	decision, err := s.guard.CanManageClub(ctx, actor, input.ClubID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 2. The club must exist and be active
	club, err := s.clubRepo.FindByID(ctx, input.ClubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if club.Status != domain.StatusActive {
		return nil, ErrClubNotActive
	}

	// 3. Events need a date
	if input.EventDate.IsZero() {
		return nil, ErrMissingEventDate
	}

	// 4. Create the event
	event := &models.Event{
		ClubID:      input.ClubID,
		Name:        input.Name,
		Description: input.Description,
		EventDate:   dateOnly(input.EventDate),
		Venue:       input.Venue,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	event.Club = club

	log.Printf("✅ Event created: %s (club %d)", event.Name, event.ClubID)

	return event.ToResponse(), nil
}

// GetByID returns a single event
func (s *EventService) GetByID(ctx context.Context, id uint) (*models.EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event.ToResponse(), nil
}

// List lists events with pagination
func (s *EventService) List(ctx context.Context, offset, limit int) ([]models.EventResponse, int64, error) {
	events, total, err := s.eventRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *events[i].ToResponse())
	}
	return out, total, nil
}

// ListByClub lists a club's events
func (s *EventService) ListByClub(ctx context.Context, clubID uint) ([]models.EventResponse, error) {
	if _, err := s.clubRepo.FindByID(ctx, clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	events, err := s.eventRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	out := make([]models.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *events[i].ToResponse())
	}
	return out, nil
}

// Update edits an event. Events whose date has already passed are frozen;
// that check runs before authorization, so a past event answers the same
// way to everyone. Comparison is by calendar day, so a same-day event is
// still editable.
func (s *EventService) Update(ctx context.Context, actor domain.Actor, id uint, input *UpdateEventInput) (*models.EventResponse, error) {
	// 1. Load the event
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	// 2. Past events are immutable
	if dateOnly(event.EventDate).Before(dateOnly(s.now())) {
		return nil, ErrEventInPast
	}

	// 3. Authorize against the event's club
	decision, err := s.guard.CanManageClub(ctx, actor, event.ClubID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 4. Apply the edit
	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.EventDate != nil {
		event.EventDate = dateOnly(*input.EventDate)
	}
	if input.Venue != nil {
		event.Venue = *input.Venue
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event.ToResponse(), nil
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	decision, err := s.guard.CanManageClub(ctx, actor, event.ClubID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decision.Err()
	}

	log.Printf("🗑️ Event %d deleted by person %d", id, actor.PersonID)
	return s.eventRepo.Delete(ctx, id)
}

// RecordAttendance marks a person as having attended an event. The person
// must be an active member of the hosting club, and each person is counted
// once per event.
func (s *EventService) RecordAttendance(ctx context.Context, actor domain.Actor, eventID, personID uint) error {
	// 1. Load the event
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	// 2. Authorize against the hosting club
	decision, err := s.guard.CanManageClub(ctx, actor, event.ClubID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decision.Err()
	}

	// 3. The attendee must be an active club member
	m, err := s.membershipRepo.FindByPersonAndClub(ctx, personID, event.ClubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotActiveMember
		}
		return err
	}
	if m.Status != domain.StatusActive {
		return ErrNotActiveMember
	}

	// 4. One attendance row per (event, person)
	attendees, err := s.eventRepo.ListAttendees(ctx, eventID)
	if err != nil {
		return err
	}
	for i := range attendees {
		if attendees[i].PersonID == personID {
			return ErrAlreadyRecorded
		}
	}

	return s.eventRepo.RecordAttendance(ctx, &models.EventAttendance{
		EventID:  eventID,
		PersonID: personID,
	})
}

// ListAttendees lists everyone recorded at an event
func (s *EventService) ListAttendees(ctx context.Context, eventID uint) ([]models.EventAttendance, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.eventRepo.ListAttendees(ctx, eventID)
}
