package handlers

import (
	"errors"
	"strings"
	"time"

	"campus-clubhub/internal/core/services"
	"campus-clubhub/internal/pkg/pagination"
	"campus-clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents event creation request body
type CreateEventRequest struct {
	ClubID      uint   `json:"club_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	Venue       string `json:"venue"`
}

// UpdateEventRequest represents event update request body
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
	Venue       *string `json:"venue"`
}

// AttendanceRequest represents attendance recording request body
type AttendanceRequest struct {
	PersonID uint `json:"person_id"`
}

// Create schedules a new event
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ClubID == 0 {
		return response.BadRequest(c, "club_id is required")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Event name is required")
	}
	if req.EventDate == "" {
		return response.BadRequest(c, "event_date is required")
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return response.BadRequest(c, "event_date must be YYYY-MM-DD")
	}

	event, err := h.eventService.Create(c.Context(), actorFromCtx(c), &services.CreateEventInput{
		ClubID:      req.ClubID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		EventDate:   eventDate,
		Venue:       req.Venue,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Event created", event)
}

// List lists events with pagination
func (h *EventHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	events, total, err := h.eventService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", pagination.NewResponse(events, params, total))
}

// GetByID returns a single event
func (h *EventHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event id")
	}

	event, err := h.eventService.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", event)
}

// ByClub lists a club's events
func (h *EventHandler) ByClub(c *fiber.Ctx) error {
	clubID, err := paramID(c, "clubId")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	events, err := h.eventService.ListByClub(c.Context(), clubID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", events)
}

// Update edits an event
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event id")
	}

	var req UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
	}
	if req.EventDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EventDate)
		if err != nil {
			return response.BadRequest(c, "event_date must be YYYY-MM-DD")
		}
		input.EventDate = &parsed
	}

	event, err := h.eventService.Update(c.Context(), actorFromCtx(c), id, input)
	if err != nil {
		if errors.Is(err, services.ErrEventInPast) {
			return response.BadRequest(c, "Past events cannot be edited")
		}
		return serviceError(c, err)
	}
	return response.Success(c, "Event updated", event)
}

// Delete removes an event
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event id")
	}

	if err := h.eventService.Delete(c.Context(), actorFromCtx(c), id); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Event deleted", nil)
}

// RecordAttendance marks a person as having attended
func (h *EventHandler) RecordAttendance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event id")
	}

	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PersonID == 0 {
		return response.BadRequest(c, "person_id is required")
	}

	if err := h.eventService.RecordAttendance(c.Context(), actorFromCtx(c), id, req.PersonID); err != nil {
		if errors.Is(err, services.ErrAlreadyRecorded) {
			return response.Conflict(c, "Attendance already recorded for this person")
		}
		return serviceError(c, err)
	}
	return response.Created(c, "Attendance recorded", nil)
}

// Attendees lists everyone recorded at an event
func (h *EventHandler) Attendees(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event id")
	}

	attendees, err := h.eventService.ListAttendees(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", attendees)
}
