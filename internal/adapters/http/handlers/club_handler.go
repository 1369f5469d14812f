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

// ClubHandler handles club endpoints
type ClubHandler struct {
	clubService       *services.ClubService
	membershipService *services.MembershipService
}

// NewClubHandler creates a new club handler
func NewClubHandler(clubService *services.ClubService, membershipService *services.MembershipService) *ClubHandler {
	return &ClubHandler{
		clubService:       clubService,
		membershipService: membershipService,
	}
}

// CreateClubRequest represents club creation request body
type CreateClubRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DateEstablished string `json:"date_established"`
}

// UpdateClubRequest represents club update request body
type UpdateClubRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AddMemberRequest represents direct member addition request body
type AddMemberRequest struct {
	PersonID uint `json:"person_id"`
}

// Create files a new club proposal
func (h *ClubHandler) Create(c *fiber.Ctx) error {
	var req CreateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Club name is required")
	}

	var established time.Time
	if req.DateEstablished != "" {
		parsed, err := time.Parse("2006-01-02", req.DateEstablished)
		if err != nil {
			return response.BadRequest(c, "date_established must be YYYY-MM-DD")
		}
		established = parsed
	}

	club, err := h.clubService.Create(c.Context(), actorFromCtx(c), &services.CreateClubInput{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DateEstablished: established,
	})
	if err != nil {
		if errors.Is(err, services.ErrClubNameTaken) {
			return response.Conflict(c, "A club with this name already exists")
		}
		return serviceError(c, err)
	}

	return response.Created(c, "Club submitted for review", club)
}

// List lists clubs
func (h *ClubHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	clubs, total, err := h.clubService.List(c.Context(), actorFromCtx(c), status, params.Offset, params.Limit)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "", pagination.NewResponse(clubs, params, total))
}

// GetByID returns a single club
func (h *ClubHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	club, err := h.clubService.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", club)
}

// Update edits a club's name or description
func (h *ClubHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	var req UpdateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	club, err := h.clubService.Update(c.Context(), actorFromCtx(c), id, &services.UpdateClubInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Club updated", club)
}

// Delete removes a club. Admin only.
func (h *ClubHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	if err := h.clubService.Delete(c.Context(), actorFromCtx(c), id); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Club deleted", nil)
}

// Members lists a club's memberships
func (h *ClubHandler) Members(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	members, err := h.membershipService.ListClubMembers(c.Context(), id, c.Query("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", members)
}

// AddMember adds a person directly as an active member
func (h *ClubHandler) AddMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PersonID == 0 {
		return response.BadRequest(c, "person_id is required")
	}

	m, err := h.membershipService.AddMember(c.Context(), actorFromCtx(c), id, req.PersonID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyMember) {
			return response.Conflict(c, "Person already has a membership in this club")
		}
		return serviceError(c, err)
	}
	return response.Created(c, "Member added", m)
}

// RemoveMember removes a person from a club
func (h *ClubHandler) RemoveMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}
	personID, err := paramID(c, "personId")
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	if err := h.membershipService.RemoveMember(c.Context(), actorFromCtx(c), id, personID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Member removed", nil)
}

// Join files a join request for the current person
func (h *ClubHandler) Join(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	m, err := h.membershipService.RequestJoin(c.Context(), actorFromCtx(c), id)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyMember) {
			return response.Conflict(c, "You already have a membership in this club")
		}
		return serviceError(c, err)
	}
	return response.Created(c, "Join request submitted", m)
}
