package handlers

import (
	"campus-clubhub/internal/core/services"
	"campus-clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MembershipHandler handles membership endpoints outside the club routes
type MembershipHandler struct {
	membershipService *services.MembershipService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// AssignClubRoleRequest represents promote/demote request body
type AssignClubRoleRequest struct {
	Role string `json:"role"`
}

// Mine lists the current person's memberships
func (h *MembershipHandler) Mine(c *fiber.Ctx) error {
	list, err := h.membershipService.MyMemberships(c.Context(), actorFromCtx(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", list)
}

// AssignRole promotes or demotes a membership. Admin only.
func (h *MembershipHandler) AssignRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid membership id")
	}

	var req AssignClubRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	m, err := h.membershipService.AssignRole(c.Context(), actorFromCtx(c), id, req.Role)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Role assigned", m)
}
