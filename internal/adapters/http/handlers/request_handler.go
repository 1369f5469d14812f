package handlers

import (
	"errors"

	"campus-clubhub/internal/core/services"
	"campus-clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles the review workflows: pending clubs, join
// requests and expenditure requests.
type RequestHandler struct {
	approvalService *services.ApprovalService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(approvalService *services.ApprovalService) *RequestHandler {
	return &RequestHandler{approvalService: approvalService}
}

// ReviewRequest represents an accept/reject request body
type ReviewRequest struct {
	Approve bool `json:"approve"`
}

// PendingClubs lists clubs awaiting review. Admin only.
func (h *RequestHandler) PendingClubs(c *fiber.Ctx) error {
	clubs, err := h.approvalService.PendingClubs(c.Context(), actorFromCtx(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", clubs)
}

// ReviewClub accepts or rejects a pending club
func (h *RequestHandler) ReviewClub(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	club, err := h.approvalService.ReviewClub(c.Context(), actorFromCtx(c), id, req.Approve)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyProcessed) {
			return response.BadRequest(c, "Club registration already processed")
		}
		return serviceError(c, err)
	}

	if req.Approve {
		return response.Success(c, "Club accepted", club)
	}
	return response.Success(c, "Club rejected", club)
}

// PendingMemberships lists join requests the caller may review
func (h *RequestHandler) PendingMemberships(c *fiber.Ctx) error {
	list, err := h.approvalService.PendingMemberships(c.Context(), actorFromCtx(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", list)
}

// ReviewMembership accepts or rejects a pending join request
func (h *RequestHandler) ReviewMembership(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid membership id")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	m, err := h.approvalService.ReviewMembership(c.Context(), actorFromCtx(c), id, req.Approve)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyProcessed) {
			return response.BadRequest(c, "Join request already processed")
		}
		return serviceError(c, err)
	}

	if req.Approve {
		return response.Success(c, "Join request accepted", m)
	}
	return response.Success(c, "Join request rejected", m)
}

// ExpenditureRequests lists expenditure requests: the pending queue for
// admins, the caller's own clubs' full history for leaders
func (h *RequestHandler) ExpenditureRequests(c *fiber.Ctx) error {
	list, err := h.approvalService.ExpenditureRequests(c.Context(), actorFromCtx(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", list)
}

// ReviewExpenditure approves or rejects a pending expenditure. Admin only.
func (h *RequestHandler) ReviewExpenditure(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid expenditure id")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	exp, err := h.approvalService.ReviewExpenditure(c.Context(), actorFromCtx(c), id, req.Approve)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyProcessed) {
			return response.BadRequest(c, "Expenditure already processed")
		}
		return serviceError(c, err)
	}

	if req.Approve {
		return response.Success(c, "Expenditure approved", exp)
	}
	return response.Success(c, "Expenditure rejected", exp)
}
