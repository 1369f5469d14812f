package handlers

import (
	"campus-clubhub/internal/core/services"
	"campus-clubhub/internal/pkg/pagination"
	"campus-clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles person directory endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest represents profile update request body
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Year       *int    `json:"year"`
}

// AssignRoleRequest represents role assignment request body
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// List lists people with pagination. Admin only.
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	people, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "", pagination.NewResponse(people, params, total))
}

// GetByID returns a single person
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	person, err := h.userService.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", person)
}

// UpdateProfile updates the current person's own profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	personID, ok := c.Locals("personID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	person, err := h.userService.UpdateProfile(c.Context(), personID, &services.UpdateProfileInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Department: req.Department,
		Year:       req.Year,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Profile updated", person)
}

// AssignRole moves a person onto a different system role. Admin only.
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	var req AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	person, err := h.userService.AssignSystemRole(c.Context(), id, req.Role)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Role assigned", person)
}

// Delete removes a person. Admin only.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	if err := h.userService.Delete(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Person deleted", nil)
}

// MyCapabilities returns the current person's effective capabilities
func (h *UserHandler) MyCapabilities(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	caps, err := h.userService.MyCapabilities(c.Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", fiber.Map{"capabilities": caps})
}
