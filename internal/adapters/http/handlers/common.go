package handlers

import (
	"errors"
	"strconv"

	"campus-clubhub/internal/core/domain"
	"campus-clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx rebuilds the acting person from the locals the auth
// middleware set. A request with no valid token yields the zero actor,
// which every guard check treats as unauthenticated.
func actorFromCtx(c *fiber.Ctx) domain.Actor {
	actor := domain.Actor{}
	if id, ok := c.Locals("personID").(uint); ok {
		actor.PersonID = id
	}
	if email, ok := c.Locals("email").(string); ok {
		actor.Email = email
	}
	if role, ok := c.Locals("role").(string); ok {
		actor.SystemRole = domain.Role(role)
	}
	return actor
}

// paramID parses a numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// serviceError maps a service error onto the matching HTTP response by its
// domain error kind. Handlers with endpoint-specific messages switch on the
// service sentinels first and fall through to this.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "Authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to do this")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}
