package handlers

import (
	"errors"
	"time"

	"campus-clubhub/internal/core/services"
	"campus-clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BudgetHandler handles budget and expenditure endpoints
type BudgetHandler struct {
	budgetService *services.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents budget allocation request body
type CreateBudgetRequest struct {
	ClubID         uint    `json:"club_id"`
	AcademicYear   string  `json:"academic_year"`
	TotalAllocated float64 `json:"total_allocated"`
}

// AddExpenditureRequest represents expenditure creation request body
type AddExpenditureRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	RequestDate string  `json:"request_date"`
}

// Create allocates a budget. Admin only.
func (h *BudgetHandler) Create(c *fiber.Ctx) error {
	var req CreateBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ClubID == 0 {
		return response.BadRequest(c, "club_id is required")
	}
	if req.AcademicYear == "" {
		return response.BadRequest(c, "academic_year is required")
	}

	budget, err := h.budgetService.CreateBudget(c.Context(), actorFromCtx(c), &services.CreateBudgetInput{
		ClubID:         req.ClubID,
		AcademicYear:   req.AcademicYear,
		TotalAllocated: req.TotalAllocated,
	})
	if err != nil {
		if errors.Is(err, services.ErrBudgetExists) {
			return response.Conflict(c, "Budget already allocated for this club and year")
		}
		return serviceError(c, err)
	}
	return response.Created(c, "Budget allocated", budget)
}

// GetByID returns a budget with its remaining balance
func (h *BudgetHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid budget id")
	}

	budget, err := h.budgetService.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", budget)
}

// ByClub lists a club's budgets
func (h *BudgetHandler) ByClub(c *fiber.Ctx) error {
	clubID, err := paramID(c, "clubId")
	if err != nil {
		return response.BadRequest(c, "Invalid club id")
	}

	budgets, err := h.budgetService.ListByClub(c.Context(), clubID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", budgets)
}

// AddExpenditure files an expenditure against a budget
func (h *BudgetHandler) AddExpenditure(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid budget id")
	}

	var req AddExpenditureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Description == "" {
		return response.BadRequest(c, "Description is required")
	}

	var requestDate time.Time
	if req.RequestDate != "" {
		parsed, err := time.Parse("2006-01-02", req.RequestDate)
		if err != nil {
			return response.BadRequest(c, "request_date must be YYYY-MM-DD")
		}
		requestDate = parsed
	}

	exp, err := h.budgetService.AddExpenditure(c.Context(), actorFromCtx(c), id, &services.AddExpenditureInput{
		Description: req.Description,
		Amount:      req.Amount,
		RequestDate: requestDate,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Expenditure submitted for review", exp)
}

// Expenditures lists a budget's expenditures
func (h *BudgetHandler) Expenditures(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid budget id")
	}

	list, err := h.budgetService.ListExpenditures(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", list)
}

// Recompute rebuilds a budget's spent total. Admin only.
func (h *BudgetHandler) Recompute(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid budget id")
	}

	total, err := h.budgetService.Recompute(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Spent total recomputed", fiber.Map{"total_spent": total})
}
