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

// Budget errors
var (
	ErrBudgetNotFound      = fmt.Errorf("budget %w", domain.ErrNotFound)
	ErrBudgetExists        = fmt.Errorf("budget for this club and year %w", domain.ErrConflict)
	ErrExpenditureNotFound = fmt.Errorf("expenditure %w", domain.ErrNotFound)
	ErrInvalidAmount       = fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
)

// BudgetService handles budget and expenditure business logic
type BudgetService struct {
	budgetRepo repositories.BudgetRepository
	clubRepo   repositories.ClubRepository
	guard      *authz.Guard
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo repositories.BudgetRepository,
	clubRepo repositories.ClubRepository,
	guard *authz.Guard,
) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
		clubRepo:   clubRepo,
		guard:      guard,
	}
}

// CreateBudgetInput represents budget allocation input
type CreateBudgetInput struct {
	ClubID         uint    `json:"club_id" validate:"required"`
	AcademicYear   string  `json:"academic_year" validate:"required"`
	TotalAllocated float64 `json:"total_allocated" validate:"required,gt=0"`
}

// AddExpenditureInput represents expenditure creation input
type AddExpenditureInput struct {
	Description string    `json:"description" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	RequestDate time.Time `json:"request_date"`
}

// CreateBudget allocates a budget to a club for an academic year. Admin
// only. A club carries at most one budget per year.
func (s *BudgetService) CreateBudget(ctx context.Context, actor domain.Actor, input *CreateBudgetInput) (*models.BudgetResponse, error) {
	// 1. Authorize: allocation is an admin act
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins allocate budgets: %w", domain.ErrForbidden)
	}

	// 2. Validate amount
	if input.TotalAllocated <= 0 {
		return nil, ErrInvalidAmount
	}

	// 3. The club must exist and be active
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

	// 4. One budget per (club, year)
	if _, err := s.budgetRepo.FindByClubAndYear(ctx, input.ClubID, input.AcademicYear); err == nil {
		return nil, ErrBudgetExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 5. Create the budget
	budget := &models.Budget{
		ClubID:         input.ClubID,
		AcademicYear:   input.AcademicYear,
		TotalAllocated: input.TotalAllocated,
		TotalSpent:     0,
	}
	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}
	budget.Club = club

	log.Printf("✅ Budget allocated: club %d, %s, %.2f", input.ClubID, input.AcademicYear, input.TotalAllocated)

	return budget.ToResponse(), nil
}

// GetByID returns a budget with its remaining balance
func (s *BudgetService) GetByID(ctx context.Context, id uint) (*models.BudgetResponse, error) {
	budget, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return budget.ToResponse(), nil
}

// ListByClub lists a club's budgets across academic years
func (s *BudgetService) ListByClub(ctx context.Context, clubID uint) ([]models.BudgetResponse, error) {
	if _, err := s.clubRepo.FindByID(ctx, clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	budgets, err := s.budgetRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	out := make([]models.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, *budgets[i].ToResponse())
	}
	return out, nil
}

// AddExpenditure files an expenditure against a budget. The club's leaders
// and admins may file; everything a non-admin files lands as Pending no
// matter what the request claims, and only the review step can move it on.
func (s *BudgetService) AddExpenditure(ctx context.Context, actor domain.Actor, budgetID uint, input *AddExpenditureInput) (*models.ExpenditureResponse, error) {
	// 1. Load the budget to learn its club
	budget, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	// 2. Authorize against the budget's club
	decision, err := s.guard.CanCreateExpenditure(ctx, actor, budget.ClubID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 3. Validate amount
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// 4. Create the pending expenditure
	requestDate := input.RequestDate
	if requestDate.IsZero() {
		requestDate = time.Now()
	}
	exp := &models.Expenditure{
		BudgetID:    budgetID,
		Description: input.Description,
		Amount:      input.Amount,
		RequestDate: requestDate,
		Status:      domain.ExpenditurePending,
	}
	if err := s.budgetRepo.CreateExpenditure(ctx, exp); err != nil {
		return nil, err
	}
	exp.Budget = budget

	log.Printf("📥 Expenditure filed: %.2f against budget %d (by %d)", input.Amount, budgetID, actor.PersonID)

	return exp.ToResponse(), nil
}

// ListExpenditures lists a budget's expenditures
func (s *BudgetService) ListExpenditures(ctx context.Context, budgetID uint) ([]models.ExpenditureResponse, error) {
	if _, err := s.budgetRepo.FindByID(ctx, budgetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	list, err := s.budgetRepo.ListExpendituresByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExpenditureResponse, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToResponse())
	}
	return out, nil
}

// Recompute rebuilds a budget's spent total from its approved expenditure
// rows. Running it twice in a row changes nothing the second time.
func (s *BudgetService) Recompute(ctx context.Context, budgetID uint) (float64, error) {
	if _, err := s.budgetRepo.FindByID(ctx, budgetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrBudgetNotFound
		}
		return 0, err
	}
	return s.budgetRepo.RecomputeSpent(ctx, budgetID)
}

// RecomputeAll rebuilds spent totals for every budget. Used by the nightly
// reconcile job.
func (s *BudgetService) RecomputeAll(ctx context.Context) error {
	ids, err := s.budgetRepo.AllBudgetIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := s.budgetRepo.RecomputeSpent(ctx, id); err != nil {
			return err
		}
	}
	log.Printf("🔄 Recomputed spent totals for %d budgets", len(ids))
	return nil
}
