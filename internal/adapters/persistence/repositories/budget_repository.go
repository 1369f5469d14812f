package repositories

import (
	"context"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// budgetRepository implements BudgetRepository interface
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

// Create creates a new budget
func (r *budgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

// FindByID finds a budget by ID with its club preloaded
func (r *budgetRepository) FindByID(ctx context.Context, id uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).Preload("Club").Where("id = ?", id).First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// FindByClubAndYear finds the budget row for a (club, academic year) pair
func (r *budgetRepository) FindByClubAndYear(ctx context.Context, clubID uint, year string) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND academic_year = ?", clubID, year).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// ListByClub lists a club's budgets, newest year first
func (r *budgetRepository) ListByClub(ctx context.Context, clubID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("academic_year DESC").
		Find(&budgets).Error
	return budgets, err
}

// Update updates a budget
func (r *budgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).Save(budget).Error
}

// CreateExpenditure creates a new expenditure
func (r *budgetRepository) CreateExpenditure(ctx context.Context, exp *models.Expenditure) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

// FindExpenditureByID finds an expenditure with its budget and club preloaded
func (r *budgetRepository) FindExpenditureByID(ctx context.Context, id uint) (*models.Expenditure, error) {
	var exp models.Expenditure
	err := r.db.WithContext(ctx).Preload("Budget").Preload("Budget.Club").
		Where("id = ?", id).First(&exp).Error
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// ListExpendituresByBudget lists a budget's expenditures
func (r *budgetRepository) ListExpendituresByBudget(ctx context.Context, budgetID uint) ([]models.Expenditure, error) {
	var list []models.Expenditure
	err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("request_date DESC").
		Find(&list).Error
	return list, err
}

// ListPendingExpendituresAll lists every pending expenditure system-wide
func (r *budgetRepository) ListPendingExpendituresAll(ctx context.Context) ([]models.Expenditure, error) {
	var list []models.Expenditure
	err := r.db.WithContext(ctx).Preload("Budget").Preload("Budget.Club").
		Where("status = ?", domain.ExpenditurePending).
		Order("request_date ASC").
		Find(&list).Error
	return list, err
}

// ListExpendituresByClubs lists expenditures of every status for a set of clubs
func (r *budgetRepository) ListExpendituresByClubs(ctx context.Context, clubIDs []uint) ([]models.Expenditure, error) {
	if len(clubIDs) == 0 {
		return []models.Expenditure{}, nil
	}
	var list []models.Expenditure
	err := r.db.WithContext(ctx).Preload("Budget").Preload("Budget.Club").
		Joins("JOIN budgets ON budgets.id = expenditures.budget_id").
		Where("budgets.club_id IN ?", clubIDs).
		Order("expenditures.request_date DESC").
		Find(&list).Error
	return list, err
}

// SettleExpenditure moves a pending expenditure to its final status. When the
// status is Approved the budget's spent total grows by the expenditure amount
// in the same transaction, so the two rows never drift apart.
func (r *budgetRepository) SettleExpenditure(ctx context.Context, expID uint, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exp models.Expenditure
		if err := tx.Where("id = ?", expID).First(&exp).Error; err != nil {
			return err
		}
		if exp.Status != domain.ExpenditurePending {
			return domain.ErrInvalidState
		}

		if err := tx.Model(&models.Expenditure{}).
			Where("id = ?", expID).
			Update("status", status).Error; err != nil {
			return err
		}

		if status == domain.ExpenditureApproved {
			if err := tx.Model(&models.Budget{}).
				Where("id = ?", exp.BudgetID).
				Update("total_spent", gorm.Expr("total_spent + ?", exp.Amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RecomputeSpent rebuilds a budget's spent total from its approved
// expenditure rows and returns the recomputed value
func (r *budgetRepository) RecomputeSpent(ctx context.Context, budgetID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Model(&models.Expenditure{}).
			Where("budget_id = ? AND status = ?", budgetID, domain.ExpenditureApproved).
			Select("COALESCE(SUM(amount), 0)")
		if err := row.Scan(&total).Error; err != nil {
			return err
		}
		return tx.Model(&models.Budget{}).
			Where("id = ?", budgetID).
			Update("total_spent", total).Error
	})
	return total, err
}

// AllBudgetIDs lists every budget ID
func (r *budgetRepository) AllBudgetIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Budget{}).Pluck("id", &ids).Error
	return ids, err
}
