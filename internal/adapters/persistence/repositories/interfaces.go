package repositories

import (
	"context"
	"time"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/core/domain"
)

// PersonRepository handles person data access
type PersonRepository interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, id uint) (*models.Person, error)
	FindByEmail(ctx context.Context, email string) (*models.Person, error)
	List(ctx context.Context, offset, limit int) ([]models.Person, int64, error)
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id uint) error
}

// RoleRepository handles role lookups
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
	FindByID(ctx context.Context, id uint) (*models.Role, error)
}

// RefreshTokenRepository handles refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeAllForPerson(ctx context.Context, personID uint) error
	DeleteExpired(ctx context.Context) error
}

// ClubRepository handles club data access
type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	FindByID(ctx context.Context, id uint) (*models.Club, error)
	FindByName(ctx context.Context, name string) (*models.Club, error)
	List(ctx context.Context, status string, offset, limit int) ([]models.Club, int64, error)
	ListPending(ctx context.Context) ([]models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	Delete(ctx context.Context, id uint) error
	// Activate flips a pending club to Active and grants its creator an
	// active leader membership in the same transaction. The transaction
	// rechecks Pending, so a club is settled at most once.
	Activate(ctx context.Context, clubID, creatorID uint, joined time.Time) error
	// Reject parks a pending club as Inactive, with the same Pending
	// recheck.
	Reject(ctx context.Context, clubID uint) error
	MemberCount(ctx context.Context, clubID uint) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// MembershipRepository handles club membership data access. It also backs
// the capability aggregation and leadership checks used by authorization.
type MembershipRepository interface {
	Create(ctx context.Context, m *models.ClubMembership) error
	FindByID(ctx context.Context, id uint) (*models.ClubMembership, error)
	FindByPersonAndClub(ctx context.Context, personID, clubID uint) (*models.ClubMembership, error)
	ListByClub(ctx context.Context, clubID uint, status string) ([]models.ClubMembership, error)
	ListByPerson(ctx context.Context, personID uint) ([]models.ClubMembership, error)
	ListPendingByClubs(ctx context.Context, clubIDs []uint) ([]models.ClubMembership, error)
	ListPendingAll(ctx context.Context) ([]models.ClubMembership, error)
	Update(ctx context.Context, m *models.ClubMembership) error
	// Settle moves a pending join request to its final status, stamping
	// the join date on acceptance. The update rechecks Pending, so a
	// request is settled at most once.
	Settle(ctx context.Context, membershipID uint, status string, joined time.Time) error
	Delete(ctx context.Context, id uint) error

	IsClubLeader(ctx context.Context, clubID, personID uint) (bool, error)
	LedClubIDs(ctx context.Context, personID uint) ([]uint, error)
	ClubRolesForPerson(ctx context.Context, personID uint) ([]domain.ClubRole, error)
}

// EventRepository handles event and attendance data access
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, offset, limit int) ([]models.Event, int64, error)
	ListByClub(ctx context.Context, clubID uint) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error

	RecordAttendance(ctx context.Context, att *models.EventAttendance) error
	ListAttendees(ctx context.Context, eventID uint) ([]models.EventAttendance, error)
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)
}

// BudgetRepository handles budget and expenditure data access
type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	FindByID(ctx context.Context, id uint) (*models.Budget, error)
	FindByClubAndYear(ctx context.Context, clubID uint, year string) (*models.Budget, error)
	ListByClub(ctx context.Context, clubID uint) ([]models.Budget, error)
	Update(ctx context.Context, budget *models.Budget) error

	CreateExpenditure(ctx context.Context, exp *models.Expenditure) error
	FindExpenditureByID(ctx context.Context, id uint) (*models.Expenditure, error)
	ListExpendituresByBudget(ctx context.Context, budgetID uint) ([]models.Expenditure, error)
	ListPendingExpendituresAll(ctx context.Context) ([]models.Expenditure, error)
	ListExpendituresByClubs(ctx context.Context, clubIDs []uint) ([]models.Expenditure, error)
	// SettleExpenditure moves a pending expenditure to its final status and,
	// on approval, adds its amount to the budget's spent total. Both writes
	// happen in one transaction.
	SettleExpenditure(ctx context.Context, expID uint, status string) error
	// RecomputeSpent rebuilds a budget's spent total from approved
	// expenditure rows.
	RecomputeSpent(ctx context.Context, budgetID uint) (float64, error)
	AllBudgetIDs(ctx context.Context) ([]uint, error)
}
