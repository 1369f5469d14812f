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

// Approval errors
var (
	ErrAlreadyProcessed = fmt.Errorf("request already processed: %w", domain.ErrInvalidState)
)

// ApprovalService drives the three review workflows: club registration,
// membership join requests and expenditure requests. Every workflow shares
// the same shape: load, check the row is still Pending, authorize, settle.
type ApprovalService struct {
	clubRepo       repositories.ClubRepository
	membershipRepo repositories.MembershipRepository
	budgetRepo     repositories.BudgetRepository
	guard          *authz.Guard
}

// NewApprovalService creates a new approval service
func NewApprovalService(
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	budgetRepo repositories.BudgetRepository,
	guard *authz.Guard,
) *ApprovalService {
	return &ApprovalService{
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		budgetRepo:     budgetRepo,
		guard:          guard,
	}
}

// ============================================================
// Club registration review
// ============================================================

// ReviewClub accepts or rejects a pending club registration. Admin only.
// Acceptance activates the club and grants its creator an active leader
// membership in the same transaction, so a club is never Active without a
// leader. Rejection parks the club as Inactive.
func (s *ApprovalService) ReviewClub(ctx context.Context, actor domain.Actor, clubID uint, approve bool) (*models.ClubResponse, error) {
	// 1. Authorize
	decision := s.guard.CanReviewClub(actor)
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 2. Load the club
	club, err := s.clubRepo.FindByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	// 3. Only pending clubs can be reviewed
	if club.Status != domain.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	// 4. Settle. The write rechecks Pending, so a race between two
	// reviewers settles exactly once.
	if approve {
		err = s.clubRepo.Activate(ctx, clubID, club.CreatedBy, time.Now())
	} else {
		err = s.clubRepo.Reject(ctx, clubID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, ErrAlreadyProcessed
		}
		return nil, err
	}
	if approve {
		club.Status = domain.StatusActive
		log.Printf("✅ Club accepted: %s (creator %d now leads it)", club.Name, club.CreatedBy)
	} else {
		club.Status = domain.StatusInactive
		log.Printf("❌ Club rejected: %s", club.Name)
	}

	count, err := s.clubRepo.MemberCount(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return club.ToResponse(count), nil
}

// PendingClubs lists clubs awaiting review. Admin only.
func (s *ApprovalService) PendingClubs(ctx context.Context, actor domain.Actor) ([]models.ClubResponse, error) {
	decision := s.guard.CanReviewClub(actor)
	if !decision.Allowed {
		return nil, decision.Err()
	}

	clubs, err := s.clubRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ClubResponse, 0, len(clubs))
	for i := range clubs {
		out = append(out, *clubs[i].ToResponse(0))
	}
	return out, nil
}

// ============================================================
// Membership join request review
// ============================================================

// ReviewMembership accepts or rejects a pending join request. Admins and
// leaders of the request's club may review; leadership of some other club
// counts for nothing. Acceptance activates the membership, rejection parks
// it Inactive so a rejected person cannot immediately re-file.
func (s *ApprovalService) ReviewMembership(ctx context.Context, actor domain.Actor, membershipID uint, approve bool) (*models.MembershipResponse, error) {
	// 1. Load the request to learn its club
	m, err := s.membershipRepo.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	// 2. Authorize against that club
	decision, err := s.guard.CanReviewMembership(ctx, actor, m.ClubID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 3. Only pending requests can be reviewed
	if m.Status != domain.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	// 4. Settle. The write rechecks Pending, so a race between two
	// reviewers settles exactly once.
	status := domain.StatusInactive
	joined := time.Now()
	if approve {
		status = domain.StatusActive
	}
	if err := s.membershipRepo.Settle(ctx, membershipID, status, joined); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, ErrAlreadyProcessed
		}
		return nil, err
	}
	m.Status = status
	if approve {
		m.DateJoined = joined
		log.Printf("✅ Join request accepted: person %d -> club %d", m.PersonID, m.ClubID)
	} else {
		log.Printf("❌ Join request rejected: person %d -> club %d", m.PersonID, m.ClubID)
	}

	return m.ToResponse(), nil
}

// PendingMemberships lists join requests awaiting review: every pending
// request for admins, the pending requests of their own clubs for leaders.
func (s *ApprovalService) PendingMemberships(ctx context.Context, actor domain.Actor) ([]models.MembershipResponse, error) {
	scope, err := s.guard.ListingScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	var list []models.ClubMembership
	if scope.All {
		list, err = s.membershipRepo.ListPendingAll(ctx)
	} else {
		list, err = s.membershipRepo.ListPendingByClubs(ctx, scope.ClubIDs)
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.MembershipResponse, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToResponse())
	}
	return out, nil
}

// ============================================================
// Expenditure request review
// ============================================================

// ReviewExpenditure approves or rejects a pending expenditure. Admin only;
// club leaders file expenditures but never settle them. Approval adds the
// amount to the budget's spent total in the same transaction as the status
// flip, so the ledger and the request can never disagree. A request that
// already left Pending is never settled twice.
func (s *ApprovalService) ReviewExpenditure(ctx context.Context, actor domain.Actor, expenditureID uint, approve bool) (*models.ExpenditureResponse, error) {
	// 1. Authorize
	decision := s.guard.CanReviewExpenditure(actor)
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 2. Load the request
	exp, err := s.budgetRepo.FindExpenditureByID(ctx, expenditureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenditureNotFound
		}
		return nil, err
	}

	// 3. Only pending requests can be reviewed
	if exp.Status != domain.ExpenditurePending {
		return nil, ErrAlreadyProcessed
	}

	// 4. Settle atomically. The transaction rechecks Pending, so a race
	// between two reviewers settles exactly once.
	status := domain.ExpenditureRejected
	if approve {
		status = domain.ExpenditureApproved
	}
	if err := s.budgetRepo.SettleExpenditure(ctx, expenditureID, status); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, ErrAlreadyProcessed
		}
		return nil, err
	}
	exp.Status = status

	if approve {
		log.Printf("✅ Expenditure %d approved: %.2f", expenditureID, exp.Amount)
	} else {
		log.Printf("❌ Expenditure %d rejected", expenditureID)
	}

	return exp.ToResponse(), nil
}

// ExpenditureRequests lists expenditure requests for review. The two
// audiences see different slices on purpose: admins get the system-wide
// review queue, which is pending requests only, while club leaders get the
// full history of their own clubs in every status.
func (s *ApprovalService) ExpenditureRequests(ctx context.Context, actor domain.Actor) ([]models.ExpenditureResponse, error) {
	scope, err := s.guard.ListingScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	var list []models.Expenditure
	if scope.All {
		list, err = s.budgetRepo.ListPendingExpendituresAll(ctx)
	} else {
		list, err = s.budgetRepo.ListExpendituresByClubs(ctx, scope.ClubIDs)
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.ExpenditureResponse, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToResponse())
	}
	return out, nil
}
