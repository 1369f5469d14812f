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

// Membership errors
var (
	ErrMembershipNotFound = fmt.Errorf("membership %w", domain.ErrNotFound)
	ErrAlreadyMember      = fmt.Errorf("membership %w", domain.ErrConflict)
	ErrInvalidClubRole    = fmt.Errorf("unknown club role: %w", domain.ErrValidation)
)

// MembershipService handles club membership business logic
type MembershipService struct {
	membershipRepo repositories.MembershipRepository
	clubRepo       repositories.ClubRepository
	personRepo     repositories.PersonRepository
	guard          *authz.Guard
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	membershipRepo repositories.MembershipRepository,
	clubRepo repositories.ClubRepository,
	personRepo repositories.PersonRepository,
	guard *authz.Guard,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		clubRepo:       clubRepo,
		personRepo:     personRepo,
		guard:          guard,
	}
}

// RequestJoin files a join request for the actor themselves. The request
// sits Pending until a leader of that club (or an admin) reviews it.
func (s *MembershipService) RequestJoin(ctx context.Context, actor domain.Actor, clubID uint) (*models.MembershipResponse, error) {
	// 1. Require an authenticated actor
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	// 2. The club must exist and be active
	club, err := s.clubRepo.FindByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if club.Status != domain.StatusActive {
		return nil, ErrClubNotActive
	}

	// 3. One membership row per (person, club), whatever its status
	if _, err := s.membershipRepo.FindByPersonAndClub(ctx, actor.PersonID, clubID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 4. Create the pending request
	m := &models.ClubMembership{
		PersonID:   actor.PersonID,
		ClubID:     clubID,
		Role:       string(domain.ClubRoleMember),
		Status:     domain.StatusPending,
		DateJoined: time.Now(),
	}
	if err := s.membershipRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	m.Club = club

	log.Printf("📥 Join request: person %d -> club %d", actor.PersonID, clubID)

	return m.ToResponse(), nil
}

// AddMember adds a person to a club directly as an active member. Only the
// club's leaders and admins may do this; it skips the review queue.
func (s *MembershipService) AddMember(ctx context.Context, actor domain.Actor, clubID, personID uint) (*models.MembershipResponse, error) {
	// 1. Authorize against this exact club
	decision, err := s.guard.CanManageClub(ctx, actor, clubID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 2. Both sides must exist
	club, err := s.clubRepo.FindByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	person, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	// 3. Reject duplicates
	if _, err := s.membershipRepo.FindByPersonAndClub(ctx, personID, clubID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 4. Create the active membership
	m := &models.ClubMembership{
		PersonID:   personID,
		ClubID:     clubID,
		Role:       string(domain.ClubRoleMember),
		Status:     domain.StatusActive,
		DateJoined: time.Now(),
	}
	if err := s.membershipRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	m.Club = club
	m.Person = person

	log.Printf("✅ Member added: person %d -> club %d (by %d)", personID, clubID, actor.PersonID)

	return m.ToResponse(), nil
}

// RemoveMember removes a person from a club
func (s *MembershipService) RemoveMember(ctx context.Context, actor domain.Actor, clubID, personID uint) error {
	// 1. Authorize
	decision, err := s.guard.CanManageClub(ctx, actor, clubID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decision.Err()
	}

	// 2. Find the membership row
	m, err := s.membershipRepo.FindByPersonAndClub(ctx, personID, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}

	log.Printf("🗑️ Member removed: person %d from club %d (by %d)", personID, clubID, actor.PersonID)

	return s.membershipRepo.Delete(ctx, m.ID)
}

// AssignRole promotes or demotes a member between the leader and member
// roles. Admin only. The membership must already be active.
func (s *MembershipService) AssignRole(ctx context.Context, actor domain.Actor, membershipID uint, role string) (*models.MembershipResponse, error) {
	// 1. Authorize
	decision := s.guard.CanAssignClubRole(actor)
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 2. The role must be one of the two club roles
	if role != string(domain.ClubRoleLeader) && role != string(domain.ClubRoleMember) {
		return nil, ErrInvalidClubRole
	}

	// 3. Find the membership
	m, err := s.membershipRepo.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	// 4. Only active members carry a meaningful role
	if m.Status != domain.StatusActive {
		return nil, fmt.Errorf("membership is not active: %w", domain.ErrInvalidState)
	}

	m.Role = role
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	log.Printf("✅ Role assigned: membership %d -> %s (by %d)", membershipID, role, actor.PersonID)

	return m.ToResponse(), nil
}

// ListClubMembers lists a club's memberships, optionally filtered by status
func (s *MembershipService) ListClubMembers(ctx context.Context, clubID uint, status string) ([]models.MembershipResponse, error) {
	if _, err := s.clubRepo.FindByID(ctx, clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	list, err := s.membershipRepo.ListByClub(ctx, clubID, status)
	if err != nil {
		return nil, err
	}

	out := make([]models.MembershipResponse, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToResponse())
	}
	return out, nil
}

// MyMemberships lists the actor's own memberships across clubs
func (s *MembershipService) MyMemberships(ctx context.Context, actor domain.Actor) ([]models.MembershipResponse, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	list, err := s.membershipRepo.ListByPerson(ctx, actor.PersonID)
	if err != nil {
		return nil, err
	}

	out := make([]models.MembershipResponse, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToResponse())
	}
	return out, nil
}
