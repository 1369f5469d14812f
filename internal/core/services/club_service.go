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

// Club errors
var (
	ErrClubNotFound  = fmt.Errorf("club %w", domain.ErrNotFound)
	ErrClubNameTaken = fmt.Errorf("club name %w", domain.ErrConflict)
	ErrClubNotActive = fmt.Errorf("club is not active: %w", domain.ErrInvalidState)
)

// ClubService handles club business logic
type ClubService struct {
	clubRepo repositories.ClubRepository
	guard    *authz.Guard
}

// NewClubService creates a new club service
func NewClubService(clubRepo repositories.ClubRepository, guard *authz.Guard) *ClubService {
	return &ClubService{clubRepo: clubRepo, guard: guard}
}

// CreateClubInput represents club creation input
type CreateClubInput struct {
	Name            string    `json:"name" validate:"required,max=100"`
	Description     string    `json:"description"`
	DateEstablished time.Time `json:"date_established"`
}

// UpdateClubInput represents club update input. Only the name and
// description can change; status moves through the review workflow.
type UpdateClubInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create registers a new club proposal. Every club starts Pending and
// must be accepted by an admin before it activates, no matter who files it.
func (s *ClubService) Create(ctx context.Context, actor domain.Actor, input *CreateClubInput) (*models.ClubResponse, error) {
	// 1. Require an authenticated actor
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	// 2. Reject duplicate names
	if _, err := s.clubRepo.FindByName(ctx, input.Name); err == nil {
		return nil, ErrClubNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. Create the club in Pending
	established := input.DateEstablished
	if established.IsZero() {
		established = time.Now()
	}
	club := &models.Club{
		Name:            input.Name,
		Description:     input.Description,
		DateEstablished: established,
		CreatedBy:       actor.PersonID,
		Status:          domain.StatusPending,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, err
	}

	log.Printf("✅ Club proposed: %s (by person %d)", club.Name, actor.PersonID)

	return club.ToResponse(0), nil
}

// GetByID returns a club with its active member count
func (s *ClubService) GetByID(ctx context.Context, id uint) (*models.ClubResponse, error) {
	club, err := s.clubRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	count, err := s.clubRepo.MemberCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return club.ToResponse(count), nil
}

// List lists clubs. Unauthenticated and non-admin callers only see
// active clubs; admins may filter by any status.
func (s *ClubService) List(ctx context.Context, actor domain.Actor, status string, offset, limit int) ([]models.ClubResponse, int64, error) {
	if !actor.IsAdmin() {
		status = domain.StatusActive
	}

	clubs, total, err := s.clubRepo.List(ctx, status, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.ClubResponse, 0, len(clubs))
	for i := range clubs {
		count, err := s.clubRepo.MemberCount(ctx, clubs[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *clubs[i].ToResponse(count))
	}
	return out, total, nil
}

// Update changes a club's name or description. Only the club's leaders
// and admins may edit it.
func (s *ClubService) Update(ctx context.Context, actor domain.Actor, id uint, input *UpdateClubInput) (*models.ClubResponse, error) {
	// 1. Load the club
	club, err := s.clubRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	// 2. Authorize
	decision, err := s.guard.CanManageClub(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	// 3. Apply the edit
	if input.Name != nil && *input.Name != club.Name {
		if _, err := s.clubRepo.FindByName(ctx, *input.Name); err == nil {
			return nil, ErrClubNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		club.Name = *input.Name
	}
	if input.Description != nil {
		club.Description = *input.Description
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}

	count, err := s.clubRepo.MemberCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return club.ToResponse(count), nil
}

// Delete removes a club. Admin only.
func (s *ClubService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	decision := s.guard.CanReviewClub(actor)
	if !decision.Allowed {
		return decision.Err()
	}

	if _, err := s.clubRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClubNotFound
		}
		return err
	}

	log.Printf("🗑️ Club %d deleted by person %d", id, actor.PersonID)
	return s.clubRepo.Delete(ctx, id)
}
