package services

import (
	"context"
	"errors"
	"fmt"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/adapters/persistence/repositories"
	"campus-clubhub/internal/core/domain"
	"campus-clubhub/internal/core/permissions"

	"gorm.io/gorm"
)

// User errors
var (
	ErrUnknownRole = fmt.Errorf("unknown role: %w", domain.ErrValidation)
)

// UserService handles person directory and role administration
type UserService struct {
	personRepo     repositories.PersonRepository
	roleRepo       repositories.RoleRepository
	membershipRepo repositories.MembershipRepository
}

// NewUserService creates a new user service
func NewUserService(
	personRepo repositories.PersonRepository,
	roleRepo repositories.RoleRepository,
	membershipRepo repositories.MembershipRepository,
) *UserService {
	return &UserService{
		personRepo:     personRepo,
		roleRepo:       roleRepo,
		membershipRepo: membershipRepo,
	}
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Year       *int    `json:"year"`
}

// List lists people with pagination. Admin only; enforced at the route.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]models.PersonResponse, int64, error) {
	people, total, err := s.personRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.PersonResponse, 0, len(people))
	for i := range people {
		out = append(out, *people[i].ToResponse())
	}
	return out, total, nil
}

// GetByID returns a single person
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.PersonResponse, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return person.ToResponse(), nil
}

// UpdateProfile updates a person's own profile fields. Email, password and
// role move through their own flows.
func (s *UserService) UpdateProfile(ctx context.Context, personID uint, input *UpdateProfileInput) (*models.PersonResponse, error) {
	person, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		person.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		person.LastName = *input.LastName
	}
	if input.Phone != nil {
		person.Phone = *input.Phone
	}
	if input.Department != nil {
		person.Department = *input.Department
	}
	if input.Year != nil {
		person.Year = input.Year
	}

	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, err
	}
	return person.ToResponse(), nil
}

// AssignSystemRole moves a person onto a different system role. Admin only;
// enforced at the route. The role must be one of the seeded roles.
func (s *UserService) AssignSystemRole(ctx context.Context, personID uint, roleName string) (*models.PersonResponse, error) {
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownRole
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

	person.RoleID = role.ID
	person.Role = role
	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, err
	}
	return person.ToResponse(), nil
}

// Delete removes a person. Admin only; enforced at the route.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.personRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		return err
	}
	return s.personRepo.Delete(ctx, id)
}

// MyCapabilities returns the actor's effective capability names: their
// system role's grants plus whatever their active club memberships add.
func (s *UserService) MyCapabilities(ctx context.Context, actor domain.Actor) ([]string, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	set, err := permissions.Aggregate(ctx, actor, s.membershipRepo)
	if err != nil {
		return nil, err
	}

	caps := set.List()
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out, nil
}
