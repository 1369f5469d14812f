package repositories

import (
	"context"
	"time"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// membershipRepository implements MembershipRepository interface
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create creates a new membership
func (r *membershipRepository) Create(ctx context.Context, m *models.ClubMembership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID finds a membership by ID with person and club preloaded
func (r *membershipRepository) FindByID(ctx context.Context, id uint) (*models.ClubMembership, error) {
	var m models.ClubMembership
	err := r.db.WithContext(ctx).Preload("Person").Preload("Club").
		Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByPersonAndClub finds the membership row for a (person, club) pair
func (r *membershipRepository) FindByPersonAndClub(ctx context.Context, personID, clubID uint) (*models.ClubMembership, error) {
	var m models.ClubMembership
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND club_id = ?", personID, clubID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByClub lists a club's memberships, optionally filtered by status
func (r *membershipRepository) ListByClub(ctx context.Context, clubID uint, status string) ([]models.ClubMembership, error) {
	var list []models.ClubMembership
	query := r.db.WithContext(ctx).Preload("Person").Where("club_id = ?", clubID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("date_joined ASC").Find(&list).Error
	return list, err
}

// ListByPerson lists every membership a person holds
func (r *membershipRepository) ListByPerson(ctx context.Context, personID uint) ([]models.ClubMembership, error) {
	var list []models.ClubMembership
	err := r.db.WithContext(ctx).Preload("Club").
		Where("person_id = ?", personID).
		Order("date_joined ASC").
		Find(&list).Error
	return list, err
}

// ListPendingByClubs lists pending join requests across a set of clubs
func (r *membershipRepository) ListPendingByClubs(ctx context.Context, clubIDs []uint) ([]models.ClubMembership, error) {
	if len(clubIDs) == 0 {
		return []models.ClubMembership{}, nil
	}
	var list []models.ClubMembership
	err := r.db.WithContext(ctx).Preload("Person").Preload("Club").
		Where("club_id IN ? AND status = ?", clubIDs, domain.StatusPending).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// ListPendingAll lists every pending join request system-wide
func (r *membershipRepository) ListPendingAll(ctx context.Context) ([]models.ClubMembership, error) {
	var list []models.ClubMembership
	err := r.db.WithContext(ctx).Preload("Person").Preload("Club").
		Where("status = ?", domain.StatusPending).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// Update updates a membership
func (r *membershipRepository) Update(ctx context.Context, m *models.ClubMembership) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Settle moves a pending join request to its final status; acceptance also
// stamps the join date. The update only matches a Pending row, so a request
// that was already settled comes back as ErrInvalidState instead of being
// flipped a second time.
func (r *membershipRepository) Settle(ctx context.Context, membershipID uint, status string, joined time.Time) error {
	values := map[string]interface{}{"status": status}
	if status == domain.StatusActive {
		values["date_joined"] = joined
	}

	result := r.db.WithContext(ctx).Model(&models.ClubMembership{}).
		Where("id = ? AND status = ?", membershipID, domain.StatusPending).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// Delete removes a membership
func (r *membershipRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ClubMembership{}, id).Error
}

// IsClubLeader reports whether a person holds an active leader membership
// in the given club
func (r *membershipRepository) IsClubLeader(ctx context.Context, clubID, personID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClubMembership{}).
		Where("club_id = ? AND person_id = ? AND role = ? AND status = ?",
			clubID, personID, string(domain.ClubRoleLeader), domain.StatusActive).
		Count(&count).Error
	return count > 0, err
}

// LedClubIDs lists the clubs a person actively leads
func (r *membershipRepository) LedClubIDs(ctx context.Context, personID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ClubMembership{}).
		Where("person_id = ? AND role = ? AND status = ?",
			personID, string(domain.ClubRoleLeader), domain.StatusActive).
		Pluck("club_id", &ids).Error
	return ids, err
}

// ClubRolesForPerson lists the club roles a person holds through active
// memberships. Pending and inactive memberships grant nothing.
func (r *membershipRepository) ClubRolesForPerson(ctx context.Context, personID uint) ([]domain.ClubRole, error) {
	var roles []string
	err := r.db.WithContext(ctx).Model(&models.ClubMembership{}).
		Where("person_id = ? AND status = ?", personID, domain.StatusActive).
		Distinct().
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.ClubRole, 0, len(roles))
	for _, role := range roles {
		out = append(out, domain.ClubRole(role))
	}
	return out, nil
}
