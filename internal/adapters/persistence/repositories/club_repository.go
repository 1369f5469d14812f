package repositories

import (
	"context"
	"errors"
	"time"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// clubRepository implements ClubRepository interface
type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository creates a new club repository
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

// Create creates a new club
func (r *clubRepository) Create(ctx context.Context, club *models.Club) error {
	return r.db.WithContext(ctx).Create(club).Error
}

// FindByID finds a club by ID with its creator preloaded
func (r *clubRepository) FindByID(ctx context.Context, id uint) (*models.Club, error) {
	var club models.Club
	err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&club).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// FindByName finds a club by its name
func (r *clubRepository) FindByName(ctx context.Context, name string) (*models.Club, error) {
	var club models.Club
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&club).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// List lists clubs with optional status filter and pagination
func (r *clubRepository) List(ctx context.Context, status string, offset, limit int) ([]models.Club, int64, error) {
	var clubs []models.Club
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Club{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Creator").
		Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&clubs).Error
	if err != nil {
		return nil, 0, err
	}
	return clubs, total, nil
}

// ListPending lists every club awaiting review
func (r *clubRepository) ListPending(ctx context.Context) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.WithContext(ctx).Preload("Creator").
		Where("status = ?", domain.StatusPending).
		Order("created_at ASC").
		Find(&clubs).Error
	return clubs, err
}

// Update updates a club
func (r *clubRepository) Update(ctx context.Context, club *models.Club) error {
	return r.db.WithContext(ctx).Save(club).Error
}

// Delete soft deletes a club
func (r *clubRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Club{}, id).Error
}

// Activate flips a pending club to Active and grants its creator an active
// leader membership. Both writes commit or roll back together. The status
// flip only matches a Pending row, so a club that was already settled comes
// back as ErrInvalidState and the leader write never runs.
func (r *clubRepository) Activate(ctx context.Context, clubID, creatorID uint, joined time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Club{}).
			Where("id = ? AND status = ?", clubID, domain.StatusPending).
			Update("status", domain.StatusActive)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		var existing models.ClubMembership
		err := tx.Where("person_id = ? AND club_id = ?", creatorID, clubID).First(&existing).Error
		if err == nil {
			existing.Role = string(domain.ClubRoleLeader)
			existing.Status = domain.StatusActive
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		membership := models.ClubMembership{
			PersonID:   creatorID,
			ClubID:     clubID,
			Role:       string(domain.ClubRoleLeader),
			Status:     domain.StatusActive,
			DateJoined: joined,
		}
		return tx.Create(&membership).Error
	})
}

// Reject parks a pending club as Inactive. A club that already left Pending
// is left alone and reported as ErrInvalidState.
func (r *clubRepository) Reject(ctx context.Context, clubID uint) error {
	result := r.db.WithContext(ctx).Model(&models.Club{}).
		Where("id = ? AND status = ?", clubID, domain.StatusPending).
		Update("status", domain.StatusInactive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// MemberCount counts a club's active members
func (r *clubRepository) MemberCount(ctx context.Context, clubID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClubMembership{}).
		Where("club_id = ? AND status = ?", clubID, domain.StatusActive).
		Count(&count).Error
	return count, err
}

// CountByStatus counts clubs in a given status
func (r *clubRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Club{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
