package repositories

import (
	"context"
	"time"

	"campus-clubhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByID finds an event by ID with its club preloaded
func (r *eventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Preload("Club").Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List lists events with pagination, soonest first
func (r *eventRepository) List(ctx context.Context, offset, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).Preload("Club").
		Offset(offset).Limit(limit).
		Order("event_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListByClub lists a club's events
func (r *eventRepository) ListByClub(ctx context.Context, clubID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("event_date ASC").
		Find(&events).Error
	return events, err
}

// Update updates an event
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete soft deletes an event
func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, id).Error
}

// RecordAttendance records a person's attendance at an event
func (r *eventRepository) RecordAttendance(ctx context.Context, att *models.EventAttendance) error {
	return r.db.WithContext(ctx).Create(att).Error
}

// ListAttendees lists everyone recorded at an event
func (r *eventRepository) ListAttendees(ctx context.Context, eventID uint) ([]models.EventAttendance, error) {
	var list []models.EventAttendance
	err := r.db.WithContext(ctx).Preload("Person").
		Where("event_id = ?", eventID).
		Order("recorded_at ASC").
		Find(&list).Error
	return list, err
}

// CountUpcoming counts events on or after the given date
func (r *eventRepository) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("event_date >= ?", from).
		Count(&count).Error
	return count, err
}
