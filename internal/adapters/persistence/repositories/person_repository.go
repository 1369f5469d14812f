package repositories

import (
	"context"

	"campus-clubhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// personRepository implements PersonRepository interface
type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

// Create creates a new person
func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

// FindByID finds a person by ID with their role preloaded
func (r *personRepository) FindByID(ctx context.Context, id uint) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Preload("Role").Where("id = ?", id).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByEmail finds a person by email with their role preloaded
func (r *personRepository) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// List lists people with pagination
func (r *personRepository) List(ctx context.Context, offset, limit int) ([]models.Person, int64, error) {
	var people []models.Person
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Person{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).Preload("Role").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&people).Error
	if err != nil {
		return nil, 0, err
	}
	return people, total, nil
}

// Update updates a person
func (r *personRepository) Update(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

// Delete soft deletes a person
func (r *personRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Person{}, id).Error
}

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// FindByName finds a role by name
func (r *roleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByID finds a role by ID
func (r *roleRepository) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}
