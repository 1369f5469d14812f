package config

import (
	"log"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedAdmin(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRoles seeds the system roles master table
func (s *Seeder) seedRoles() error {
	roles := []models.Role{
		{Name: "Admin", Description: "Full system administration"},
		{Name: "Faculty", Description: "Faculty advisor"},
		{Name: "Student", Description: "Registered student"},
	}

	for _, role := range roles {
		var count int64
		s.db.Model(&models.Role{}).Where("name = ?", role.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := s.db.Create(&role).Error; err != nil {
			return err
		}
		log.Printf("✅ Role seeded: %s", role.Name)
	}
	return nil
}

// seedAdmin seeds the bootstrap admin account. Skipped unless a bootstrap
// password is configured, so production decides its own admin setup.
func (s *Seeder) seedAdmin() error {
	if s.cfg.Admin.Password == "" {
		log.Println("⚠️ Skipping admin seed: BOOTSTRAP_ADMIN_PASSWORD not set")
		return nil
	}

	var adminRole models.Role
	if err := s.db.Where("name = ?", "Admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.Person{}).Where("role_id = ?", adminRole.ID).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.Person{
		FirstName: "System",
		LastName:  "Admin",
		Email:     s.cfg.Admin.Email,
		Password:  hashedPassword,
		RoleID:    adminRole.ID,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin account created: %s", admin.Email)
	return nil
}
