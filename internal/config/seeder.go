package config

import (
	"log"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperadmin(); err != nil {
		log.Printf("⚠️ Superadmin seeder skipped: %v", err)
	}
	if err := s.seedPremiumBrackets(); err != nil {
		log.Printf("⚠️ Premium bracket seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperadmin seeds the bootstrap superadmin account.
// This is for development/testing only. In production, provision the
// superadmin through a secure process and rotate the password.
func (s *Seeder) seedSuperadmin() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleSuperadmin).Count(&count)
	if count > 0 {
		return nil // already provisioned
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Superadmin",
		Email:    "admin@welin.in",
		Mobile:   "9999999999",
		Password: hashedPassword,
		Role:     domain.RoleSuperadmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Superadmin user created: %s", admin.Email)
	return nil
}

// seedPremiumBrackets loads a starter premium grid so lookups work before
// the first Excel import. An import replaces these rows via upsert.
func (s *Seeder) seedPremiumBrackets() error {
	var count int64
	s.db.Model(&models.Premium{}).Count(&count)
	if count > 0 {
		return nil // table already populated
	}

	amounts := []float64{100000, 200000, 300000, 500000, 750000, 1000000}
	base := []int{950, 1800, 2600, 4200, 6100, 7900}

	var rows []models.Premium
	for year := 1; year <= 3; year++ {
		for i, amount := range amounts {
			rows = append(rows, models.Premium{
				LoanAmount:    amount,
				Year:          year,
				PremiumAmount: base[i] * year,
			})
		}
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d premium brackets", len(rows))
	return nil
}
