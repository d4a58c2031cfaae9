package repositories

import (
	"context"
	"errors"

	"welin-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// premiumRepository implements PremiumRepository interface
type premiumRepository struct {
	db *gorm.DB
}

// NewPremiumRepository creates a new premium repository
func NewPremiumRepository(db *gorm.DB) PremiumRepository {
	return &premiumRepository{db: db}
}

// Upsert inserts or overwrites a (loan amount, year) bracket.
// Returns true if a new row was created.
func (r *premiumRepository) Upsert(ctx context.Context, row *models.Premium) (bool, error) {
	var existing models.Premium
	err := r.db.WithContext(ctx).
		Where("loan_amount = ? AND year = ?", row.LoanAmount, row.Year).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, r.db.WithContext(ctx).Create(row).Error
		}
		return false, err
	}

	existing.PremiumAmount = row.PremiumAmount
	return false, r.db.WithContext(ctx).Save(&existing).Error
}

// GetExact gets the exact (loan amount, year) bracket
func (r *premiumRepository) GetExact(ctx context.Context, loanAmount float64, year int) (*models.Premium, error) {
	var premium models.Premium
	err := r.db.WithContext(ctx).
		Where("loan_amount = ? AND year = ?", loanAmount, year).
		First(&premium).Error
	if err != nil {
		return nil, err
	}
	return &premium, nil
}

// GetNextBracket gets the smallest bracket strictly above the requested
// amount for the given year
func (r *premiumRepository) GetNextBracket(ctx context.Context, loanAmount float64, year int) (*models.Premium, error) {
	var premium models.Premium
	err := r.db.WithContext(ctx).
		Where("loan_amount > ? AND year = ?", loanAmount, year).
		Order("loan_amount ASC").
		First(&premium).Error
	if err != nil {
		return nil, err
	}
	return &premium, nil
}
