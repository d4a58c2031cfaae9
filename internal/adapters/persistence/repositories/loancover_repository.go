package repositories

import (
	"context"
	"errors"

	"welin-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanCoverRepository implements LoanCoverRepository interface
type loanCoverRepository struct {
	db *gorm.DB
}

// NewLoanCoverRepository creates a new loan cover repository
func NewLoanCoverRepository(db *gorm.DB) LoanCoverRepository {
	return &loanCoverRepository{db: db}
}

// Create creates a new loan cover
func (r *loanCoverRepository) Create(ctx context.Context, cover *models.LoanCover) error {
	return r.db.WithContext(ctx).Create(cover).Error
}

// GetByID gets a loan cover by ID with member and vendor preloaded
func (r *loanCoverRepository) GetByID(ctx context.Context, id uint) (*models.LoanCover, error) {
	var cover models.LoanCover
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Vendor").
		Where("id = ?", id).
		First(&cover).Error
	if err != nil {
		return nil, err
	}
	return &cover, nil
}

// CreateIfNoActive inserts the cover together with its member-product
// reference, unless the member already holds an active cover. The member's
// active covers are locked for the transaction, same as the id counter, so
// concurrent creates serialize instead of both inserting.
func (r *loanCoverRepository) CreateIfNoActive(ctx context.Context, cover *models.LoanCover) (*models.LoanCover, bool, error) {
	var winner *models.LoanCover
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.LoanCover
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ? AND status = ?", cover.MemberID, models.CoverStatusActive).
			First(&existing).Error
		if err == nil {
			winner = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(cover).Error; err != nil {
			return err
		}
		ref := &models.MemberProduct{
			MemberID:  cover.MemberID,
			Type:      models.ProductKindLoanCover,
			ProductID: cover.ID,
		}
		if err := tx.Create(ref).Error; err != nil {
			return err
		}

		winner = cover
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return winner, created, nil
}

// GetActiveByMember gets the member's active cover, if any
func (r *loanCoverRepository) GetActiveByMember(ctx context.Context, memberID uint) (*models.LoanCover, error) {
	var cover models.LoanCover
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, models.CoverStatusActive).
		First(&cover).Error
	if err != nil {
		return nil, err
	}
	return &cover, nil
}

// ListByMember lists all covers for a member
func (r *loanCoverRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.LoanCover, error) {
	var covers []*models.LoanCover
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Vendor").
		Where("member_id = ?", memberID).
		Find(&covers).Error
	return covers, err
}

// ListByVendor lists all covers issued under a vendor
func (r *loanCoverRepository) ListByVendor(ctx context.Context, vendorID uint) ([]*models.LoanCover, error) {
	var covers []*models.LoanCover
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Vendor").
		Where("vendor_id = ?", vendorID).
		Find(&covers).Error
	return covers, err
}

// Update updates a loan cover
func (r *loanCoverRepository) Update(ctx context.Context, cover *models.LoanCover) error {
	return r.db.WithContext(ctx).Save(cover).Error
}
