package repositories

import (
	"context"
	"time"

	"welin-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByTransactionID gets a payment by its transaction id
func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update updates a payment
func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Delete deletes a payment
func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error
}

// List lists payments newest first with pagination
func (r *paymentRepository) List(ctx context.Context, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// CompleteWithCover commits the payment and the linked cover update in one
// transaction. Any failure rolls back both writes.
func (r *paymentRepository) CompleteWithCover(ctx context.Context, payment *models.Payment, coverID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		if coverID == nil {
			return nil
		}

		now := time.Now()
		res := tx.Model(&models.LoanCover{}).
			Where("id = ?", *coverID).
			Updates(map[string]interface{}{
				"payment_status":         models.CoverPaymentPaid,
				"payment_date":           now,
				"payment_transaction_id": payment.TransactionID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.MemberProduct{}).
			Where("type = ? AND product_id = ?", models.ProductKindLoanCover, *coverID).
			Update("payment_status", true).Error
	})
}

// DeleteStalePending hard-deletes pending payments created before the cutoff
func (r *paymentRepository) DeleteStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, olderThan).
		Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}
