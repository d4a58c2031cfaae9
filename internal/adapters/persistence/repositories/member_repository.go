package repositories

import (
	"context"

	"welin-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID with vendor preloaded
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Preload("Vendor").Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByEmail gets a member by email
func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByWelinID gets a member by welin ID with vendor preloaded
func (r *memberRepository) GetByWelinID(ctx context.Context, welinID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Preload("Vendor").Where("welin_id = ?", welinID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates a member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete hard deletes a member and its product references
func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.MemberProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Member{}, id).Error
	})
}

// List lists all members with vendor preloaded
func (r *memberRepository) List(ctx context.Context) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).Preload("Vendor").Find(&members).Error
	return members, err
}

// ListByVendor lists members owned by a vendor
func (r *memberRepository) ListByVendor(ctx context.Context, vendorID uint) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).Preload("Vendor").Where("vendor_id = ?", vendorID).Find(&members).Error
	return members, err
}

// ListByAgent lists members created by an agent, products included
func (r *memberRepository) ListByAgent(ctx context.Context, agentID uint) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Agent").
		Preload("Products").
		Where("agent_id = ?", agentID).
		Find(&members).Error
	return members, err
}

// ExistsByWelinID checks if a welin ID is taken
func (r *memberRepository) ExistsByWelinID(ctx context.Context, welinID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("welin_id = ?", welinID).Count(&count).Error
	return count > 0, err
}

// CountActive counts active members
func (r *memberRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// AddProduct appends a product reference to a member
func (r *memberRepository) AddProduct(ctx context.Context, product *models.MemberProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetProducts lists a member's product references in insertion order
func (r *memberRepository) GetProducts(ctx context.Context, memberID uint) ([]*models.MemberProduct, error) {
	var products []*models.MemberProduct
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

// SetProductPaid flips a product reference's payment flag
func (r *memberRepository) SetProductPaid(ctx context.Context, memberID uint, productType string, productID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.MemberProduct{}).
		Where("member_id = ? AND type = ? AND product_id = ?", memberID, productType, productID).
		Update("payment_status", true).Error
}
