package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/adapters/persistence/repositories"
	"welin-backend/internal/core/domain"

	"gorm.io/gorm"
)

// LoanCoverService handles loan-cover issuance and payment state
type LoanCoverService struct {
	coverRepo  repositories.LoanCoverRepository
	memberRepo repositories.MemberRepository
	userRepo   repositories.UserRepository
}

// NewLoanCoverService creates a new loan cover service
func NewLoanCoverService(
	coverRepo repositories.LoanCoverRepository,
	memberRepo repositories.MemberRepository,
	userRepo repositories.UserRepository,
) *LoanCoverService {
	return &LoanCoverService{
		coverRepo:  coverRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
	}
}

// CreateCoverInput represents loan cover issuance input
type CreateCoverInput struct {
	MemberID          uint      `json:"memberId"`
	VendorID          uint      `json:"vendorId"`
	LoanAmount        float64   `json:"loanAmount"`
	CoverageStartDate time.Time `json:"coverageStartDate"`
	CoverageEndDate   time.Time `json:"coverageEndDate"`
	BasePremium       float64   `json:"basePremium"`
	GST               float64   `json:"gst"`
	TotalPremium      float64   `json:"totalPremium"`
}

// UpdateCoverPaymentInput marks a cover's premium as settled
type UpdateCoverPaymentInput struct {
	PaymentStatus        string `json:"paymentStatus"`
	PaymentTransactionID string `json:"paymentTransactionId"`
}

// premiumTolerance absorbs float rounding when checking base+GST==total
const premiumTolerance = 0.01

// Create issues a loan cover for a member. A member holds at most one
// active cover: a second request returns the existing one unchanged.
func (s *LoanCoverService) Create(ctx context.Context, input *CreateCoverInput) (*models.LoanCover, bool, error) {
	if input.LoanAmount <= 0 || input.TotalPremium <= 0 {
		return nil, false, domain.ErrInvalidInput
	}
	if !input.CoverageEndDate.After(input.CoverageStartDate) {
		return nil, false, domain.ErrInvalidInput
	}
	if math.Abs(input.BasePremium+input.GST-input.TotalPremium) > premiumTolerance {
		return nil, false, domain.ErrInvalidPremium
	}

	if _, err := s.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, domain.ErrMemberNotFound
		}
		return nil, false, err
	}

	vendor, err := s.userRepo.GetByID(ctx, input.VendorID)
	if err != nil || vendor.Role != domain.RoleVendor {
		return nil, false, domain.ErrVendorNotFound
	}

	cover := &models.LoanCover{
		MemberID:          input.MemberID,
		VendorID:          input.VendorID,
		LoanAmount:        input.LoanAmount,
		CoverageStartDate: input.CoverageStartDate,
		CoverageEndDate:   input.CoverageEndDate,
		BasePremium:       input.BasePremium,
		GST:               input.GST,
		TotalPremium:      input.TotalPremium,
		PaymentStatus:     models.CoverPaymentPending,
		Status:            models.CoverStatusActive,
	}
	winner, created, err := s.coverRepo.CreateIfNoActive(ctx, cover)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return winner, false, nil
	}

	log.Printf("✅ Loan cover %d issued for member %d", winner.ID, input.MemberID)
	return winner, true, nil
}

// GetByID gets a cover by ID
func (s *LoanCoverService) GetByID(ctx context.Context, id uint) (*models.LoanCover, error) {
	cover, err := s.coverRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCoverNotFound
		}
		return nil, err
	}
	return cover, nil
}

// ListByMember lists a member's covers
func (s *LoanCoverService) ListByMember(ctx context.Context, memberID uint) ([]*models.LoanCover, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return s.coverRepo.ListByMember(ctx, memberID)
}

// ListByVendor lists covers issued under a vendor
func (s *LoanCoverService) ListByVendor(ctx context.Context, vendorID uint) ([]*models.LoanCover, error) {
	vendor, err := s.userRepo.GetByID(ctx, vendorID)
	if err != nil || vendor.Role != domain.RoleVendor {
		return nil, domain.ErrVendorNotFound
	}
	return s.coverRepo.ListByVendor(ctx, vendorID)
}

// UpdatePayment marks a cover's premium paid and flips the member's
// product reference in step with it.
func (s *LoanCoverService) UpdatePayment(ctx context.Context, id uint, input *UpdateCoverPaymentInput) (*models.LoanCover, error) {
	cover, err := s.coverRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCoverNotFound
		}
		return nil, err
	}

	if input.PaymentStatus != models.CoverPaymentPaid {
		return nil, domain.ErrInvalidInput
	}
	if cover.PaymentStatus == models.CoverPaymentPaid {
		return nil, domain.ErrAlreadyProcessed
	}

	now := time.Now()
	cover.PaymentStatus = models.CoverPaymentPaid
	cover.PaymentDate = &now
	cover.PaymentTransactionID = input.PaymentTransactionID

	if err := s.coverRepo.Update(ctx, cover); err != nil {
		return nil, err
	}

	if err := s.memberRepo.SetProductPaid(ctx, cover.MemberID, models.ProductKindLoanCover, cover.ID); err != nil {
		log.Printf("⚠️ Could not flag product reference paid for member %d: %v", cover.MemberID, err)
	}

	return cover, nil
}
