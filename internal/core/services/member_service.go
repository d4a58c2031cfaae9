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
	"welin-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// MemberService handles member onboarding and lifecycle
type MemberService struct {
	memberRepo  repositories.MemberRepository
	userRepo    repositories.UserRepository
	coverRepo   repositories.LoanCoverRepository
	welinIDRepo repositories.WelinIDRepository
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo repositories.MemberRepository,
	userRepo repositories.UserRepository,
	coverRepo repositories.LoanCoverRepository,
	welinIDRepo repositories.WelinIDRepository,
) *MemberService {
	return &MemberService{
		memberRepo:  memberRepo,
		userRepo:    userRepo,
		coverRepo:   coverRepo,
		welinIDRepo: welinIDRepo,
	}
}

// LoanInput carries inline loan-cover terms supplied at member creation
type LoanInput struct {
	Amount       float64   `json:"amount"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	BasePremium  float64   `json:"basePremium"`
	GST          float64   `json:"gst"`
	TotalPremium float64   `json:"totalPremium"`
}

// CreateMemberInput represents member onboarding input
type CreateMemberInput struct {
	Name       string     `json:"name"`
	ContactNo  string     `json:"contactNo"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	DOB        time.Time  `json:"dob"`
	Age        int        `json:"age"`
	Gender     string     `json:"gender"`
	OrgID      string     `json:"orgId"`
	Street     string     `json:"street"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	Pincode    string     `json:"pincode"`
	Occupation string     `json:"occupation"`
	Nominee    *Nominee   `json:"nominee"`
	Loan       *LoanInput `json:"loan"`
}

// Nominee carries nominee details
type Nominee struct {
	Name      string `json:"name"`
	Relation  string `json:"relation"`
	ContactNo string `json:"contactNo"`
}

// UpdateMemberInput is the allow-list for member updates. Password, products
// and the agent reference are not mass-assignable.
type UpdateMemberInput struct {
	Name       string   `json:"name"`
	ContactNo  string   `json:"contactNo"`
	Email      string   `json:"email"`
	VendorID   *uint    `json:"vendorId"`
	WelinID    string   `json:"welinId"`
	Gender     string   `json:"gender"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Pincode    string   `json:"pincode"`
	Occupation string   `json:"occupation"`
	Nominee    *Nominee `json:"nominee"`
	IsActive   *bool    `json:"isActive"`
}

// MemberProductView resolves a product reference to its underlying document
type MemberProductView struct {
	Type          string      `json:"type"`
	PaymentStatus bool        `json:"paymentStatus"`
	Details       interface{} `json:"details"`
}

// CreateMemberResult bundles the created member with any inline loan cover
type CreateMemberResult struct {
	Member    *models.Member    `json:"member"`
	LoanCover *models.LoanCover `json:"loanCover,omitempty"`
}

// Create onboards a member under the caller's vendor. Agents resolve to
// their owning vendor; vendors resolve to themselves.
func (s *MemberService) Create(ctx context.Context, caller *models.User, input *CreateMemberInput) (*CreateMemberResult, error) {
	var vendorID uint
	switch caller.Role {
	case domain.RoleAgent:
		if caller.VendorID == nil {
			return nil, domain.ErrVendorNotFound
		}
		vendorID = *caller.VendorID
	case domain.RoleVendor:
		vendorID = caller.ID
	default:
		return nil, domain.ErrForbidden
	}

	vendor, err := s.userRepo.GetByID(ctx, vendorID)
	if err != nil || vendor.Role != domain.RoleVendor {
		return nil, domain.ErrVendorNotFound
	}

	// Inline loan terms are held to the same rules as standalone issuance,
	// before the member row is written
	if input.Loan != nil {
		if input.Loan.Amount <= 0 || input.Loan.TotalPremium <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if !input.Loan.EndDate.After(input.Loan.StartDate) {
			return nil, domain.ErrInvalidInput
		}
		if math.Abs(input.Loan.BasePremium+input.Loan.GST-input.Loan.TotalPremium) > premiumTolerance {
			return nil, domain.ErrInvalidPremium
		}
	}

	welinID, err := s.welinIDRepo.NextID(ctx)
	if err != nil {
		return nil, err
	}

	pwd := input.Password
	if pwd == "" {
		pwd = "password"
	}
	hashedPassword, err := password.Hash(pwd)
	if err != nil {
		return nil, err
	}

	age := input.Age
	if age == 0 {
		age = calculateAge(input.DOB)
	}

	member := &models.Member{
		WelinID:    welinID,
		VendorID:   vendorID,
		AgentID:    &caller.ID,
		OrgID:      input.OrgID,
		Name:       input.Name,
		ContactNo:  input.ContactNo,
		Email:      input.Email,
		Password:   hashedPassword,
		DOB:        input.DOB,
		Age:        age,
		Gender:     input.Gender,
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		Pincode:    input.Pincode,
		Occupation: input.Occupation,
		IsActive:   true,
	}
	if input.Nominee != nil {
		member.NomineeName = input.Nominee.Name
		member.NomineeRelation = input.Nominee.Relation
		member.NomineeContactNo = input.Nominee.ContactNo
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	result := &CreateMemberResult{Member: member}

	// Inline loan terms create the cover and its product reference
	if input.Loan != nil {
		cover := &models.LoanCover{
			MemberID:          member.ID,
			VendorID:          vendorID,
			LoanAmount:        input.Loan.Amount,
			CoverageStartDate: input.Loan.StartDate,
			CoverageEndDate:   input.Loan.EndDate,
			BasePremium:       input.Loan.BasePremium,
			GST:               input.Loan.GST,
			TotalPremium:      input.Loan.TotalPremium,
			PaymentStatus:     models.CoverPaymentPending,
			Status:            models.CoverStatusActive,
		}
		issued, _, err := s.coverRepo.CreateIfNoActive(ctx, cover)
		if err != nil {
			return nil, err
		}

		member.LoanFlag = true
		if err := s.memberRepo.Update(ctx, member); err != nil {
			return nil, err
		}

		result.LoanCover = issued
	}

	log.Printf("✅ Member onboarded: %s (vendor %d)", member.WelinID, vendorID)
	return result, nil
}

// calculateAge derives age in whole years from a date of birth
func calculateAge(dob time.Time) int {
	if dob.IsZero() {
		return 0
	}
	now := time.Now()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// List lists all members
func (s *MemberService) List(ctx context.Context) ([]*models.Member, error) {
	return s.memberRepo.List(ctx)
}

// ListByVendor lists members owned by a vendor, validating the vendor first
func (s *MemberService) ListByVendor(ctx context.Context, vendorID uint) ([]*models.Member, error) {
	vendor, err := s.userRepo.GetByID(ctx, vendorID)
	if err != nil || vendor.Role != domain.RoleVendor {
		return nil, domain.ErrVendorNotFound
	}
	return s.memberRepo.ListByVendor(ctx, vendorID)
}

// ListByAgent lists members created by an agent, validating the agent first
func (s *MemberService) ListByAgent(ctx context.Context, agentID uint) ([]*models.Member, error) {
	agent, err := s.userRepo.GetByID(ctx, agentID)
	if err != nil || agent.Role != domain.RoleAgent {
		return nil, domain.ErrAgentNotFound
	}
	return s.memberRepo.ListByAgent(ctx, agentID)
}

// GetByWelinID gets a member by welin ID
func (s *MemberService) GetByWelinID(ctx context.Context, welinID string) (*models.Member, error) {
	member, err := s.memberRepo.GetByWelinID(ctx, welinID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// Update applies the allow-listed fields to a member
func (s *MemberService) Update(ctx context.Context, id uint, input *UpdateMemberInput) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	if input.VendorID != nil && *input.VendorID != member.VendorID {
		vendor, err := s.userRepo.GetByID(ctx, *input.VendorID)
		if err != nil || vendor.Role != domain.RoleVendor {
			return nil, domain.ErrVendorNotFound
		}
		member.VendorID = *input.VendorID
	}

	if input.WelinID != "" && input.WelinID != member.WelinID {
		exists, err := s.memberRepo.ExistsByWelinID(ctx, input.WelinID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrMemberExists
		}
		member.WelinID = input.WelinID
	}

	if input.Name != "" {
		member.Name = input.Name
	}
	if input.ContactNo != "" {
		member.ContactNo = input.ContactNo
	}
	if input.Email != "" {
		member.Email = input.Email
	}
	if input.Gender != "" {
		member.Gender = input.Gender
	}
	if input.Street != "" {
		member.Street = input.Street
	}
	if input.City != "" {
		member.City = input.City
	}
	if input.State != "" {
		member.State = input.State
	}
	if input.Pincode != "" {
		member.Pincode = input.Pincode
	}
	if input.Occupation != "" {
		member.Occupation = input.Occupation
	}
	if input.Nominee != nil {
		member.NomineeName = input.Nominee.Name
		member.NomineeRelation = input.Nominee.Relation
		member.NomineeContactNo = input.Nominee.ContactNo
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// Delete hard-deletes a member (the member path, unlike users, allows it)
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	if _, err := s.memberRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMemberNotFound
		}
		return err
	}
	return s.memberRepo.Delete(ctx, id)
}

// GetProducts resolves each product reference to its underlying document
// by kind. The kind set is closed: unknown kinds fail loudly instead of
// returning an empty detail.
func (s *MemberService) GetProducts(ctx context.Context, memberID uint) ([]*MemberProductView, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	refs, err := s.memberRepo.GetProducts(ctx, memberID)
	if err != nil {
		return nil, err
	}

	views := make([]*MemberProductView, 0, len(refs))
	for _, ref := range refs {
		view := &MemberProductView{
			Type:          ref.Type,
			PaymentStatus: ref.PaymentStatus,
		}

		switch ref.Type {
		case models.ProductKindLoanCover:
			cover, err := s.coverRepo.GetByID(ctx, ref.ProductID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
			} else {
				view.Details = cover
			}
		case models.ProductKindHealthCover:
			return nil, domain.ErrProductKindUnsupported
		default:
			return nil, domain.ErrProductKindUnsupported
		}

		views = append(views, view)
	}

	return views, nil
}
