package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/core/domain"
)

func newCoverSetup(t *testing.T) (*LoanCoverService, *fakeUserRepo, *fakeMemberRepo, *fakeCoverRepo, *models.User, *models.Member) {
	t.Helper()
	userRepo := newFakeUserRepo()
	memberRepo := newFakeMemberRepo()
	coverRepo := newFakeCoverRepo(memberRepo)
	svc := NewLoanCoverService(coverRepo, memberRepo, userRepo)

	vendor, _ := seedVendorAndAgent(t, userRepo)
	member := &models.Member{
		WelinID:   "WELIN-2026-00001",
		VendorID:  vendor.ID,
		Name:      "Covered",
		ContactNo: "9400000001",
		Email:     "cover@example.com",
		IsActive:  true,
	}
	if err := memberRepo.Create(context.Background(), member); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return svc, userRepo, memberRepo, coverRepo, vendor, member
}

func validCoverInput(memberID, vendorID uint) *CreateCoverInput {
	start := time.Now()
	return &CreateCoverInput{
		MemberID:          memberID,
		VendorID:          vendorID,
		LoanAmount:        300000,
		CoverageStartDate: start,
		CoverageEndDate:   start.AddDate(2, 0, 0),
		BasePremium:       2500,
		GST:               450,
		TotalPremium:      2950,
	}
}

func TestCreateCover(t *testing.T) {
	svc, _, memberRepo, _, vendor, member := newCoverSetup(t)

	cover, created, err := svc.Create(context.Background(), validCoverInput(member.ID, vendor.ID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created {
		t.Error("first cover should report created")
	}
	if cover.Status != models.CoverStatusActive {
		t.Errorf("status = %q, want active", cover.Status)
	}
	if cover.PaymentStatus != models.CoverPaymentPending {
		t.Errorf("payment status = %q, want pending", cover.PaymentStatus)
	}

	refs, _ := memberRepo.GetProducts(context.Background(), member.ID)
	if len(refs) != 1 || refs[0].ProductID != cover.ID {
		t.Error("product reference not appended")
	}
}

func TestCreateCoverPremiumInvariant(t *testing.T) {
	svc, _, _, _, vendor, member := newCoverSetup(t)

	input := validCoverInput(member.ID, vendor.ID)
	input.TotalPremium = input.BasePremium + input.GST + 50

	_, _, err := svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrInvalidPremium) {
		t.Errorf("err = %v, want ErrInvalidPremium", err)
	}
}

func TestCreateCoverIdempotentWhileActive(t *testing.T) {
	svc, _, memberRepo, _, vendor, member := newCoverSetup(t)

	first, created, err := svc.Create(context.Background(), validCoverInput(member.ID, vendor.ID))
	if err != nil || !created {
		t.Fatalf("first Create: created=%v err=%v", created, err)
	}

	second, created, err := svc.Create(context.Background(), validCoverInput(member.ID, vendor.ID))
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if created {
		t.Error("second cover should not report created")
	}
	if second.ID != first.ID {
		t.Errorf("second cover ID = %d, want existing %d", second.ID, first.ID)
	}

	refs, _ := memberRepo.GetProducts(context.Background(), member.ID)
	if len(refs) != 1 {
		t.Errorf("product refs = %d, want 1 (no duplicate on idempotent create)", len(refs))
	}
}

func TestCreateCoverUnknownMember(t *testing.T) {
	svc, _, _, _, vendor, _ := newCoverSetup(t)

	_, _, err := svc.Create(context.Background(), validCoverInput(999, vendor.ID))
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestCreateCoverRejectsNonVendorIssuer(t *testing.T) {
	svc, userRepo, _, _, _, member := newCoverSetup(t)

	plain := &models.User{Name: "Plain", Email: "plain2@example.com", Role: domain.RoleUser, IsActive: true}
	if err := userRepo.Create(context.Background(), plain); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, _, err := svc.Create(context.Background(), validCoverInput(member.ID, plain.ID))
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Errorf("err = %v, want ErrVendorNotFound", err)
	}
}

func TestUpdateCoverPayment(t *testing.T) {
	svc, _, memberRepo, _, vendor, member := newCoverSetup(t)

	cover, _, err := svc.Create(context.Background(), validCoverInput(member.ID, vendor.ID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdatePayment(context.Background(), cover.ID, &UpdateCoverPaymentInput{
		PaymentStatus:        models.CoverPaymentPaid,
		PaymentTransactionID: "PAY_1_abc",
	})
	if err != nil {
		t.Fatalf("UpdatePayment failed: %v", err)
	}
	if updated.PaymentStatus != models.CoverPaymentPaid {
		t.Errorf("payment status = %q, want paid", updated.PaymentStatus)
	}
	if updated.PaymentDate == nil {
		t.Error("payment date not stamped")
	}
	if updated.PaymentTransactionID != "PAY_1_abc" {
		t.Errorf("transaction id = %q", updated.PaymentTransactionID)
	}

	refs, _ := memberRepo.GetProducts(context.Background(), member.ID)
	if len(refs) != 1 || !refs[0].PaymentStatus {
		t.Error("member product reference not flipped to paid")
	}

	// A repeat settlement is rejected
	_, err = svc.UpdatePayment(context.Background(), cover.ID, &UpdateCoverPaymentInput{
		PaymentStatus:        models.CoverPaymentPaid,
		PaymentTransactionID: "PAY_2_def",
	})
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Errorf("repeat err = %v, want ErrAlreadyProcessed", err)
	}
}
