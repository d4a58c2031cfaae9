package handlers

import (
	"errors"
	"strconv"

	"welin-backend/internal/core/domain"
	"welin-backend/internal/core/services"
	"welin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanCoverHandler handles loan-cover endpoints
type LoanCoverHandler struct {
	coverService *services.LoanCoverService
}

// NewLoanCoverHandler creates a new loan cover handler
func NewLoanCoverHandler(coverService *services.LoanCoverService) *LoanCoverHandler {
	return &LoanCoverHandler{coverService: coverService}
}

// CreateCoverRequest represents loan cover creation request body
type CreateCoverRequest struct {
	MemberID          uint    `json:"memberId"`
	VendorID          uint    `json:"vendorId"`
	LoanAmount        float64 `json:"loanAmount"`
	CoverageStartDate string  `json:"coverageStartDate"`
	CoverageEndDate   string  `json:"coverageEndDate"`
	BasePremium       float64 `json:"basePremium"`
	GST               float64 `json:"gst"`
	TotalPremium      float64 `json:"totalPremium"`
}

// UpdateCoverPaymentRequest marks a cover's premium paid
type UpdateCoverPaymentRequest struct {
	PaymentStatus        string `json:"paymentStatus"`
	PaymentTransactionID string `json:"paymentTransactionId"`
}

// Create handles loan cover issuance
// @Summary Create loan cover
// @Description Issue a loan cover; a member's existing active cover is returned unchanged
// @Tags LoanCover
// @Accept json
// @Produce json
// @Param body body CreateCoverRequest true "Cover data"
// @Success 200 {object} response.Response
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /loan-cover [post]
func (h *LoanCoverHandler) Create(c *fiber.Ctx) error {
	var req CreateCoverRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	start, err := parseDate(req.CoverageStartDate)
	if err != nil {
		return response.BadRequest(c, "Invalid coverage start date")
	}
	end, err := parseDate(req.CoverageEndDate)
	if err != nil {
		return response.BadRequest(c, "Invalid coverage end date")
	}

	input := &services.CreateCoverInput{
		MemberID:          req.MemberID,
		VendorID:          req.VendorID,
		LoanAmount:        req.LoanAmount,
		CoverageStartDate: start,
		CoverageEndDate:   end,
		BasePremium:       req.BasePremium,
		GST:               req.GST,
		TotalPremium:      req.TotalPremium,
	}

	cover, created, err := h.coverService.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid cover terms")
		case errors.Is(err, domain.ErrInvalidPremium):
			return response.BadRequest(c, "Base premium and GST must sum to the total premium")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrVendorNotFound):
			return response.NotFound(c, "Vendor not found")
		default:
			return response.InternalServerError(c, "Failed to create loan cover")
		}
	}

	if !created {
		return response.Success(c, "Member already has an active cover", cover)
	}
	return response.Created(c, "Loan cover created successfully", cover)
}

// Get handles cover lookup by ID
// @Summary Get loan cover
// @Description Get a loan cover by ID
// @Tags LoanCover
// @Produce json
// @Param id path int true "Cover ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /loan-cover/{id} [get]
func (h *LoanCoverHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid cover ID")
	}

	cover, err := h.coverService.GetByID(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCoverNotFound):
			return response.NotFound(c, "Loan cover not found")
		default:
			return response.InternalServerError(c, "Failed to get loan cover")
		}
	}
	return response.Success(c, "Loan cover retrieved", cover)
}

// ListByMember handles member-scoped cover listing
// @Summary List covers by member
// @Description List a member's loan covers
// @Tags LoanCover
// @Produce json
// @Param memberId path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /loan-cover/member/{memberId} [get]
func (h *LoanCoverHandler) ListByMember(c *fiber.Ctx) error {
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	covers, err := h.coverService.ListByMember(c.Context(), uint(memberID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to list loan covers")
		}
	}
	return response.Success(c, "Loan covers retrieved", covers)
}

// ListByVendor handles vendor-scoped cover listing
// @Summary List covers by vendor
// @Description List loan covers issued under a vendor
// @Tags LoanCover
// @Produce json
// @Param vendorId path int true "Vendor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /loan-cover/vendor/{vendorId} [get]
func (h *LoanCoverHandler) ListByVendor(c *fiber.Ctx) error {
	vendorID, err := strconv.ParseUint(c.Params("vendorId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid vendor ID")
	}

	covers, err := h.coverService.ListByVendor(c.Context(), uint(vendorID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVendorNotFound):
			return response.NotFound(c, "Vendor not found")
		default:
			return response.InternalServerError(c, "Failed to list loan covers")
		}
	}
	return response.Success(c, "Loan covers retrieved", covers)
}

// UpdatePayment handles cover payment settlement
// @Summary Update cover payment
// @Description Mark a loan cover's premium as paid
// @Tags LoanCover
// @Accept json
// @Produce json
// @Param id path int true "Cover ID"
// @Param body body UpdateCoverPaymentRequest true "Payment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /loan-cover/{id}/payment [patch]
func (h *LoanCoverHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid cover ID")
	}

	var req UpdateCoverPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cover, err := h.coverService.UpdatePayment(c.Context(), uint(id), &services.UpdateCoverPaymentInput{
		PaymentStatus:        req.PaymentStatus,
		PaymentTransactionID: req.PaymentTransactionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCoverNotFound):
			return response.NotFound(c, "Loan cover not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid payment status")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.BadRequest(c, "Cover premium already paid")
		default:
			return response.InternalServerError(c, "Failed to update cover payment")
		}
	}
	return response.Success(c, "Cover payment updated", cover)
}
