package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/core/services"
	"welin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member onboarding and lifecycle endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// NomineeRequest carries nominee details in requests
type NomineeRequest struct {
	Name      string `json:"name"`
	Relation  string `json:"relation"`
	ContactNo string `json:"contactNo"`
}

// LoanRequest carries inline loan terms at member creation
type LoanRequest struct {
	Amount       float64 `json:"amount"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	BasePremium  float64 `json:"basePremium"`
	GST          float64 `json:"gst"`
	TotalPremium float64 `json:"totalPremium"`
}

// CreateMemberRequest represents member creation request body
type CreateMemberRequest struct {
	Name       string          `json:"name"`
	ContactNo  string          `json:"contactNo"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	DOB        string          `json:"dob"`
	Age        int             `json:"age"`
	Gender     string          `json:"gender"`
	OrgID      string          `json:"orgId"`
	Street     string          `json:"street"`
	City       string          `json:"city"`
	State      string          `json:"state"`
	Pincode    string          `json:"pincode"`
	Occupation string          `json:"occupation"`
	Nominee    *NomineeRequest `json:"nominee"`
	Loan       *LoanRequest    `json:"loan"`
}

// UpdateMemberRequest represents member update request body
type UpdateMemberRequest struct {
	Name       string          `json:"name"`
	ContactNo  string          `json:"contactNo"`
	Email      string          `json:"email"`
	VendorID   *uint           `json:"vendorId"`
	WelinID    string          `json:"welinId"`
	Gender     string          `json:"gender"`
	Street     string          `json:"street"`
	City       string          `json:"city"`
	State      string          `json:"state"`
	Pincode    string          `json:"pincode"`
	Occupation string          `json:"occupation"`
	Nominee    *NomineeRequest `json:"nominee"`
	IsActive   *bool           `json:"isActive"`
}

// parseDate accepts the date layouts the mobile clients send
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

// Create handles member onboarding
// @Summary Create member
// @Description Onboard a member under the calling vendor or agent
// @Tags Member
// @Accept json
// @Produce json
// @Param body body CreateMemberRequest true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Security BearerAuth
// @Router /member [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	caller, ok := c.Locals("user").(*models.User)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.ContactNo == "" {
		return response.BadRequest(c, "Contact number is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	input := &services.CreateMemberInput{
		Name:       strings.TrimSpace(req.Name),
		ContactNo:  strings.TrimSpace(req.ContactNo),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   req.Password,
		Age:        req.Age,
		Gender:     req.Gender,
		OrgID:      req.OrgID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Pincode:    req.Pincode,
		Occupation: req.Occupation,
	}

	if req.DOB != "" {
		dob, err := parseDate(req.DOB)
		if err != nil {
			return response.BadRequest(c, "Invalid date of birth")
		}
		input.DOB = dob
	}

	if req.Nominee != nil {
		input.Nominee = &services.Nominee{
			Name:      req.Nominee.Name,
			Relation:  req.Nominee.Relation,
			ContactNo: req.Nominee.ContactNo,
		}
	}

	if req.Loan != nil {
		start, err := parseDate(req.Loan.StartDate)
		if err != nil {
			return response.BadRequest(c, "Invalid loan start date")
		}
		end, err := parseDate(req.Loan.EndDate)
		if err != nil {
			return response.BadRequest(c, "Invalid loan end date")
		}
		input.Loan = &services.LoanInput{
			Amount:       req.Loan.Amount,
			StartDate:    start,
			EndDate:      end,
			BasePremium:  req.Loan.BasePremium,
			GST:          req.Loan.GST,
			TotalPremium: req.Loan.TotalPremium,
		}
	}

	result, err := h.memberService.Create(c.Context(), caller, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only vendors and agents can onboard members")
		case errors.Is(err, domain.ErrVendorNotFound):
			return response.NotFound(c, "Vendor not found")
		case errors.Is(err, domain.ErrMemberExists):
			return response.BadRequest(c, "Member already exists")
		default:
			return response.InternalServerError(c, "Failed to create member")
		}
	}

	return response.Created(c, "Member created successfully", result)
}

// List handles member listing
// @Summary List members
// @Description List all members
// @Tags Member
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /member [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	members, err := h.memberService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}
	return response.Success(c, "Members retrieved", members)
}

// ListByVendor handles vendor-scoped member listing
// @Summary List members by vendor
// @Description List members belonging to a vendor
// @Tags Member
// @Produce json
// @Param vendorId path int true "Vendor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /member/vendor/{vendorId} [get]
func (h *MemberHandler) ListByVendor(c *fiber.Ctx) error {
	vendorID, err := strconv.ParseUint(c.Params("vendorId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid vendor ID")
	}

	members, err := h.memberService.ListByVendor(c.Context(), uint(vendorID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVendorNotFound):
			return response.NotFound(c, "Vendor not found")
		default:
			return response.InternalServerError(c, "Failed to list members")
		}
	}
	return response.Success(c, "Members retrieved", members)
}

// ListByAgent handles agent-scoped member listing
// @Summary List members by agent
// @Description List members onboarded by an agent
// @Tags Member
// @Produce json
// @Param agentId path int true "Agent ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /member/agent/{agentId} [get]
func (h *MemberHandler) ListByAgent(c *fiber.Ctx) error {
	agentID, err := strconv.ParseUint(c.Params("agentId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid agent ID")
	}

	members, err := h.memberService.ListByAgent(c.Context(), uint(agentID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAgentNotFound):
			return response.NotFound(c, "Agent not found")
		default:
			return response.InternalServerError(c, "Failed to list members")
		}
	}
	return response.Success(c, "Members retrieved", members)
}

// GetByWelinID handles member lookup by membership number
// @Summary Get member
// @Description Get a member by Welin ID
// @Tags Member
// @Produce json
// @Param welinId path string true "Welin ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /member/{welinId} [get]
func (h *MemberHandler) GetByWelinID(c *fiber.Ctx) error {
	welinID := c.Params("welinId")
	if welinID == "" {
		return response.BadRequest(c, "Welin ID is required")
	}

	member, err := h.memberService.GetByWelinID(c.Context(), welinID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to get member")
		}
	}
	return response.Success(c, "Member retrieved", member)
}

// Update handles member updates
// @Summary Update member
// @Description Update a member's allow-listed fields
// @Tags Member
// @Accept json
// @Produce json
// @Param id path int true "Member ID"
// @Param body body UpdateMemberRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /member/{id} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateMemberInput{
		Name:       strings.TrimSpace(req.Name),
		ContactNo:  strings.TrimSpace(req.ContactNo),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		VendorID:   req.VendorID,
		WelinID:    req.WelinID,
		Gender:     req.Gender,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Pincode:    req.Pincode,
		Occupation: req.Occupation,
		IsActive:   req.IsActive,
	}
	if req.Nominee != nil {
		input.Nominee = &services.Nominee{
			Name:      req.Nominee.Name,
			Relation:  req.Nominee.Relation,
			ContactNo: req.Nominee.ContactNo,
		}
	}

	member, err := h.memberService.Update(c.Context(), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrVendorNotFound):
			return response.NotFound(c, "Vendor not found")
		case errors.Is(err, domain.ErrMemberExists):
			return response.BadRequest(c, "Welin ID already in use")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}
	return response.Success(c, "Member updated successfully", member)
}

// Delete handles member deletion
// @Summary Delete member
// @Description Permanently delete a member and its product references
// @Tags Member
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /member/{id} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.memberService.Delete(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to delete member")
		}
	}
	return response.Success(c, "Member deleted successfully", nil)
}

// GetProducts handles member product resolution
// @Summary Get member products
// @Description Resolve a member's product references to their documents
// @Tags Member
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /member/{id}/products [get]
func (h *MemberHandler) GetProducts(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	products, err := h.memberService.GetProducts(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrProductKindUnsupported):
			return response.BadRequest(c, "Unsupported product type")
		default:
			return response.InternalServerError(c, "Failed to get member products")
		}
	}
	return response.Success(c, "Products retrieved", products)
}
