package handlers

import (
	"errors"
	"strconv"

	"welin-backend/internal/core/domain"
	"welin-backend/internal/core/services"
	"welin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PremiumHandler handles premium table endpoints
type PremiumHandler struct {
	premiumService *services.PremiumService
}

// NewPremiumHandler creates a new premium handler
func NewPremiumHandler(premiumService *services.PremiumService) *PremiumHandler {
	return &PremiumHandler{premiumService: premiumService}
}

// Import handles premium table Excel uploads
// @Summary Import premium table
// @Description Upload an Excel sheet of premium brackets (column 0 = loan amount, column N = year N)
// @Tags Premium
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /premium/import [post]
func (h *PremiumHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Excel file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Could not read uploaded file")
	}
	defer file.Close()

	report, err := h.premiumService.ImportExcel(c.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "File contains no importable premium rows")
		default:
			return response.InternalServerError(c, "Failed to import premium table")
		}
	}

	return response.Success(c, "Premium table imported successfully", report)
}

// Lookup handles premium lookups
// @Summary Lookup premium
// @Description Resolve the premium for a loan amount and policy year, falling back to the next higher bracket
// @Tags Premium
// @Produce json
// @Param loanAmount query number true "Loan amount"
// @Param year query int true "Policy year"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /premium/lookup [get]
func (h *PremiumHandler) Lookup(c *fiber.Ctx) error {
	loanAmount, err := strconv.ParseFloat(c.Query("loanAmount"), 64)
	if err != nil {
		return response.BadRequest(c, "Invalid loan amount")
	}
	year, err := strconv.Atoi(c.Query("year", "1"))
	if err != nil {
		return response.BadRequest(c, "Invalid year")
	}

	result, err := h.premiumService.Lookup(c.Context(), loanAmount, year)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Loan amount and year must be positive")
		case errors.Is(err, domain.ErrPremiumNotFound):
			return response.NotFound(c, "No premium bracket covers this loan amount")
		default:
			return response.InternalServerError(c, "Failed to lookup premium")
		}
	}

	return response.Success(c, "Premium retrieved", result)
}
