package handlers

import (
	"errors"
	"strconv"

	"welin-backend/internal/core/domain"
	"welin-backend/internal/core/services"
	"welin-backend/internal/pkg/pagination"
	"welin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment intent endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest represents payment creation request body
type CreatePaymentRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"paymentMethod"`
	Description   string  `json:"description"`
	ProductType   string  `json:"productType"`
	ProductID     *uint   `json:"productId"`
}

// UpdatePaymentRequest represents payment update request body
type UpdatePaymentRequest struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// GatewayOrderRequest represents gateway order creation request body
type GatewayOrderRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	BuyerName   string  `json:"buyerName"`
	BuyerEmail  string  `json:"buyerEmail"`
	BuyerPhone  string  `json:"buyerPhone"`
	ProductType string  `json:"productType"`
	ProductID   *uint   `json:"productId"`
}

// Create handles payment intent creation
// @Summary Create payment
// @Description Open a payment intent; QR and link methods return their artifact inline
// @Tags Payment
// @Accept json
// @Produce json
// @Param body body CreatePaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Create(c.Context(), &services.CreatePaymentInput{
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		ProductType:   req.ProductType,
		ProductID:     req.ProductID,
		UserID:        userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid amount or payment method")
		default:
			return response.InternalServerError(c, "Failed to create payment")
		}
	}

	return response.Created(c, "Payment created successfully", payment)
}

// List handles payment listing
// @Summary List payments
// @Description List payments, newest first, paginated
// @Tags Payment
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	payments, total, err := h.paymentService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}
	return response.Success(c, "Payments retrieved", pagination.NewResponse(payments, params, total))
}

// Get handles payment lookup by ID
// @Summary Get payment
// @Description Get a payment by ID
// @Tags Payment
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	payment, err := h.paymentService.GetByID(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		default:
			return response.InternalServerError(c, "Failed to get payment")
		}
	}
	return response.Success(c, "Payment retrieved", payment)
}

// Update handles payment updates
// @Summary Update payment
// @Description Update a payment's status or description
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param body body UpdatePaymentRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req UpdatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Update(c.Context(), uint(id), &services.UpdatePaymentInput{
		Status:      req.Status,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid payment status")
		default:
			return response.InternalServerError(c, "Failed to update payment")
		}
	}
	return response.Success(c, "Payment updated successfully", payment)
}

// Delete handles payment deletion
// @Summary Delete payment
// @Description Delete a payment record
// @Tags Payment
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	if err := h.paymentService.Delete(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		default:
			return response.InternalServerError(c, "Failed to delete payment")
		}
	}
	return response.Success(c, "Payment deleted successfully", nil)
}

// VerifyQR handles QR payment verification
// @Summary Verify QR payment
// @Description Settle a QR payment by transaction reference
// @Tags Payment
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /payments/verify-qr/{transactionId} [post]
func (h *PaymentHandler) VerifyQR(c *fiber.Ctx) error {
	transactionID := c.Params("transactionId")
	if transactionID == "" {
		return response.BadRequest(c, "Transaction ID is required")
	}

	payment, err := h.paymentService.VerifyQR(c.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrWrongPaymentMethod):
			return response.BadRequest(c, "Payment was not created with the QR method")
		case errors.Is(err, domain.ErrPaymentExpired):
			return response.BadRequest(c, "QR code has expired")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.BadRequest(c, "Payment already processed")
		default:
			return response.InternalServerError(c, "Failed to verify payment")
		}
	}
	return response.Success(c, "Payment verified successfully", payment)
}

// CreateGatewayOrder handles gateway order creation
// @Summary Create gateway order
// @Description Open an order with the payment gateway and record a local pending payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param body body GatewayOrderRequest true "Order data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /payments/gateway/order [post]
func (h *PaymentHandler) CreateGatewayOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req GatewayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.paymentService.CreateGatewayOrder(c.Context(), &services.GatewayOrderInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		BuyerName:   req.BuyerName,
		BuyerEmail:  req.BuyerEmail,
		BuyerPhone:  req.BuyerPhone,
		ProductType: req.ProductType,
		ProductID:   req.ProductID,
		UserID:      userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid order amount")
		default:
			return response.InternalServerError(c, "Failed to create gateway order")
		}
	}

	return response.Created(c, "Gateway order created successfully", result)
}

// GatewaySuccess handles the gateway success callback
// @Summary Confirm gateway payment
// @Description Settle the local payment after the gateway reports success
// @Tags Payment
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /payments/gateway/success/{transactionId} [post]
func (h *PaymentHandler) GatewaySuccess(c *fiber.Ctx) error {
	transactionID := c.Params("transactionId")
	if transactionID == "" {
		return response.BadRequest(c, "Transaction ID is required")
	}

	payment, err := h.paymentService.ConfirmGatewaySuccess(c.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrWrongPaymentMethod):
			return response.BadRequest(c, "Payment was not created through the gateway")
		case errors.Is(err, domain.ErrDuplicateTransaction):
			return response.BadRequest(c, "Payment already confirmed")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.BadRequest(c, "Payment already processed")
		default:
			return response.InternalServerError(c, "Failed to confirm payment")
		}
	}
	return response.Success(c, "Payment confirmed successfully", payment)
}
