package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/adapters/persistence/repositories"
	"welin-backend/internal/config"
	"welin-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const (
	// pendingTTL is how long a pending payment may sit before the
	// cleanup sweep reclaims it
	pendingTTL = 5 * time.Minute

	// qrLifetime is the display lifetime of a generated QR code
	qrLifetime = 24 * time.Hour

	paymentLinkBase = "https://welin.in/pay/"
)

// GatewayClient abstracts the payment gateway order API
type GatewayClient interface {
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway builds a gateway client from the configured key pair
func NewRazorpayGateway(cfg *config.Config) GatewayClient {
	return &razorpayGateway{client: razorpay.NewClient(cfg.Gateway.AppID, cfg.Gateway.AppSecret)}
}

func (g *razorpayGateway) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return g.client.Order.Create(data, nil)
}

// PaymentService handles payment intents across QR, link and gateway flows
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	gateway     GatewayClient
	cfg         *config.Config
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repositories.PaymentRepository, gateway GatewayClient, cfg *config.Config) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		cfg:         cfg,
	}
}

// CreatePaymentInput represents payment intent input
type CreatePaymentInput struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"paymentMethod"`
	Description   string  `json:"description"`
	ProductType   string  `json:"productType"`
	ProductID     *uint   `json:"productId"`
	UserID        uint    `json:"userId"`
}

// UpdatePaymentInput adjusts a payment's mutable fields
type UpdatePaymentInput struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// GatewayOrderInput represents gateway order creation input
type GatewayOrderInput struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	BuyerName   string  `json:"buyerName"`
	BuyerEmail  string  `json:"buyerEmail"`
	BuyerPhone  string  `json:"buyerPhone"`
	ProductType string  `json:"productType"`
	ProductID   *uint   `json:"productId"`
	UserID      uint    `json:"userId"`
}

// GatewayOrderResult bundles the provider order with the local pending row
type GatewayOrderResult struct {
	OrderID string          `json:"orderId"`
	Order   interface{}     `json:"order"`
	Payment *models.Payment `json:"payment"`
}

// newTransactionID mints a collision-resistant transaction reference
func newTransactionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("PAY_%d_%s", time.Now().UnixMilli(), suffix)
}

// Create opens a payment intent. QR and link methods carry their artifact
// inline; every intent starts pending with a short reclamation window.
func (s *PaymentService) Create(ctx context.Context, input *CreatePaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidInput
	}
	switch input.PaymentMethod {
	case models.PaymentMethodCreditCard, models.PaymentMethodDebitCard,
		models.PaymentMethodNetBanking, models.PaymentMethodUPI,
		models.PaymentMethodWallet, models.PaymentMethodQRCode,
		models.PaymentMethodPaymentLink:
	default:
		return nil, domain.ErrInvalidInput
	}

	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}

	now := time.Now()
	expiresAt := now.Add(pendingTTL)
	payment := &models.Payment{
		Amount:        input.Amount,
		Currency:      currency,
		PaymentMethod: input.PaymentMethod,
		Status:        models.PaymentStatusPending,
		TransactionID: newTransactionID(),
		Description:   input.Description,
		ProductType:   input.ProductType,
		ProductID:     input.ProductID,
		UserID:        input.UserID,
		ExpiresAt:     &expiresAt,
	}

	switch input.PaymentMethod {
	case models.PaymentMethodQRCode:
		qrData, err := renderQR(payment)
		if err != nil {
			return nil, err
		}
		qrExpiry := now.Add(qrLifetime)
		payment.QRData = qrData
		payment.QRURL = paymentLinkBase + payment.TransactionID
		payment.QRExpiresAt = &qrExpiry
	case models.PaymentMethodPaymentLink:
		linkExpiry := now.Add(qrLifetime)
		payment.LinkURL = paymentLinkBase + payment.TransactionID
		payment.LinkShortURL = paymentLinkBase + payment.TransactionID
		payment.LinkExpiresAt = &linkExpiry
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// renderQR encodes the payment summary as a base64 PNG
func renderQR(p *models.Payment) (string, error) {
	text := fmt.Sprintf("Payment ID: %s\nAmount: %.2f %s\nDescription: %s",
		p.TransactionID, p.Amount, p.Currency, p.Description)
	png, err := qrcode.Encode(text, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// List lists payments, newest first
func (s *PaymentService) List(ctx context.Context, offset, limit int) ([]*models.Payment, int64, error) {
	return s.paymentRepo.List(ctx, offset, limit)
}

// GetByID gets a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// Update applies status and description changes to a payment
func (s *PaymentService) Update(ctx context.Context, id uint, input *UpdatePaymentInput) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	if input.Status != "" {
		switch input.Status {
		case models.PaymentStatusPending, models.PaymentStatusCompleted,
			models.PaymentStatusFailed, models.PaymentStatusRefunded:
		default:
			return nil, domain.ErrInvalidInput
		}
		payment.Status = input.Status
		if input.Status != models.PaymentStatusPending {
			payment.ExpiresAt = nil
		}
	}
	if input.Description != "" {
		payment.Description = input.Description
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Delete removes a payment record
func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.paymentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentNotFound
		}
		return err
	}
	return s.paymentRepo.Delete(ctx, id)
}

// VerifyQR settles a QR payment by transaction reference. Checks run in a
// fixed order so the caller always learns the most specific failure.
func (s *PaymentService) VerifyQR(ctx context.Context, transactionID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.PaymentMethod != models.PaymentMethodQRCode {
		return nil, domain.ErrWrongPaymentMethod
	}
	if payment.QRExpiresAt != nil && time.Now().After(*payment.QRExpiresAt) {
		return nil, domain.ErrPaymentExpired
	}
	if payment.IsTerminal() {
		return nil, domain.ErrAlreadyProcessed
	}

	payment.Status = models.PaymentStatusCompleted
	payment.ExpiresAt = nil

	coverID := coverRefOf(payment)
	if err := s.paymentRepo.CompleteWithCover(ctx, payment, coverID); err != nil {
		return nil, err
	}

	log.Printf("✅ QR payment %s verified", transactionID)
	return payment, nil
}

// coverRefOf returns the loan cover ID a payment settles, if any
func coverRefOf(p *models.Payment) *uint {
	if p.ProductType == models.ProductKindLoanCover && p.ProductID != nil {
		return p.ProductID
	}
	return nil
}

// CreateGatewayOrder opens an order with the payment gateway and records
// a matching local pending payment.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, input *GatewayOrderInput) (*GatewayOrderResult, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidInput
	}

	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}
	transactionID := newTransactionID()

	// Gateway amounts are in the smallest currency unit
	data := map[string]interface{}{
		"amount":   int64(input.Amount * 100),
		"currency": currency,
		"receipt":  transactionID,
		"notes": map[string]interface{}{
			"description": input.Description,
			"buyer_name":  input.BuyerName,
			"buyer_email": input.BuyerEmail,
			"buyer_phone": input.BuyerPhone,
			"return_url":  s.cfg.Gateway.ReturnURL,
		},
	}

	order, err := s.gateway.CreateOrder(data)
	if err != nil {
		log.Printf("🛑 Gateway order creation failed: %v", err)
		return nil, err
	}

	orderID, _ := order["id"].(string)

	now := time.Now()
	expiresAt := now.Add(pendingTTL)
	payment := &models.Payment{
		Amount:         input.Amount,
		Currency:       currency,
		PaymentMethod:  models.PaymentMethodGateway,
		Status:         models.PaymentStatusPending,
		TransactionID:  transactionID,
		Description:    input.Description,
		GatewayOrderID: orderID,
		ProductType:    input.ProductType,
		ProductID:      input.ProductID,
		UserID:         input.UserID,
		ExpiresAt:      &expiresAt,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &GatewayOrderResult{
		OrderID: orderID,
		Order:   order,
		Payment: payment,
	}, nil
}

// ConfirmGatewaySuccess settles the local payment after the gateway
// reports a successful order. A repeat confirmation is rejected.
func (s *PaymentService) ConfirmGatewaySuccess(ctx context.Context, transactionID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.PaymentMethod != models.PaymentMethodGateway {
		return nil, domain.ErrWrongPaymentMethod
	}
	if payment.Status == models.PaymentStatusCompleted {
		return nil, domain.ErrDuplicateTransaction
	}
	if payment.IsTerminal() {
		return nil, domain.ErrAlreadyProcessed
	}

	payment.Status = models.PaymentStatusCompleted
	payment.ExpiresAt = nil

	coverID := coverRefOf(payment)
	if err := s.paymentRepo.CompleteWithCover(ctx, payment, coverID); err != nil {
		return nil, err
	}

	log.Printf("✅ Gateway payment %s confirmed", transactionID)
	return payment, nil
}

// CleanupStale reclaims pending payments older than the TTL window
func (s *PaymentService) CleanupStale(ctx context.Context) (int64, error) {
	return s.paymentRepo.DeleteStalePending(ctx, time.Now().Add(-pendingTTL))
}
