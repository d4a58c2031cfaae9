package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity Tables
// ============================================================

// User represents the users table (admin / vendor / agent / user)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Mobile    string         `gorm:"uniqueIndex;size:15;not null" json:"mobile"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	VendorID  *uint          `gorm:"index" json:"vendor_id,omitempty"` // set for agents
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin time.Time      `gorm:"autoCreateTime" json:"last_login"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Role      string    `json:"role"`
	VendorID  *uint     `json:"vendor_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Mobile:    u.Mobile,
		Role:      u.Role,
		VendorID:  u.VendorID,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// Member represents the members table (insured individuals under a vendor)
type Member struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WelinID    string    `gorm:"uniqueIndex;size:30;not null" json:"welin_id"`
	VendorID   uint      `gorm:"index;not null" json:"vendor_id"`
	AgentID    *uint     `gorm:"index" json:"agent_id,omitempty"`
	OrgID      string    `gorm:"size:50" json:"org_id,omitempty"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	ContactNo  string    `gorm:"uniqueIndex;size:15;not null" json:"contact_no"`
	Email      string    `gorm:"uniqueIndex;size:100" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	DOB        time.Time `gorm:"type:date" json:"dob"`
	Age        int       `json:"age"`
	Gender     string    `gorm:"size:10" json:"gender"`
	Street     string    `gorm:"size:200" json:"street,omitempty"`
	City       string    `gorm:"size:100" json:"city,omitempty"`
	State      string    `gorm:"size:100" json:"state,omitempty"`
	Pincode    string    `gorm:"size:10" json:"pincode,omitempty"`
	Occupation string    `gorm:"size:100" json:"occupation,omitempty"`

	NomineeName      string `gorm:"size:100" json:"nominee_name,omitempty"`
	NomineeRelation  string `gorm:"size:50" json:"nominee_relation,omitempty"`
	NomineeContactNo string `gorm:"size:15" json:"nominee_contact_no,omitempty"`

	LoanFlag  bool      `gorm:"default:false" json:"loan_flag"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Vendor   *User           `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Agent    *User           `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Products []MemberProduct `gorm:"foreignKey:MemberID" json:"products,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// Product kinds
const (
	ProductKindLoanCover   = "loneCover" // historical spelling kept for API compatibility
	ProductKindHealthCover = "healthCover"
)

// MemberProduct is a product reference owned by a member. The underlying
// product row (loan cover) is owned independently and only pointed to.
type MemberProduct struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MemberID      uint      `gorm:"index;not null" json:"member_id"`
	Type          string    `gorm:"size:20;not null" json:"type"`
	ProductID     uint      `gorm:"not null" json:"product_id"`
	PaymentStatus bool      `gorm:"default:false" json:"payment_status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MemberProduct) TableName() string {
	return "member_products"
}

// ============================================================
// Product Tables
// ============================================================

// Loan cover lifecycle status
const (
	CoverStatusActive    = "active"
	CoverStatusExpired   = "expired"
	CoverStatusCancelled = "cancelled"
)

// Loan cover payment sub-state
const (
	CoverPaymentPending = "pending"
	CoverPaymentPaid    = "paid"
)

// LoanCover represents the loan_covers table
type LoanCover struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	MemberID          uint      `gorm:"index:idx_cover_member_status;not null" json:"member_id"`
	VendorID          uint      `gorm:"index;not null" json:"vendor_id"`
	LoanAmount        float64   `gorm:"type:decimal(15,2);not null" json:"loan_amount"`
	CoverageStartDate time.Time `gorm:"type:date;not null" json:"coverage_start_date"`
	CoverageEndDate   time.Time `gorm:"type:date;not null" json:"coverage_end_date"`
	BasePremium       float64   `gorm:"type:decimal(15,2);not null" json:"base_premium"`
	GST               float64   `gorm:"type:decimal(15,2);not null" json:"gst"`
	TotalPremium      float64   `gorm:"type:decimal(15,2);not null" json:"total_premium"`

	PaymentStatus        string     `gorm:"size:20;default:'pending'" json:"payment_status"`
	PaymentDate          *time.Time `json:"payment_date,omitempty"`
	PaymentTransactionID string     `gorm:"size:50" json:"payment_transaction_id,omitempty"`

	Status    string    `gorm:"size:20;index:idx_cover_member_status;default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Vendor *User   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

func (LoanCover) TableName() string {
	return "loan_covers"
}

// Term returns the coverage term in whole years.
func (lc *LoanCover) Term() int {
	return int(lc.CoverageEndDate.Sub(lc.CoverageStartDate).Hours()/(365*24) + 0.5)
}

// ============================================================
// Payment Tables
// ============================================================

// Payment methods
const (
	PaymentMethodCreditCard  = "credit_card"
	PaymentMethodDebitCard   = "debit_card"
	PaymentMethodNetBanking  = "net_banking"
	PaymentMethodUPI         = "upi"
	PaymentMethodWallet      = "wallet"
	PaymentMethodQRCode      = "qr_code"
	PaymentMethodPaymentLink = "payment_link"
	PaymentMethodGateway     = "gateway_order"
)

// Payment status machine: pending is the only non-terminal state
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment represents the payments table
type Payment struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Amount        float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency      string  `gorm:"size:10;default:'INR'" json:"currency"`
	PaymentMethod string  `gorm:"size:20;not null" json:"payment_method"`
	Status        string  `gorm:"size:20;index;default:'pending'" json:"status"`
	TransactionID string  `gorm:"uniqueIndex;size:50;not null" json:"transaction_id"`
	Description   string  `gorm:"size:255" json:"description,omitempty"`

	// QR code intent fields
	QRData      string     `gorm:"type:mediumtext" json:"qr_data,omitempty"` // base64 PNG
	QRURL       string     `gorm:"size:500" json:"qr_url,omitempty"`
	QRExpiresAt *time.Time `json:"qr_expires_at,omitempty"`

	// Payment link intent fields
	LinkURL       string     `gorm:"size:500" json:"link_url,omitempty"`
	LinkShortURL  string     `gorm:"size:500" json:"link_short_url,omitempty"`
	LinkExpiresAt *time.Time `json:"link_expires_at,omitempty"`

	// Gateway order fields
	GatewayOrderID string `gorm:"size:100;index" json:"gateway_order_id,omitempty"`

	// Product back-reference
	ProductType string `gorm:"size:20" json:"product_type,omitempty"`
	ProductID   *uint  `json:"product_id,omitempty"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	// TTL marker: set while pending, cleared on terminal status
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsTerminal reports whether the payment can no longer transition.
func (p *Payment) IsTerminal() bool {
	return p.Status != PaymentStatusPending
}

// ============================================================
// Premium Table
// ============================================================

// Premium represents one (loan amount, policy year) bracket
type Premium struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	LoanAmount    float64   `gorm:"type:decimal(15,2);uniqueIndex:idx_amount_year;not null" json:"loan_amount"`
	Year          int       `gorm:"uniqueIndex:idx_amount_year;not null" json:"year"`
	PremiumAmount int       `gorm:"not null" json:"premium_amount"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Premium) TableName() string {
	return "premiums"
}

// ============================================================
// Welin ID Counter
// ============================================================

// WelinIDCounter holds one row per calendar year
type WelinIDCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Prefix    string    `gorm:"size:10;default:'WELIN'" json:"prefix"`
	Year      string    `gorm:"uniqueIndex;size:4;not null" json:"year"`
	LastID    int       `gorm:"default:0" json:"last_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WelinIDCounter) TableName() string {
	return "welin_id_counters"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Member{},
		&MemberProduct{},
		&LoanCover{},
		&Payment{},
		&Premium{},
		&WelinIDCounter{},
	)
}
