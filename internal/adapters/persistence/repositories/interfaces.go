package repositories

import (
	"context"
	"time"

	"welin-backend/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uint) error
	List(ctx context.Context, excludeRoles []string, offset, limit int) ([]*models.User, int64, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	ListAgentsByVendor(ctx context.Context, vendorID uint) ([]*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	CountActiveByRole(ctx context.Context, role string) (int64, error)
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetByWelinID(ctx context.Context, welinID string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error // hard delete
	List(ctx context.Context) ([]*models.Member, error)
	ListByVendor(ctx context.Context, vendorID uint) ([]*models.Member, error)
	ListByAgent(ctx context.Context, agentID uint) ([]*models.Member, error)
	ExistsByWelinID(ctx context.Context, welinID string) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	AddProduct(ctx context.Context, product *models.MemberProduct) error
	GetProducts(ctx context.Context, memberID uint) ([]*models.MemberProduct, error)
	SetProductPaid(ctx context.Context, memberID uint, productType string, productID uint) error
}

// LoanCoverRepository defines loan cover repository interface
type LoanCoverRepository interface {
	Create(ctx context.Context, cover *models.LoanCover) error
	// CreateIfNoActive inserts the cover and its member-product reference
	// unless the member already holds an active cover. The existence check
	// locks the member's active covers for the duration of the transaction,
	// so two concurrent creates can never both insert. Returns the winning
	// cover and whether this call created it.
	CreateIfNoActive(ctx context.Context, cover *models.LoanCover) (*models.LoanCover, bool, error)
	GetByID(ctx context.Context, id uint) (*models.LoanCover, error)
	GetActiveByMember(ctx context.Context, memberID uint) (*models.LoanCover, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.LoanCover, error)
	ListByVendor(ctx context.Context, vendorID uint) ([]*models.LoanCover, error)
	Update(ctx context.Context, cover *models.LoanCover) error
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Payment, int64, error)
	// CompleteWithCover marks the payment completed and, when coverID is
	// set, flips the loan cover's payment sub-state to paid with the same
	// transaction id. Both writes commit atomically or not at all.
	CompleteWithCover(ctx context.Context, payment *models.Payment, coverID *uint) error
	DeleteStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}

// PremiumRepository defines premium table repository interface
type PremiumRepository interface {
	Upsert(ctx context.Context, row *models.Premium) (created bool, err error)
	GetExact(ctx context.Context, loanAmount float64, year int) (*models.Premium, error)
	GetNextBracket(ctx context.Context, loanAmount float64, year int) (*models.Premium, error)
}

// WelinIDRepository mints year-scoped sequential member identifiers
type WelinIDRepository interface {
	NextID(ctx context.Context) (string, error)
}
