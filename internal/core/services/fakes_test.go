package services

import (
	"context"
	"sort"
	"time"

	"welin-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repository fakes used across the service tests.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id uint) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLogin = time.Now()
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, excludeRoles []string, offset, limit int) ([]*models.User, int64, error) {
	excluded := make(map[string]bool, len(excludeRoles))
	for _, role := range excludeRoles {
		excluded[role] = true
	}
	var all []*models.User
	for _, u := range r.users {
		if !excluded[u.Role] {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role string) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListAgentsByVendor(_ context.Context, vendorID uint) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.VendorID != nil && *u.VendorID == vendorID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByMobile(_ context.Context, mobile string) (bool, error) {
	for _, u := range r.users {
		if u.Mobile == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) CountActiveByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.IsActive && u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeMemberRepo struct {
	members  map[uint]*models.Member
	products []*models.MemberProduct
	nextID   uint
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uint]*models.Member), nextID: 1}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	member.ID = r.nextID
	r.nextID++
	r.members[member.ID] = member
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id uint) (*models.Member, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (r *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*models.Member, error) {
	for _, m := range r.members {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) GetByWelinID(_ context.Context, welinID string) (*models.Member, error) {
	for _, m := range r.members {
		if m.WelinID == welinID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) Update(_ context.Context, member *models.Member) error {
	if _, ok := r.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.members[member.ID] = member
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.members[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.members, id)
	kept := r.products[:0]
	for _, p := range r.products {
		if p.MemberID != id {
			kept = append(kept, p)
		}
	}
	r.products = kept
	return nil
}

func (r *fakeMemberRepo) List(_ context.Context) ([]*models.Member, error) {
	var out []*models.Member
	for _, m := range r.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMemberRepo) ListByVendor(_ context.Context, vendorID uint) ([]*models.Member, error) {
	var out []*models.Member
	for _, m := range r.members {
		if m.VendorID == vendorID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMemberRepo) ListByAgent(_ context.Context, agentID uint) ([]*models.Member, error) {
	var out []*models.Member
	for _, m := range r.members {
		if m.AgentID != nil && *m.AgentID == agentID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMemberRepo) ExistsByWelinID(_ context.Context, welinID string) (bool, error) {
	for _, m := range r.members {
		if m.WelinID == welinID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMemberRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, m := range r.members {
		if m.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeMemberRepo) AddProduct(_ context.Context, product *models.MemberProduct) error {
	product.ID = uint(len(r.products) + 1)
	r.products = append(r.products, product)
	return nil
}

func (r *fakeMemberRepo) GetProducts(_ context.Context, memberID uint) ([]*models.MemberProduct, error) {
	var out []*models.MemberProduct
	for _, p := range r.products {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) SetProductPaid(_ context.Context, memberID uint, productType string, productID uint) error {
	for _, p := range r.products {
		if p.MemberID == memberID && p.Type == productType && p.ProductID == productID {
			p.PaymentStatus = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeCoverRepo struct {
	covers  map[uint]*models.LoanCover
	members *fakeMemberRepo
	nextID  uint
}

func newFakeCoverRepo(members *fakeMemberRepo) *fakeCoverRepo {
	return &fakeCoverRepo{
		covers:  make(map[uint]*models.LoanCover),
		members: members,
		nextID:  1,
	}
}

func (r *fakeCoverRepo) Create(_ context.Context, cover *models.LoanCover) error {
	cover.ID = r.nextID
	r.nextID++
	r.covers[cover.ID] = cover
	return nil
}

func (r *fakeCoverRepo) CreateIfNoActive(ctx context.Context, cover *models.LoanCover) (*models.LoanCover, bool, error) {
	for _, c := range r.covers {
		if c.MemberID == cover.MemberID && c.Status == models.CoverStatusActive {
			return c, false, nil
		}
	}
	if err := r.Create(ctx, cover); err != nil {
		return nil, false, err
	}
	if r.members != nil {
		_ = r.members.AddProduct(ctx, &models.MemberProduct{
			MemberID:  cover.MemberID,
			Type:      models.ProductKindLoanCover,
			ProductID: cover.ID,
		})
	}
	return cover, true, nil
}

func (r *fakeCoverRepo) GetByID(_ context.Context, id uint) (*models.LoanCover, error) {
	cover, ok := r.covers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cover, nil
}

func (r *fakeCoverRepo) GetActiveByMember(_ context.Context, memberID uint) (*models.LoanCover, error) {
	for _, c := range r.covers {
		if c.MemberID == memberID && c.Status == models.CoverStatusActive {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCoverRepo) ListByMember(_ context.Context, memberID uint) ([]*models.LoanCover, error) {
	var out []*models.LoanCover
	for _, c := range r.covers {
		if c.MemberID == memberID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCoverRepo) ListByVendor(_ context.Context, vendorID uint) ([]*models.LoanCover, error) {
	var out []*models.LoanCover
	for _, c := range r.covers {
		if c.VendorID == vendorID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCoverRepo) Update(_ context.Context, cover *models.LoanCover) error {
	if _, ok := r.covers[cover.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.covers[cover.ID] = cover
	return nil
}

type fakePaymentRepo struct {
	payments map[uint]*models.Payment
	covers   *fakeCoverRepo
	members  *fakeMemberRepo
	nextID   uint
}

func newFakePaymentRepo(covers *fakeCoverRepo, members *fakeMemberRepo) *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[uint]*models.Payment),
		covers:   covers,
		members:  members,
		nextID:   1,
	}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	payment.ID = r.nextID
	r.nextID++
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	r.payments[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uint) (*models.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (r *fakePaymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) Update(_ context.Context, payment *models.Payment) error {
	if _, ok := r.payments[payment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.payments[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.payments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) List(_ context.Context, offset, limit int) ([]*models.Payment, int64, error) {
	var all []*models.Payment
	for _, p := range r.payments {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakePaymentRepo) CompleteWithCover(ctx context.Context, payment *models.Payment, coverID *uint) error {
	if err := r.Update(ctx, payment); err != nil {
		return err
	}
	if coverID == nil {
		return nil
	}
	cover, err := r.covers.GetByID(ctx, *coverID)
	if err != nil {
		return err
	}
	now := time.Now()
	cover.PaymentStatus = models.CoverPaymentPaid
	cover.PaymentDate = &now
	cover.PaymentTransactionID = payment.TransactionID
	if r.members != nil {
		_ = r.members.SetProductPaid(ctx, cover.MemberID, models.ProductKindLoanCover, cover.ID)
	}
	return nil
}

func (r *fakePaymentRepo) DeleteStalePending(_ context.Context, olderThan time.Time) (int64, error) {
	var removed int64
	for id, p := range r.payments {
		if p.Status == models.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			delete(r.payments, id)
			removed++
		}
	}
	return removed, nil
}

type fakePremiumRepo struct {
	rows []*models.Premium
}

func (r *fakePremiumRepo) Upsert(_ context.Context, row *models.Premium) (bool, error) {
	for _, existing := range r.rows {
		if existing.LoanAmount == row.LoanAmount && existing.Year == row.Year {
			existing.PremiumAmount = row.PremiumAmount
			return false, nil
		}
	}
	row.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, row)
	return true, nil
}

func (r *fakePremiumRepo) GetExact(_ context.Context, loanAmount float64, year int) (*models.Premium, error) {
	for _, row := range r.rows {
		if row.LoanAmount == loanAmount && row.Year == year {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePremiumRepo) GetNextBracket(_ context.Context, loanAmount float64, year int) (*models.Premium, error) {
	var best *models.Premium
	for _, row := range r.rows {
		if row.Year == year && row.LoanAmount > loanAmount {
			if best == nil || row.LoanAmount < best.LoanAmount {
				best = row
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

type fakeWelinIDRepo struct {
	last int
}

func (r *fakeWelinIDRepo) NextID(_ context.Context) (string, error) {
	r.last++
	return time.Now().Format("WELIN-2006-") + pad5(r.last), nil
}

func pad5(n int) string {
	digits := []byte{'0', '0', '0', '0', '0'}
	for i := 4; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}

type fakeGateway struct {
	lastData map[string]interface{}
	orderID  string
	err      error
}

func (g *fakeGateway) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	g.lastData = data
	if g.err != nil {
		return nil, g.err
	}
	return map[string]interface{}{"id": g.orderID, "status": "created"}, nil
}
