package services

import (
	"context"
	"errors"
	"log"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/adapters/persistence/repositories"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles admin-side user management
type UserService struct {
	userRepo   repositories.UserRepository
	memberRepo repositories.MemberRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, memberRepo repositories.MemberRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		memberRepo: memberRepo,
	}
}

// CreateUserInput represents admin user-provisioning input
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
}

// UpdateUserInput is the allow-list for user updates. Password is never
// mass-assignable through this path.
type UpdateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// Counts aggregates active identity counts for the admin dashboard
type Counts struct {
	ActiveUsers   int64 `json:"activeUsers"`
	ActiveVendors int64 `json:"activeVendors"`
	ActiveMembers int64 `json:"activeMembers"`
}

// Create provisions a new user on behalf of an admin
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*models.UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByMobile(ctx, input.Mobile)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.KnownRole(role) {
		return nil, domain.ErrInvalidInput
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Mobile:   input.Mobile,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created by admin: %s (%s)", user.Email, user.Role)
	return user.ToResponse(), nil
}

// List lists users excluding agents and admins, paginated
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, []string{domain.RoleAgent, domain.RoleAdmin}, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, total, nil
}

// ListVendors lists all vendor accounts
func (s *UserService) ListVendors(ctx context.Context) ([]*models.UserResponse, error) {
	vendors, err := s.userRepo.ListByRole(ctx, domain.RoleVendor)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, 0, len(vendors))
	for _, v := range vendors {
		responses = append(responses, v.ToResponse())
	}
	return responses, nil
}

// GetCounts returns active user/vendor/member counts
func (s *UserService) GetCounts(ctx context.Context) (*Counts, error) {
	activeUsers, err := s.userRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	activeVendors, err := s.userRepo.CountActiveByRole(ctx, domain.RoleVendor)
	if err != nil {
		return nil, err
	}
	activeMembers, err := s.memberRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &Counts{
		ActiveUsers:   activeUsers,
		ActiveVendors: activeVendors,
		ActiveMembers: activeMembers,
	}, nil
}

// Update applies the allow-listed fields to a user
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != "" && input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Email = input.Email
	}

	if input.Mobile != "" && input.Mobile != user.Mobile {
		exists, err := s.userRepo.ExistsByMobile(ctx, input.Mobile)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Mobile = input.Mobile
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		if !domain.KnownRole(input.Role) {
			return nil, domain.ErrInvalidInput
		}
		user.Role = input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// SetActive activates or deactivates a user (soft state, never a delete)
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// CheckMobile reports whether a mobile number is already taken
func (s *UserService) CheckMobile(ctx context.Context, mobile string) (bool, error) {
	return s.userRepo.ExistsByMobile(ctx, mobile)
}

// CreateAgent provisions an agent under the calling vendor
func (s *UserService) CreateAgent(ctx context.Context, vendorID uint, input *CreateUserInput) (*models.UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByMobile(ctx, input.Mobile)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	pwd := input.Password
	if pwd == "" {
		pwd = "password" // vendor resets on first handover
	}
	hashedPassword, err := password.Hash(pwd)
	if err != nil {
		return nil, err
	}

	agent := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Mobile:   input.Mobile,
		Password: hashedPassword,
		Role:     domain.RoleAgent,
		VendorID: &vendorID,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, agent); err != nil {
		return nil, err
	}

	log.Printf("✅ Agent created under vendor %d: %s", vendorID, agent.Email)
	return agent.ToResponse(), nil
}

// ListAgents lists the agents owned by a vendor
func (s *UserService) ListAgents(ctx context.Context, vendorID uint) ([]*models.UserResponse, error) {
	agents, err := s.userRepo.ListAgentsByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, 0, len(agents))
	for _, a := range agents {
		responses = append(responses, a.ToResponse())
	}
	return responses, nil
}
