package services

import (
	"context"
	"errors"
	"log"
	"time"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/adapters/persistence/repositories"
	"welin-backend/internal/config"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/pkg/jwt"
	"welin-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo   repositories.UserRepository
	memberRepo repositories.MemberRepository
	cfg        *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	memberRepo repositories.MemberRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		memberRepo: memberRepo,
		cfg:        cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// MemberAuthResponse represents member authentication response
type MemberAuthResponse struct {
	Member *models.Member `json:"user"`
	Token  string         `json:"token"`
}

// Register registers a new user (admin or vendor path)
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if !domain.KnownRole(input.Role) {
		return nil, domain.ErrInvalidInput
	}

	// Email and mobile are globally unique across the identity space
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

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Mobile:   input.Mobile,
		Password: hashedPassword,
		Role:     input.Role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ %s registered: %s", user.Role, user.Email)

	return user.ToResponse(), nil
}

// Login authenticates a user and issues a one-hour bearer token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same error as wrong password: never reveal which field missed
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Role, user.Email, "", s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: "Bearer " + token,
	}, nil
}

// MemberLogin authenticates a member and issues a one-hour bearer token
func (s *AuthService) MemberLogin(ctx context.Context, input *LoginInput) (*MemberAuthResponse, error) {
	member, err := s.memberRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, member.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(member.ID, domain.RoleMember, member.Email, member.WelinID, s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Member logged in: %s", member.WelinID)

	return &MemberAuthResponse{
		Member: member,
		Token:  "Bearer " + token,
	}, nil
}
