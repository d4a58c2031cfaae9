package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/config"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/pkg/jwt"
	"welin-backend/internal/pkg/password"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret"},
	}
}

func TestRegister(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo, newFakeMemberRepo(), testConfig())

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Asha Vendor",
		Email:    "asha@example.com",
		Password: "secret123",
		Mobile:   "9000000001",
		Role:     domain.RoleVendor,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != domain.RoleVendor {
		t.Errorf("role = %q, want %q", user.Role, domain.RoleVendor)
	}
	if !user.IsActive {
		t.Error("new account should be active")
	}

	stored, _ := userRepo.GetByID(context.Background(), user.ID)
	if stored.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if !password.Verify("secret123", stored.Password) {
		t.Error("stored hash does not verify")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), newFakeMemberRepo(), testConfig())

	input := &RegisterInput{
		Name:     "First",
		Email:    "dup@example.com",
		Password: "secret123",
		Mobile:   "9000000001",
		Role:     domain.RoleUser,
	}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	input.Mobile = "9000000002"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestRegisterUnknownRole(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), newFakeMemberRepo(), testConfig())

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Nobody",
		Email:    "nobody@example.com",
		Password: "secret123",
		Mobile:   "9000000003",
		Role:     "overlord",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo, newFakeMemberRepo(), testConfig())

	if _, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Login User",
		Email:    "login@example.com",
		Password: "secret123",
		Mobile:   "9000000004",
		Role:     domain.RoleUser,
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    "login@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !strings.HasPrefix(result.Token, "Bearer ") {
		t.Errorf("token %q missing Bearer prefix", result.Token)
	}

	claims, err := jwt.ValidateToken(strings.TrimPrefix(result.Token, "Bearer "), "test-secret")
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("claims.Role = %q, want %q", claims.Role, domain.RoleUser)
	}

	stored, _ := userRepo.GetByID(context.Background(), result.User.ID)
	if stored.LastLogin.IsZero() {
		t.Error("last login not stamped")
	}
}

func TestLoginNeverRevealsWhichFieldMissed(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), newFakeMemberRepo(), testConfig())

	if _, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Victim",
		Email:    "victim@example.com",
		Password: "secret123",
		Mobile:   "9000000005",
		Role:     domain.RoleUser,
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), &LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	_, wrongPassErr := svc.Login(context.Background(), &LoginInput{
		Email:    "victim@example.com",
		Password: "wrong-password",
	})

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongPassErr, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", wrongPassErr)
	}
}

func TestMemberLogin(t *testing.T) {
	memberRepo := newFakeMemberRepo()
	hash, _ := password.Hash("member-pass")
	member := &models.Member{
		WelinID:  "WELIN-2026-00042",
		VendorID: 1,
		Name:     "Insured One",
		Email:    "insured@example.com",
		Password: hash,
		IsActive: true,
	}
	if err := memberRepo.Create(context.Background(), member); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	svc := NewAuthService(newFakeUserRepo(), memberRepo, testConfig())

	result, err := svc.MemberLogin(context.Background(), &LoginInput{
		Email:    "insured@example.com",
		Password: "member-pass",
	})
	if err != nil {
		t.Fatalf("MemberLogin failed: %v", err)
	}

	claims, err := jwt.ValidateToken(strings.TrimPrefix(result.Token, "Bearer "), "test-secret")
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Role != domain.RoleMember {
		t.Errorf("claims.Role = %q, want %q", claims.Role, domain.RoleMember)
	}
	if claims.WelinID != "WELIN-2026-00042" {
		t.Errorf("claims.WelinID = %q, want WELIN-2026-00042", claims.WelinID)
	}
}
