package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "vendor", "v@example.com", "", "secret")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "vendor" {
		t.Errorf("Role = %q, want vendor", claims.Role)
	}
	if claims.WelinID != "" {
		t.Errorf("WelinID = %q, want empty for non-members", claims.WelinID)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > TokenLifetime || ttl < TokenLifetime-time.Minute {
		t.Errorf("token lifetime = %v, want about %v", ttl, TokenLifetime)
	}
}

func TestMemberTokenCarriesWelinID(t *testing.T) {
	token, err := GenerateToken(7, "member", "m@example.com", "WELIN-2026-00007", "secret")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.WelinID != "WELIN-2026-00007" {
		t.Errorf("WelinID = %q", claims.WelinID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken(1, "user", "u@example.com", "", "secret")

	if _, err := ValidateToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Role:   "user",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  gojwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateToken(token, "secret"); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", "secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
