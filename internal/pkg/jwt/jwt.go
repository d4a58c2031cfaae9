package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Bearer tokens are valid for exactly one hour. Expiry is the only
// invalidation mechanism: no rotation, no revocation list.
const TokenLifetime = time.Hour

// Claims represents the JWT claims
type Claims struct {
	UserID  uint   `json:"id"`
	Role    string `json:"role"`
	Email   string `json:"email"`
	WelinID string `json:"welin_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed bearer token for an identity
func GenerateToken(userID uint, role, email, welinID, secret string) (string, error) {
	claims := Claims{
		UserID:  userID,
		Role:    role,
		Email:   email,
		WelinID: welinID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "welin-backend",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a bearer token and returns its claims
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
