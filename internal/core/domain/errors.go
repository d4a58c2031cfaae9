package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Identity errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is deactivated")
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberExists      = errors.New("member already exists")
	ErrVendorNotFound    = errors.New("vendor not found")
	ErrAgentNotFound     = errors.New("agent not found")
)

// Product errors
var (
	ErrCoverNotFound          = errors.New("loan cover not found")
	ErrInvalidPremium         = errors.New("total premium must equal base premium plus GST")
	ErrProductKindUnsupported = errors.New("product kind not supported")
	ErrPremiumNotFound        = errors.New("premium data not found for the given loan amount and year")
)

// Payment errors
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrDuplicateTransaction = errors.New("transaction already recorded")
	ErrAlreadyProcessed     = errors.New("payment already processed")
	ErrPaymentExpired       = errors.New("payment has expired")
	ErrWrongPaymentMethod   = errors.New("wrong payment method")
)
