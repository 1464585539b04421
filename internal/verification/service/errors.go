package service

import (
	"errors"

	"freightdesk/backend/internal/mfa"
	"freightdesk/backend/internal/phone"
)

// Sentinel errors for the verification flow; handlers map them to gRPC and HTTP codes.
var (
	ErrCountryNotSupported  = errors.New("country is not enabled for SMS verification")
	ErrAccountAlreadyExists = errors.New("an account already exists for this phone")
	ErrAccountNotFound      = errors.New("no account exists for this phone")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrRateLimited          = errors.New("too many verification codes requested")
)

// Machine-readable failure reasons.
const (
	ReasonInvalidFormat        = "INVALID_FORMAT"
	ReasonCountryMismatch      = "COUNTRY_MISMATCH"
	ReasonCountryNotSupported  = "COUNTRY_NOT_SUPPORTED"
	ReasonAccountAlreadyExists = "ACCOUNT_ALREADY_EXISTS"
	ReasonAccountNotFound      = "ACCOUNT_NOT_FOUND"
	ReasonAccountDisabled      = "ACCOUNT_DISABLED"
	ReasonRateLimited          = "RATE_LIMITED"
	ReasonSMSTransport         = "SMS_TRANSPORT_FAILURE"
	ReasonNoActiveCode         = "NO_ACTIVE_CODE"
	ReasonTooManyAttempts      = "TOO_MANY_ATTEMPTS"
	ReasonInvalidCode          = "INVALID_CODE"
	ReasonInternal             = "INTERNAL"
)

// Reason returns the failure reason for err, ReasonInternal for unknown errors and "" for nil.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, phone.ErrInvalidFormat):
		return ReasonInvalidFormat
	case errors.Is(err, phone.ErrCountryMismatch):
		return ReasonCountryMismatch
	case errors.Is(err, ErrCountryNotSupported):
		return ReasonCountryNotSupported
	case errors.Is(err, ErrAccountAlreadyExists):
		return ReasonAccountAlreadyExists
	case errors.Is(err, ErrAccountNotFound):
		return ReasonAccountNotFound
	case errors.Is(err, ErrAccountDisabled):
		return ReasonAccountDisabled
	case errors.Is(err, ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, mfa.ErrSMSTransport):
		return ReasonSMSTransport
	case errors.Is(err, mfa.ErrNoActiveCode):
		return ReasonNoActiveCode
	case errors.Is(err, mfa.ErrTooManyAttempts):
		return ReasonTooManyAttempts
	case errors.Is(err, mfa.ErrInvalidCode):
		return ReasonInvalidCode
	default:
		return ReasonInternal
	}
}
