package repository

import (
	"context"
	"time"

	"freightdesk/backend/internal/mfa/domain"
)

// Repository defines persistence for SMS verification codes.
// Implementations must make ReplaceActive and Attempt atomic per phone.
type Repository interface {
	// ReplaceActive marks every unconsumed code for c.Phone superseded and inserts c.
	ReplaceActive(ctx context.Context, c *domain.VerificationCode) error
	// Attempt applies one verification attempt to the newest live code for phone.
	Attempt(ctx context.Context, phone, codeHash string, maxAttempts int, now time.Time) (domain.AttemptResult, error)
	// GetLatest returns the most recently created code for phone, or nil if none.
	GetLatest(ctx context.Context, phone string) (*domain.VerificationCode, error)
	// DeleteByPhone removes every code for phone.
	DeleteByPhone(ctx context.Context, phone string) error
	// CountCreatedSince counts codes for phone created at or after since, whatever their state.
	CountCreatedSince(ctx context.Context, phone string, since time.Time) (int, error)
	// DeleteStale removes codes created before before that are no longer live at now.
	DeleteStale(ctx context.Context, before, now time.Time) (int64, error)
}

// DefaultCodeTTL is the default verification code expiry.
const DefaultCodeTTL = 10 * time.Minute
