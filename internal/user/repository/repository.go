package repository

import (
	"context"

	"freightdesk/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// SetPhoneVerified marks the user's phone verified. No-op if already verified or the user is missing.
	SetPhoneVerified(ctx context.Context, userID string) error
	SetStatus(ctx context.Context, userID string, status domain.UserStatus) error
}
