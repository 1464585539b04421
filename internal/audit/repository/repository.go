package repository

import (
	"context"
	"time"

	"freightdesk/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	ListByPhone(ctx context.Context, phone string, limit int) ([]*domain.AuditLog, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
