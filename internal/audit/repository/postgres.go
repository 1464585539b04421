package repository

import (
	"context"
	"database/sql"
	"time"

	"freightdesk/backend/internal/audit/domain"
)

const (
	insertAuditLog = `INSERT INTO audit_logs (id, user_id, phone, action, resource, ip, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	listAuditLogsByPhone = `SELECT id, user_id, phone, action, resource, ip, metadata, created_at
FROM audit_logs WHERE phone = $1 ORDER BY created_at DESC LIMIT $2`
	deleteAuditLogsBefore = `DELETE FROM audit_logs WHERE created_at < $1`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	uid := sql.NullString{String: a.UserID, Valid: a.UserID != ""}
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	_, err := r.db.ExecContext(ctx, insertAuditLog,
		a.ID, uid, a.Phone, a.Action, a.Resource, a.IP, meta, a.CreatedAt)
	return err
}

// ListByPhone returns the newest audit logs for the masked phone, at most limit entries.
func (r *PostgresRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, listAuditLogsByPhone, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		var (
			a    domain.AuditLog
			uid  sql.NullString
			meta sql.NullString
		)
		if err := rows.Scan(&a.ID, &uid, &a.Phone, &a.Action, &a.Resource, &a.IP, &meta, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = uid.String
		a.Metadata = meta.String
		out = append(out, &a)
	}
	return out, rows.Err()
}

// DeleteBefore removes audit logs created before the given time and returns how many were removed.
func (r *PostgresRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteAuditLogsBefore, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
