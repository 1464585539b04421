package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freightdesk/backend/internal/user/domain"
)

const (
	userColumns = `id, phone, name, email, phone_verified, status, created_at, updated_at`

	getUserSQL        = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByPhoneSQL = `SELECT ` + userColumns + ` FROM users WHERE phone = $1`

	createUserSQL = `INSERT INTO users (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	setPhoneVerifiedSQL = `UPDATE users SET phone_verified = TRUE, updated_at = $2
WHERE id = $1 AND NOT phone_verified`

	setStatusSQL = `UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

// GetByPhone returns the user with the given international phone, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByPhoneSQL, phone))
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	name := sql.NullString{String: u.Name, Valid: u.Name != ""}
	email := sql.NullString{String: u.Email, Valid: u.Email != ""}
	_, err := r.db.ExecContext(ctx, createUserSQL,
		u.ID, u.Phone, name, email, u.PhoneVerified, string(u.Status), u.CreatedAt, u.UpdatedAt)
	return err
}

// SetPhoneVerified marks the phone verified. Returns nil if no row was updated.
func (r *PostgresRepository) SetPhoneVerified(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, setPhoneVerifiedSQL, userID, time.Now().UTC())
	return err
}

// SetStatus updates the account status.
func (r *PostgresRepository) SetStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	_, err := r.db.ExecContext(ctx, setStatusSQL, userID, string(status), time.Now().UTC())
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u           domain.User
		name, email sql.NullString
		status      string
	)
	err := row.Scan(&u.ID, &u.Phone, &name, &email, &u.PhoneVerified, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if name.Valid {
		u.Name = name.String
	}
	if email.Valid {
		u.Email = email.String
	}
	u.Status = domain.UserStatus(status)
	return &u, nil
}
