package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freightdesk/backend/internal/mfa/domain"
)

const (
	lockPhoneSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

	supersedeSQL = `UPDATE verification_codes SET superseded = TRUE
WHERE phone = $1 AND NOT consumed AND NOT superseded`

	insertCodeSQL = `INSERT INTO verification_codes
(id, phone, code_hash, attempts, consumed, superseded, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectLiveForUpdateSQL = `SELECT id, phone, code_hash, attempts, consumed, superseded, created_at, expires_at
FROM verification_codes
WHERE phone = $1 AND NOT consumed AND NOT superseded AND expires_at > $2
ORDER BY created_at DESC
LIMIT 1
FOR UPDATE`

	updateAttemptSQL = `UPDATE verification_codes SET attempts = $2, consumed = $3 WHERE id = $1`

	selectLatestSQL = `SELECT id, phone, code_hash, attempts, consumed, superseded, created_at, expires_at
FROM verification_codes
WHERE phone = $1
ORDER BY created_at DESC
LIMIT 1`

	deleteByPhoneSQL = `DELETE FROM verification_codes WHERE phone = $1`

	countSinceSQL = `SELECT COUNT(*) FROM verification_codes WHERE phone = $1 AND created_at >= $2`

	deleteStaleSQL = `DELETE FROM verification_codes
WHERE created_at < $1 AND (consumed OR superseded OR expires_at <= $2)`
)

// PostgresRepository stores verification codes in the verification_codes table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a verification code repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ReplaceActive supersedes older codes and inserts c in one transaction.
// A transaction-scoped advisory lock on the phone serializes concurrent issuances.
func (r *PostgresRepository) ReplaceActive(ctx context.Context, c *domain.VerificationCode) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, lockPhoneSQL, c.Phone); err != nil {
			return fmt.Errorf("lock phone: %w", err)
		}
		if _, err := tx.ExecContext(ctx, supersedeSQL, c.Phone); err != nil {
			return fmt.Errorf("supersede codes: %w", err)
		}
		_, err := tx.ExecContext(ctx, insertCodeSQL,
			c.ID, c.Phone, c.CodeHash, c.Attempts, c.Consumed, c.Superseded, c.CreatedAt, c.ExpiresAt)
		if err != nil {
			return fmt.Errorf("insert code: %w", err)
		}
		return nil
	})
}

// Attempt locks the newest live code row and applies the attempt to it.
// It takes the same phone advisory lock as ReplaceActive first: a row lock alone would let a
// concurrent reissue supersede the row under it, and READ COMMITTED would then return no row
// instead of the fresh code.
func (r *PostgresRepository) Attempt(ctx context.Context, phone, codeHash string, maxAttempts int, now time.Time) (domain.AttemptResult, error) {
	result := domain.AttemptNoActiveCode
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, lockPhoneSQL, phone); err != nil {
			return fmt.Errorf("lock phone: %w", err)
		}
		c, err := scanCode(tx.QueryRowContext(ctx, selectLiveForUpdateSQL, phone, now))
		if err != nil || c == nil {
			return err
		}
		result = domain.Apply(c, codeHash, maxAttempts, now)
		if result != domain.AttemptMismatch && result != domain.AttemptMatched {
			return nil
		}
		_, err = tx.ExecContext(ctx, updateAttemptSQL, c.ID, c.Attempts, c.Consumed)
		return err
	})
	if err != nil {
		return domain.AttemptNoActiveCode, err
	}
	return result, nil
}

// GetLatest returns the newest code for phone, or nil if not found.
func (r *PostgresRepository) GetLatest(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	return scanCode(r.db.QueryRowContext(ctx, selectLatestSQL, phone))
}

// DeleteByPhone removes every code for phone.
func (r *PostgresRepository) DeleteByPhone(ctx context.Context, phone string) error {
	_, err := r.db.ExecContext(ctx, deleteByPhoneSQL, phone)
	return err
}

// CountCreatedSince counts codes for phone created at or after since.
func (r *PostgresRepository) CountCreatedSince(ctx context.Context, phone string, since time.Time) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countSinceSQL, phone, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteStale removes non-live codes created before before.
func (r *PostgresRepository) DeleteStale(ctx context.Context, before, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteStaleSQL, before, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanCode(row *sql.Row) (*domain.VerificationCode, error) {
	var c domain.VerificationCode
	err := row.Scan(&c.ID, &c.Phone, &c.CodeHash, &c.Attempts, &c.Consumed, &c.Superseded, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
