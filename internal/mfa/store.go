// Package mfa issues and verifies SMS verification codes.
package mfa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"freightdesk/backend/internal/mfa/domain"
	"freightdesk/backend/internal/mfa/repository"
	"freightdesk/backend/internal/mfa/sms"
)

var (
	// ErrNoActiveCode is returned when the phone has no unconsumed, unexpired code.
	ErrNoActiveCode = errors.New("no active verification code")
	// ErrTooManyAttempts is returned once the attempt cap of the active code is reached.
	ErrTooManyAttempts = errors.New("too many verification attempts")
	// ErrInvalidCode is returned when the submitted code does not match.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrSMSTransport wraps delivery failures. The issued code stays valid.
	ErrSMSTransport = errors.New("sms transport failure")
)

const (
	DefaultMaxAttempts = 3
	DefaultSendTimeout = 10 * time.Second
	// DefaultRetention is how long records are kept for rate limiting before PurgeStale may remove them.
	DefaultRetention = time.Hour
)

// Options configures a CodeStore. Zero values use the defaults.
type Options struct {
	TTL         time.Duration
	MaxAttempts int
	SendTimeout time.Duration
	Retention   time.Duration
}

// IssuedCode is returned by Issue. Code is the only place the plain code is exposed.
type IssuedCode struct {
	ID        string
	Phone     string
	Code      string
	ExpiresAt time.Time
}

// CodeStore manages verification codes per phone: issue, verify, cleanup and rate-limit counting.
type CodeStore struct {
	repo   repository.Repository
	sender sms.Sender
	opts   Options
	now    func() time.Time
}

// NewCodeStore returns a CodeStore over repo that delivers codes with sender.
func NewCodeStore(repo repository.Repository, sender sms.Sender, opts Options) *CodeStore {
	if opts.TTL <= 0 {
		opts.TTL = repository.DefaultCodeTTL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	return &CodeStore{repo: repo, sender: sender, opts: opts, now: time.Now}
}

// Issue creates a new code for phone, supersedes any earlier unconsumed code and
// sends the code by SMS. When delivery fails the record is kept and the error wraps ErrSMSTransport.
func (s *CodeStore) Issue(ctx context.Context, phone string) (*IssuedCode, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	now := s.now().UTC()
	rec := &domain.VerificationCode{
		ID:        uuid.New().String(),
		Phone:     phone,
		CodeHash:  HashCode(code),
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.TTL),
	}
	if err := s.repo.ReplaceActive(ctx, rec); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()
	if err := s.sender.SendCode(sendCtx, sms.Message{To: phone, Code: code, ExpiresAt: rec.ExpiresAt}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSMSTransport, err)
	}
	return &IssuedCode{ID: rec.ID, Phone: phone, Code: code, ExpiresAt: rec.ExpiresAt}, nil
}

// Verify checks code against the active code for phone. A match consumes the code;
// a mismatch counts one attempt.
func (s *CodeStore) Verify(ctx context.Context, phone, code string) error {
	res, err := s.repo.Attempt(ctx, phone, HashCode(code), s.opts.MaxAttempts, s.now().UTC())
	if err != nil {
		return fmt.Errorf("verify code: %w", err)
	}
	switch res {
	case domain.AttemptMatched:
		return nil
	case domain.AttemptMismatch:
		return ErrInvalidCode
	case domain.AttemptLocked:
		return ErrTooManyAttempts
	default:
		return ErrNoActiveCode
	}
}

// Cleanup removes every code for phone, including its issuance history.
func (s *CodeStore) Cleanup(ctx context.Context, phone string) error {
	return s.repo.DeleteByPhone(ctx, phone)
}

// CountRecentIssuances counts codes issued for phone within the trailing window.
func (s *CodeStore) CountRecentIssuances(ctx context.Context, phone string, window time.Duration) (int, error) {
	return s.repo.CountCreatedSince(ctx, phone, s.now().UTC().Add(-window))
}

// PurgeStale removes records that are no longer live and older than the retention window.
func (s *CodeStore) PurgeStale(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	return s.repo.DeleteStale(ctx, now.Add(-s.opts.Retention), now)
}

// Peek returns the newest record for phone, or nil.
func (s *CodeStore) Peek(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	return s.repo.GetLatest(ctx, phone)
}

// MaxAttempts returns the configured attempt cap.
func (s *CodeStore) MaxAttempts() int { return s.opts.MaxAttempts }
