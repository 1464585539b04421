// Package service implements the phone verification flow: initiate (validate, check
// account state, rate-limit, issue a code by SMS) and complete (verify the code).
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"freightdesk/backend/internal/audit"
	"freightdesk/backend/internal/mfa"
	"freightdesk/backend/internal/phone"
	"freightdesk/backend/internal/policy/engine"
	"freightdesk/backend/internal/telemetry"
	userdomain "freightdesk/backend/internal/user/domain"
)

const instrumentationName = "freightdesk/backend/internal/verification/service"

const (
	DefaultRateLimit  = 5
	DefaultRateWindow = time.Hour
)

// CodeStore is the subset of mfa.CodeStore used by the flow.
type CodeStore interface {
	Issue(ctx context.Context, phone string) (*mfa.IssuedCode, error)
	Verify(ctx context.Context, phone, code string) error
	Cleanup(ctx context.Context, phone string) error
	CountRecentIssuances(ctx context.Context, phone string, window time.Duration) (int, error)
}

// UserDirectory is the minimal user repository needed by the flow.
type UserDirectory interface {
	GetByPhone(ctx context.Context, phone string) (*userdomain.User, error)
	SetPhoneVerified(ctx context.Context, userID string) error
}

// Config holds the rate limit. Zero values use the defaults.
type Config struct {
	RateLimit  int
	RateWindow time.Duration
}

// Deps holds the collaborators of PhoneVerificationService. Codes and Users are required.
type Deps struct {
	// Normalizer validates raw phones. If nil, phone.Default() is used.
	Normalizer *phone.Normalizer
	Codes      CodeStore
	Users      UserDirectory
	// Policy decides SMS capability per country. If nil, every detected country is allowed.
	Policy engine.Evaluator
	// Audit records flow outcomes. Optional.
	Audit audit.Recorder
	// Telemetry receives flow events. Optional.
	Telemetry telemetry.EventEmitter
}

// InitiateResult is returned by InitiatePhoneVerification.
type InitiateResult struct {
	Message              string
	RequiresRegistration bool
	Phone                *phone.Result
	ExpiresAt            time.Time
}

// CompleteResult is returned by CompletePhoneVerification.
type CompleteResult struct {
	Verified bool
	Phone    *phone.Result
	// UserID is empty when no account exists yet for the phone.
	UserID     string
	NewAccount bool
}

// PhoneVerificationService orchestrates SMS phone verification.
type PhoneVerificationService struct {
	normalizer *phone.Normalizer
	codes      CodeStore
	users      UserDirectory
	policy     engine.Evaluator
	audit      audit.Recorder
	emitter    telemetry.EventEmitter
	cfg        Config

	// issuing holds the count-then-issue pair per phone so concurrent initiates cannot overshoot the limit.
	issuing *phoneLocks

	tracer   trace.Tracer
	issued   metric.Int64Counter
	outcomes metric.Int64Counter
}

// NewPhoneVerificationService returns a PhoneVerificationService with the given dependencies.
// Spans and counters go to the global OpenTelemetry providers.
func NewPhoneVerificationService(deps Deps, cfg Config) *PhoneVerificationService {
	if deps.Normalizer == nil {
		deps.Normalizer = phone.Default()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = DefaultRateWindow
	}
	meter := otel.Meter(instrumentationName)
	issued, err := meter.Int64Counter("verification.codes.issued",
		metric.WithDescription("Verification codes issued"))
	if err != nil {
		log.Printf("verification: create issued counter: %v", err)
	}
	outcomes, err := meter.Int64Counter("verification.outcomes",
		metric.WithDescription("Verification flow outcomes by operation and reason"))
	if err != nil {
		log.Printf("verification: create outcome counter: %v", err)
	}
	return &PhoneVerificationService{
		normalizer: deps.Normalizer,
		codes:      deps.Codes,
		users:      deps.Users,
		policy:     deps.Policy,
		audit:      deps.Audit,
		emitter:    deps.Telemetry,
		cfg:        cfg,
		issuing:    newPhoneLocks(),
		tracer:     otel.Tracer(instrumentationName),
		issued:     issued,
		outcomes:   outcomes,
	}
}

// InitiatePhoneVerification validates rawPhone, checks account state for the flow and sends a code.
// isRegistration selects the registration flow (no account may exist) over the login flow
// (an active account must exist).
func (s *PhoneVerificationService) InitiatePhoneVerification(ctx context.Context, rawPhone string, isRegistration bool) (*InitiateResult, error) {
	return s.InitiatePhoneVerificationFor(ctx, rawPhone, "", isRegistration)
}

// InitiatePhoneVerificationFor is InitiatePhoneVerification with a required country
// (ISO alpha-2; empty accepts any supported country).
func (s *PhoneVerificationService) InitiatePhoneVerificationFor(ctx context.Context, rawPhone, country string, isRegistration bool) (res *InitiateResult, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.InitiatePhoneVerification",
		trace.WithAttributes(attribute.Bool("verification.registration", isRegistration)))
	var p *phone.Result
	defer func() { s.finish(ctx, span, "initiate", p, err) }()

	p, err = s.normalizer.Validate(rawPhone, country)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("phone.country", p.Country), attribute.String("phone.line_type", p.LineType))

	if err = s.checkSMSPolicy(ctx, p, isRegistration); err != nil {
		return nil, err
	}

	u, err := s.users.GetByPhone(ctx, p.International)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err = checkAccount(u, isRegistration); err != nil {
		s.logAudit(ctx, userID(u), p, audit.ActionAccountBlocked, Reason(err))
		return nil, err
	}

	unlock := s.issuing.lock(p.International)
	defer unlock()
	n, err := s.codes.CountRecentIssuances(ctx, p.International, s.cfg.RateWindow)
	if err != nil {
		return nil, fmt.Errorf("count recent codes: %w", err)
	}
	if n >= s.cfg.RateLimit {
		s.logAudit(ctx, userID(u), p, audit.ActionRateLimited, "")
		return nil, ErrRateLimited
	}

	issued, err := s.codes.Issue(ctx, p.International)
	if err != nil {
		if errors.Is(err, mfa.ErrSMSTransport) {
			log.Printf("verification: sms delivery to %s failed: %v", phone.Mask(p.International), err)
			s.logAudit(ctx, userID(u), p, audit.ActionSMSFailed, "")
		}
		return nil, err
	}
	s.logAudit(ctx, userID(u), p, audit.ActionCodeIssued, "")
	if s.issued != nil {
		s.issued.Add(ctx, 1, metric.WithAttributes(attribute.String("country", p.Country)))
	}
	telemetry.EmitAsync(s.emitter, ctx, s.event(telemetry.EventCodeIssued, u, p, "ok"))

	return &InitiateResult{
		Message:              initiateMessage(p, u == nil),
		RequiresRegistration: u == nil,
		Phone:                p,
		ExpiresAt:            issued.ExpiresAt,
	}, nil
}

// CompletePhoneVerification checks code against the active code for rawPhone. On success every
// record for the phone is removed and an existing account gets its phone marked verified.
func (s *PhoneVerificationService) CompletePhoneVerification(ctx context.Context, rawPhone, code string) (res *CompleteResult, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.CompletePhoneVerification")
	var p *phone.Result
	defer func() { s.finish(ctx, span, "complete", p, err) }()

	p, err = s.normalizer.Validate(rawPhone, "")
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("phone.country", p.Country))

	if err = s.codes.Verify(ctx, p.International, strings.TrimSpace(code)); err != nil {
		s.logAudit(ctx, "", p, audit.ActionCodeRejected, Reason(err))
		return nil, err
	}
	if err = s.codes.Cleanup(ctx, p.International); err != nil {
		return nil, fmt.Errorf("cleanup codes: %w", err)
	}

	u, err := s.users.GetByPhone(ctx, p.International)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u != nil && u.Disabled() {
		s.logAudit(ctx, u.ID, p, audit.ActionAccountBlocked, ReasonAccountDisabled)
		return nil, ErrAccountDisabled
	}
	if u != nil && !u.PhoneVerified {
		if err = s.users.SetPhoneVerified(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("mark phone verified: %w", err)
		}
	}
	s.logAudit(ctx, userID(u), p, audit.ActionCodeVerified, "")
	telemetry.EmitAsync(s.emitter, ctx, s.event(telemetry.EventCodeVerified, u, p, "ok"))

	return &CompleteResult{
		Verified:   true,
		Phone:      p,
		UserID:     userID(u),
		NewAccount: u == nil,
	}, nil
}

func (s *PhoneVerificationService) checkSMSPolicy(ctx context.Context, p *phone.Result, isRegistration bool) error {
	if s.policy == nil {
		return nil
	}
	d, err := s.policy.EvaluateSMS(ctx, engine.SMSRequest{
		Country:      p.Country,
		LineType:     p.LineType,
		Registration: isRegistration,
	})
	if err != nil {
		return fmt.Errorf("sms policy: %w", err)
	}
	if !d.Allowed {
		if d.Reason != "" {
			return fmt.Errorf("%w: %s", ErrCountryNotSupported, d.Reason)
		}
		return ErrCountryNotSupported
	}
	return nil
}

func checkAccount(u *userdomain.User, isRegistration bool) error {
	switch {
	case isRegistration && u != nil:
		return ErrAccountAlreadyExists
	case !isRegistration && u == nil:
		return ErrAccountNotFound
	case u != nil && u.Disabled():
		return ErrAccountDisabled
	}
	return nil
}

func initiateMessage(p *phone.Result, registration bool) string {
	if registration {
		return fmt.Sprintf("Verification code sent to %s. Enter it to create your account.", p.Display)
	}
	return fmt.Sprintf("Verification code sent to %s.", p.Display)
}

// finish records the outcome of one operation on the span, the outcome counter and, for
// failures, the telemetry stream.
func (s *PhoneVerificationService) finish(ctx context.Context, span trace.Span, op string, p *phone.Result, err error) {
	defer span.End()
	reason := Reason(err)
	outcome := "ok"
	if err != nil {
		outcome = reason
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, reason)
		telemetry.EmitAsync(s.emitter, ctx, s.event(telemetry.EventVerificationFail, nil, p, reason))
	}
	if s.outcomes != nil {
		s.outcomes.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
	}
}

func (s *PhoneVerificationService) event(eventType string, u *userdomain.User, p *phone.Result, outcome string) *telemetry.Event {
	ev := &telemetry.Event{
		EventType: eventType,
		Source:    "verification_service",
		UserID:    userID(u),
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
	if p != nil {
		ev.Phone = phone.Mask(p.International)
		ev.Country = p.Country
	}
	return ev
}

func (s *PhoneVerificationService) logAudit(ctx context.Context, uid string, p *phone.Result, action, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{UserID: uid, Phone: p.International, Country: p.Country, Action: action, Reason: reason})
}

func userID(u *userdomain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
