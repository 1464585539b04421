package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"freightdesk/backend/internal/audit/domain"
	auditrepo "freightdesk/backend/internal/audit/repository"
	"freightdesk/backend/internal/phone"
)

// Actions recorded by the verification flow on ResourcePhoneVerification.
const (
	ResourcePhoneVerification = "phone_verification"

	ActionCodeIssued     = "code_issued"
	ActionCodeVerified   = "code_verified"
	ActionCodeRejected   = "code_rejected"
	ActionRateLimited    = "rate_limited"
	ActionSMSFailed      = "sms_failed"
	ActionAccountBlocked = "account_blocked"
)

// IPExtractor returns the client IP carried by ctx.
type IPExtractor func(context.Context) string

// Entry is one verification audit event. Phone is the international form; it is masked before storage.
type Entry struct {
	UserID  string
	Phone   string
	Country string
	Action  string
	Reason  string
}

type entryMetadata struct {
	Country string `json:"country,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Recorder persists audit entries. Record is best-effort and never fails the caller.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Logger is the Recorder backed by the audit repository.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	now         func() time.Time
}

// NewLogger returns a Logger writing to repo. A nil ipExtractor records the IP as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor, now: time.Now}
}

func (l *Logger) Record(ctx context.Context, e Entry) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	meta, _ := json.Marshal(entryMetadata{Country: e.Country, Reason: e.Reason})
	row := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    e.UserID,
		Phone:     phone.Mask(e.Phone),
		Action:    e.Action,
		Resource:  ResourcePhoneVerification,
		IP:        ip,
		Metadata:  string(meta),
		CreatedAt: l.now().UTC(),
	}
	if err := l.repo.Create(ctx, row); err != nil {
		log.Printf("audit: record %s for %s: %v", e.Action, row.Phone, err)
	}
}
