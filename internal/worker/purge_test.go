package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

type fakeCodes struct {
	n     int64
	err   error
	calls int
}

func (f *fakeCodes) PurgeStale(ctx context.Context) (int64, error) {
	f.calls++
	return f.n, f.err
}

type fakeAudit struct {
	n      int64
	err    error
	before time.Time
	calls  int
}

func (f *fakeAudit) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	f.calls++
	f.before = before
	return f.n, f.err
}

func TestRun_PurgesCodesAndAudit(t *testing.T) {
	codes := &fakeCodes{n: 4}
	audit := &fakeAudit{n: 2}
	p := NewPurger(codes, audit, 24*time.Hour)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Codes != 4 || res.AuditLogs != 2 {
		t.Errorf("result = %+v, want 4 codes and 2 audit logs", res)
	}
	if !audit.before.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("cutoff = %v, want now-24h", audit.before)
	}
}

func TestRun_ZeroRetentionKeepsAudit(t *testing.T) {
	audit := &fakeAudit{}
	p := NewPurger(&fakeCodes{}, audit, 0)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if audit.calls != 0 {
		t.Errorf("DeleteBefore called %d times, want 0", audit.calls)
	}
}

func TestRun_ErrorsAreJoined(t *testing.T) {
	codeErr := errors.New("codes down")
	auditErr := errors.New("audit down")
	audit := &fakeAudit{err: auditErr}
	p := NewPurger(&fakeCodes{err: codeErr}, audit, time.Hour)

	_, err := p.Run(context.Background())
	if !errors.Is(err, codeErr) || !errors.Is(err, auditErr) {
		t.Errorf("err = %v, want both errors", err)
	}
	if audit.calls != 1 {
		t.Error("audit purge should run even when the code purge fails")
	}
}

func TestRun_NotConfigured(t *testing.T) {
	var p *Purger
	if _, err := p.Run(context.Background()); err == nil {
		t.Error("nil purger should return error")
	}
}

func TestSchedule(t *testing.T) {
	p := NewPurger(&fakeCodes{}, nil, 0)
	c := cron.New()
	id, err := p.Schedule(c, "*/15 * * * *")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if c.Entry(id).ID != id {
		t.Error("entry not registered")
	}
	if _, err := p.Schedule(c, "every now and then"); err == nil {
		t.Error("invalid spec should return error")
	}
}
