// Package worker runs scheduled maintenance: purging stale verification codes and expired audit logs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const purgeTimeout = 2 * time.Minute

// CodePurger deletes stale verification code records (e.g. *mfa.CodeStore).
type CodePurger interface {
	PurgeStale(ctx context.Context) (int64, error)
}

// AuditPurger deletes audit log entries older than a cutoff (e.g. audit repository).
type AuditPurger interface {
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// PurgeResult is the outcome of one purge run.
type PurgeResult struct {
	Codes     int64
	AuditLogs int64
}

// Purger removes stale verification records and, when AuditRetention is positive, old audit logs.
type Purger struct {
	Codes          CodePurger
	Audit          AuditPurger
	AuditRetention time.Duration

	now func() time.Time
}

// NewPurger returns a purger. audit may be nil, and a zero retention keeps audit logs forever.
func NewPurger(codes CodePurger, audit AuditPurger, auditRetention time.Duration) *Purger {
	return &Purger{Codes: codes, Audit: audit, AuditRetention: auditRetention, now: time.Now}
}

// Run performs one purge. Both purges are attempted; errors are joined.
func (p *Purger) Run(ctx context.Context) (PurgeResult, error) {
	if p == nil || p.Codes == nil {
		return PurgeResult{}, errors.New("worker: purger not configured")
	}
	var res PurgeResult
	var errs []error
	n, err := p.Codes.PurgeStale(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("purge verification codes: %w", err))
	}
	res.Codes = n
	if p.Audit != nil && p.AuditRetention > 0 {
		n, err := p.Audit.DeleteBefore(ctx, p.now().Add(-p.AuditRetention))
		if err != nil {
			errs = append(errs, fmt.Errorf("purge audit logs: %w", err))
		}
		res.AuditLogs = n
	}
	return res, errors.Join(errs...)
}

// Schedule registers the purge on c using a standard five-field cron spec.
func (p *Purger) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return 0, fmt.Errorf("invalid cron schedule '%s': %w", spec, err)
	}
	return c.Schedule(schedule, cron.FuncJob(p.runLogged)), nil
}

func (p *Purger) runLogged() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()
	res, err := p.Run(ctx)
	if err != nil {
		log.Printf("worker: purge failed: %v", err)
	}
	log.Printf("worker: purged %d verification codes, %d audit logs", res.Codes, res.AuditLogs)
}
