// Worker purges stale verification code records and expired audit logs on a cron schedule.
// Set DATABASE_URL (and REDIS_URL when VERIFICATION_STORE=redis), PURGE_CRON and AUDIT_RETENTION.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	auditrepo "freightdesk/backend/internal/audit/repository"
	"freightdesk/backend/internal/config"
	"freightdesk/backend/internal/db"
	"freightdesk/backend/internal/mfa"
	mfarepo "freightdesk/backend/internal/mfa/repository"
	"freightdesk/backend/internal/worker"
)

func main() {
	once := len(os.Args) > 1 && os.Args[1] == "once"

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("worker: database: %v", err)
	}
	defer conn.Close()

	var codeRepo mfarepo.Repository
	switch cfg.VerificationStore {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("worker: redis: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		codeRepo = mfarepo.NewRedisRepository(rdb, cfg.RateWindow())
	case config.StoreMemory:
		log.Fatal("worker: VERIFICATION_STORE=memory has nothing to purge out of process")
	default:
		codeRepo = mfarepo.NewPostgresRepository(conn)
	}

	// The purge never sends SMS, so the store runs without a sender.
	codes := mfa.NewCodeStore(codeRepo, nil, mfa.Options{Retention: cfg.RateWindow()})
	purger := worker.NewPurger(codes, auditrepo.NewPostgresRepository(conn), cfg.AuditRetentionPeriod())

	if once {
		res, err := purger.Run(ctx)
		if err != nil {
			log.Fatalf("worker: purge: %v", err)
		}
		log.Printf("worker: purged %d verification codes, %d audit logs", res.Codes, res.AuditLogs)
		return
	}

	c := cron.New()
	if _, err := purger.Schedule(c, cfg.PurgeCron); err != nil {
		log.Fatalf("worker: %v", err)
	}
	c.Start()
	log.Printf("worker: purge scheduled (%s)", cfg.PurgeCron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("worker: shutting down...")
	<-c.Stop().Done()
	log.Println("worker: stopped")
}
