package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"freightdesk/backend/internal/audit"
	auditrepo "freightdesk/backend/internal/audit/repository"
	"freightdesk/backend/internal/config"
	"freightdesk/backend/internal/db"
	"freightdesk/backend/internal/devotp"
	devotphandler "freightdesk/backend/internal/devotp/handler"
	healthhandler "freightdesk/backend/internal/health/handler"
	"freightdesk/backend/internal/mfa"
	mfarepo "freightdesk/backend/internal/mfa/repository"
	"freightdesk/backend/internal/mfa/sms"
	"freightdesk/backend/internal/phone"
	"freightdesk/backend/internal/policy/engine"
	"freightdesk/backend/internal/security"
	"freightdesk/backend/internal/server/interceptors"
	"freightdesk/backend/internal/telemetry"
	userrepo "freightdesk/backend/internal/user/repository"
	verificationhandler "freightdesk/backend/internal/verification/handler"
	"freightdesk/backend/internal/verification/service"
)

// app holds the wired components and the connections to close on shutdown.
type app struct {
	verification *verificationhandler.Server
	devOTP       *devotphandler.Server
	health       *healthhandler.Server
	auditRepo    auditrepo.Repository

	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

func build(ctx context.Context, cfg *config.Config, emitter telemetry.EventEmitter) (*app, error) {
	a := &app{}

	var conn *sql.DB
	if cfg.DatabaseURL != "" {
		c, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		conn = c
		a.closers = append(a.closers, conn.Close)
	} else if cfg.VerificationStore == config.StorePostgres {
		return nil, errors.New("DATABASE_URL must be set when VERIFICATION_STORE=postgres")
	} else {
		log.Println("server: DATABASE_URL not set; using in-memory users and audit log")
	}

	codeRepo, err := buildCodeRepository(ctx, cfg, conn, a)
	if err != nil {
		return nil, err
	}

	var devStore devotp.Store
	var sender sms.Sender
	if cfg.OTPReturnToClient {
		mem := devotp.NewMemoryStore()
		devStore = mem
		sender = sms.NewDevSender(mem)
		a.devOTP = devotphandler.NewServer(mem)
		log.Println("server: dev OTP mode enabled; codes are not sent by SMS")
	} else {
		sender, err = buildSender(cfg)
		if err != nil {
			return nil, err
		}
	}

	normalizer := phone.Default()
	policy, err := buildPolicy(ctx, cfg, normalizer)
	if err != nil {
		return nil, err
	}

	var users userrepo.Repository
	if conn != nil {
		users = userrepo.NewPostgresRepository(conn)
		a.auditRepo = auditrepo.NewPostgresRepository(conn)
	} else {
		users = userrepo.NewMemoryRepository()
		a.auditRepo = auditrepo.NewMemoryRepository()
	}

	codes := mfa.NewCodeStore(codeRepo, sender, mfa.Options{
		TTL:         cfg.CodeTTL(),
		MaxAttempts: cfg.OTPMaxAttempts,
		SendTimeout: cfg.SendTimeout(),
		Retention:   cfg.RateWindow(),
	})

	svc := service.NewPhoneVerificationService(service.Deps{
		Normalizer: normalizer,
		Codes:      codes,
		Users:      users,
		Policy:     policy,
		Audit:      audit.NewLogger(a.auditRepo, interceptors.ClientIP),
		Telemetry:  emitter,
	}, service.Config{RateLimit: cfg.OTPRateLimit, RateWindow: cfg.RateWindow()})

	proofs, err := buildTokenProvider(cfg)
	if err != nil {
		return nil, err
	}
	a.verification = verificationhandler.NewServer(svc, proofs, devStore)

	var pinger healthhandler.Pinger
	if conn != nil {
		pinger = conn
	}
	a.health = healthhandler.NewServer(pinger, policy, "freightdesk.verification.v1.VerificationService")
	return a, nil
}

func buildCodeRepository(ctx context.Context, cfg *config.Config, conn *sql.DB, a *app) (mfarepo.Repository, error) {
	switch cfg.VerificationStore {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		return mfarepo.NewRedisRepository(rdb, cfg.RateWindow()), nil
	case config.StoreMemory:
		log.Println("server: verification codes kept in memory; they do not survive restarts")
		return mfarepo.NewMemoryRepository(), nil
	default:
		return mfarepo.NewPostgresRepository(conn), nil
	}
}

func buildSender(cfg *config.Config) (sms.Sender, error) {
	switch cfg.SMSProvider {
	case config.SMSProviderSeven:
		if cfg.SevenAPIKey == "" {
			return nil, errors.New("SEVEN_API_KEY must be set when SMS_PROVIDER=seven")
		}
		return sms.NewSevenClient(cfg.SevenAPIKey, cfg.SMSFrom), nil
	default:
		if cfg.SMSLocalAPIKey == "" {
			return nil, errors.New("SMS_LOCAL_API_KEY must be set when SMS_PROVIDER=smslocal (or enable OTP_RETURN_TO_CLIENT in development)")
		}
		return sms.NewSMSLocalClient(cfg.SMSLocalAPIKey, cfg.SMSLocalBaseURL, cfg.SMSLocalSender), nil
	}
}

func buildPolicy(ctx context.Context, cfg *config.Config, n *phone.Normalizer) (*engine.OPAEvaluator, error) {
	rego := ""
	if cfg.SMSPolicyFile != "" {
		p, err := engine.LoadPolicyFile(cfg.SMSPolicyFile)
		if err != nil {
			return nil, err
		}
		rego = p
	}
	profiles := n.Profiles()
	supported := make([]string, 0, len(profiles))
	for _, p := range profiles {
		supported = append(supported, p.ID)
	}
	return engine.NewOPAEvaluator(ctx, rego, supported)
}

func buildTokenProvider(cfg *config.Config) (*security.TokenProvider, error) {
	if cfg.JWTPrivateKey == "" {
		if cfg.Production() {
			return nil, errors.New("JWT_PRIVATE_KEY must be set in production")
		}
		log.Println("server: JWT_PRIVATE_KEY not set; signing phone proofs with an ephemeral key")
		priv, err := security.GenerateEphemeralKey()
		if err != nil {
			return nil, err
		}
		return security.NewTokenProvider(priv, priv.Public(), cfg.JWTIssuer, cfg.JWTAudience, cfg.ProofTTL()), nil
	}
	priv, pub, err := security.LoadKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
	if err != nil {
		return nil, fmt.Errorf("jwt keys: %w", err)
	}
	return security.NewTokenProvider(priv, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.ProofTTL()), nil
}
