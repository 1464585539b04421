// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Verification store backends.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// SMS providers.
const (
	SMSProviderLocal = "smslocal"
	SMSProviderSeven = "seven"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// HTTPAddr is the address of the JSON API; empty disables the HTTP server.
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. Required for the postgres store, migrations and the worker.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL is the Redis URL (e.g. redis://localhost:6379/0). Required when VerificationStore is redis.
	RedisURL string `mapstructure:"REDIS_URL"`
	// VerificationStore selects where verification codes live: postgres, redis or memory.
	VerificationStore string `mapstructure:"VERIFICATION_STORE"`

	// OTPTTL is the code lifetime (e.g. "10m").
	OTPTTL string `mapstructure:"OTP_TTL"`
	// OTPMaxAttempts is the number of wrong guesses a code tolerates.
	OTPMaxAttempts int `mapstructure:"OTP_MAX_ATTEMPTS"`
	// OTPRateLimit is the number of codes a phone may request per OTPRateWindow.
	OTPRateLimit int `mapstructure:"OTP_RATE_LIMIT"`
	// OTPRateWindow is the rate limit window (e.g. "1h").
	OTPRateWindow string `mapstructure:"OTP_RATE_WINDOW"`

	// SMSProvider is smslocal or seven.
	SMSProvider string `mapstructure:"SMS_PROVIDER"`
	// SMSLocalAPIKey is the API key for SMS Local.
	SMSLocalAPIKey string `mapstructure:"SMS_LOCAL_API_KEY"`
	// SMSLocalSender is the optional sender ID for SMS Local.
	SMSLocalSender string `mapstructure:"SMS_LOCAL_SENDER"`
	// SMSLocalBaseURL is the SMS Local API base URL.
	SMSLocalBaseURL string `mapstructure:"SMS_LOCAL_BASE_URL"`
	// SevenAPIKey is the seven.io API key.
	SevenAPIKey string `mapstructure:"SEVEN_API_KEY"`
	// SMSFrom is the seven.io sender.
	SMSFrom string `mapstructure:"SMS_FROM"`
	// SMSSendTimeout bounds a single SMS send (e.g. "10s").
	SMSSendTimeout string `mapstructure:"SMS_SEND_TIMEOUT"`
	// SMSPolicyFile is an optional Rego file replacing the built-in SMS delivery policy.
	SMSPolicyFile string `mapstructure:"SMS_POLICY_FILE"`

	// OTPReturnToClient when true enables dev OTP mode: no SMS, codes readable via DevService/GetOTP and GET /dev/otp.
	// Must not be true when Env is production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; signs phone proof tokens.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; derived from the private key when empty.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim of phone proof tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim of phone proof tokens.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// PhoneProofTTL is the phone proof token lifetime (e.g. "15m").
	PhoneProofTTL string `mapstructure:"PHONE_PROOF_TTL"`

	// OTLPEndpoint is the OpenTelemetry collector; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext OTLP connection.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// Worker-only: PurgeCron is the cron spec of the stale record purge.
	PurgeCron string `mapstructure:"PURGE_CRON"`
	// AuditRetention is how long audit log entries are kept (e.g. "2160h"); zero or invalid keeps them forever.
	AuditRetention string `mapstructure:"AUDIT_RETENTION"`
	// HealthCheckInterval is how often the readiness probe refreshes the gRPC health status.
	HealthCheckInterval string `mapstructure:"HEALTH_CHECK_INTERVAL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("HTTP_ADDR", ":8081")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("VERIFICATION_STORE", StorePostgres)
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 3)
	v.SetDefault("OTP_RATE_LIMIT", 5)
	v.SetDefault("OTP_RATE_WINDOW", "1h")
	v.SetDefault("SMS_PROVIDER", SMSProviderLocal)
	v.SetDefault("SMS_LOCAL_BASE_URL", "https://app.smslocal.in/api/smsapi")
	v.SetDefault("SMS_SEND_TIMEOUT", "10s")
	v.SetDefault("SMS_POLICY_FILE", "")
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("JWT_ISSUER", "freightdesk-auth")
	v.SetDefault("JWT_AUDIENCE", "freightdesk-api")
	v.SetDefault("PHONE_PROOF_TTL", "15m")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "freightdesk-verification")
	v.SetDefault("PURGE_CRON", "*/15 * * * *")
	v.SetDefault("AUDIT_RETENTION", "2160h") // 90d
	v.SetDefault("HEALTH_CHECK_INTERVAL", "15s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}

	if cfg.OTPReturnToClient && cfg.Env == "production" {
		return nil, errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}

	switch cfg.VerificationStore {
	case StorePostgres, StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("config: REDIS_URL must be set when VERIFICATION_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("config: unknown VERIFICATION_STORE %q", cfg.VerificationStore)
	}

	if cfg.SMSProvider != SMSProviderLocal && cfg.SMSProvider != SMSProviderSeven {
		return nil, fmt.Errorf("config: unknown SMS_PROVIDER %q", cfg.SMSProvider)
	}

	if cfg.OTPMaxAttempts < 1 {
		return nil, errors.New("config: OTP_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.OTPRateLimit < 1 {
		return nil, errors.New("config: OTP_RATE_LIMIT must be at least 1")
	}

	return &cfg, nil
}

// Production reports whether APP_ENV is production.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// CodeTTL parses OTPTTL as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) CodeTTL() time.Duration {
	return durationOr(c.OTPTTL, 10*time.Minute)
}

// RateWindow parses OTPRateWindow as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) RateWindow() time.Duration {
	return durationOr(c.OTPRateWindow, time.Hour)
}

// SendTimeout parses SMSSendTimeout as a time.Duration. Returns 10s if unset or invalid.
func (c *Config) SendTimeout() time.Duration {
	return durationOr(c.SMSSendTimeout, 10*time.Second)
}

// ProofTTL parses PhoneProofTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) ProofTTL() time.Duration {
	return durationOr(c.PhoneProofTTL, 15*time.Minute)
}

// HealthInterval parses HealthCheckInterval as a time.Duration. Returns 15s if unset or invalid.
func (c *Config) HealthInterval() time.Duration {
	return durationOr(c.HealthCheckInterval, 15*time.Second)
}

// AuditRetentionPeriod parses AuditRetention. Returns 0 (keep forever) if unset or invalid.
func (c *Config) AuditRetentionPeriod() time.Duration {
	return durationOr(c.AuditRetention, 0)
}

func durationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
