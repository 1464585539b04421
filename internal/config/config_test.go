package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":8080")
	}
	if cfg.HTTPAddr != ":8081" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8081")
	}
	if cfg.VerificationStore != StorePostgres {
		t.Errorf("VerificationStore = %q, want %q", cfg.VerificationStore, StorePostgres)
	}
	if cfg.OTPMaxAttempts != 3 {
		t.Errorf("OTPMaxAttempts = %d, want 3", cfg.OTPMaxAttempts)
	}
	if cfg.OTPRateLimit != 5 {
		t.Errorf("OTPRateLimit = %d, want 5", cfg.OTPRateLimit)
	}
	if cfg.CodeTTL() != 10*time.Minute {
		t.Errorf("CodeTTL = %v, want 10m", cfg.CodeTTL())
	}
	if cfg.RateWindow() != time.Hour {
		t.Errorf("RateWindow = %v, want 1h", cfg.RateWindow())
	}
	if cfg.SMSProvider != SMSProviderLocal {
		t.Errorf("SMSProvider = %q, want %q", cfg.SMSProvider, SMSProviderLocal)
	}
	if cfg.SMSLocalBaseURL != "https://app.smslocal.in/api/smsapi" {
		t.Errorf("SMSLocalBaseURL = %q, want default", cfg.SMSLocalBaseURL)
	}
	if cfg.JWTIssuer != "freightdesk-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "freightdesk-auth")
	}
	if cfg.JWTAudience != "freightdesk-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "freightdesk-api")
	}
	if cfg.ProofTTL() != 15*time.Minute {
		t.Errorf("ProofTTL = %v, want 15m", cfg.ProofTTL())
	}
	if cfg.ServiceName != "freightdesk-verification" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.PurgeCron != "*/15 * * * *" {
		t.Errorf("PurgeCron = %q", cfg.PurgeCron)
	}
	if cfg.OTPReturnToClient {
		t.Error("OTPReturnToClient should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":9090")
	os.Setenv("OTP_RATE_LIMIT", "10")
	os.Setenv("OTP_TTL", "5m")
	os.Setenv("VERIFICATION_STORE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":9090" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":9090")
	}
	if cfg.OTPRateLimit != 10 {
		t.Errorf("OTPRateLimit = %d, want 10", cfg.OTPRateLimit)
	}
	if cfg.CodeTTL() != 5*time.Minute {
		t.Errorf("CodeTTL = %v, want 5m", cfg.CodeTTL())
	}
	if cfg.VerificationStore != StoreMemory {
		t.Errorf("VerificationStore = %q, want memory", cfg.VerificationStore)
	}
}

func TestLoad_GRPCAddrRequired(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with GRPC_ADDR unset: %v", err)
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want default :8080", cfg.GRPCAddr)
	}

	os.Setenv("GRPC_ADDR", "")
	if _, err := Load(); err == nil {
		t.Error("Load should fail when GRPC_ADDR is explicitly empty")
	}
}

func TestLoad_RedisStoreRequiresURL(t *testing.T) {
	os.Clearenv()
	os.Setenv("VERIFICATION_STORE", "redis")
	if _, err := Load(); err == nil {
		t.Error("Load should fail when REDIS_URL is missing")
	}

	os.Setenv("REDIS_URL", "redis://localhost:6379/0")
	if _, err := Load(); err != nil {
		t.Errorf("Load: %v", err)
	}
}

func TestLoad_UnknownStoreAndProvider(t *testing.T) {
	os.Clearenv()
	os.Setenv("VERIFICATION_STORE", "sqlite")
	if _, err := Load(); err == nil {
		t.Error("Load should reject unknown VERIFICATION_STORE")
	}

	os.Clearenv()
	os.Setenv("SMS_PROVIDER", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Error("Load should reject unknown SMS_PROVIDER")
	}
}

func TestLoad_AttemptAndRateBounds(t *testing.T) {
	for _, key := range []string{"OTP_MAX_ATTEMPTS", "OTP_RATE_LIMIT"} {
		os.Clearenv()
		os.Setenv(key, "0")
		if _, err := Load(); err == nil {
			t.Errorf("Load should reject %s=0", key)
		}
	}
}

func TestLoad_OTPReturnToClientProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("OTP_RETURN_TO_CLIENT", "true")
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("Load should fail when OTP_RETURN_TO_CLIENT is true in production")
	}
}

func TestLoad_OTPReturnToClientDevelopment(t *testing.T) {
	os.Clearenv()
	os.Setenv("OTP_RETURN_TO_CLIENT", "true")
	os.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.OTPReturnToClient {
		t.Error("OTPReturnToClient should be true")
	}
	if cfg.Production() {
		t.Error("Production should be false")
	}
}

func TestDurations_FallBackOnInvalid(t *testing.T) {
	cfg := &Config{
		OTPTTL:              "not-a-duration",
		OTPRateWindow:       "0s",
		SMSSendTimeout:      "-5s",
		PhoneProofTTL:       "",
		HealthCheckInterval: "soon",
		AuditRetention:      "",
	}
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"CodeTTL", cfg.CodeTTL(), 10 * time.Minute},
		{"RateWindow", cfg.RateWindow(), time.Hour},
		{"SendTimeout", cfg.SendTimeout(), 10 * time.Second},
		{"ProofTTL", cfg.ProofTTL(), 15 * time.Minute},
		{"HealthInterval", cfg.HealthInterval(), 15 * time.Second},
		{"AuditRetentionPeriod", cfg.AuditRetentionPeriod(), 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDurations_Valid(t *testing.T) {
	cfg := &Config{OTPTTL: "2m", OTPRateWindow: "30m", SMSSendTimeout: "3s", PhoneProofTTL: "1h", AuditRetention: "720h"}
	if cfg.CodeTTL() != 2*time.Minute || cfg.RateWindow() != 30*time.Minute || cfg.SendTimeout() != 3*time.Second || cfg.ProofTTL() != time.Hour {
		t.Errorf("durations = %v %v %v %v", cfg.CodeTTL(), cfg.RateWindow(), cfg.SendTimeout(), cfg.ProofTTL())
	}
	if cfg.AuditRetentionPeriod() != 720*time.Hour {
		t.Errorf("AuditRetentionPeriod = %v, want 720h", cfg.AuditRetentionPeriod())
	}
}
