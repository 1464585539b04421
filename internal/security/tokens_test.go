package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAndValidatePhoneProof(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	proof, err := p.IssuePhoneProof("u1", "+33612345678", "FR")
	if err != nil {
		t.Fatalf("IssuePhoneProof: %v", err)
	}
	if proof.Token == "" || proof.ID == "" {
		t.Fatal("token or jti empty")
	}
	if proof.ExpiresAt.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	claims, err := p.ValidatePhoneProof(proof.Token)
	if err != nil {
		t.Fatalf("ValidatePhoneProof: %v", err)
	}
	if claims.Subject != "u1" || claims.Phone != "+33612345678" || claims.Country != "FR" || claims.ID != proof.ID {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenProvider_PhoneProofWithoutAccount(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	proof, err := p.IssuePhoneProof("", "+22670123456", "BF")
	if err != nil {
		t.Fatalf("IssuePhoneProof: %v", err)
	}
	claims, err := p.ValidatePhoneProof(proof.Token)
	if err != nil {
		t.Fatalf("ValidatePhoneProof: %v", err)
	}
	if claims.Subject != "" {
		t.Errorf("Subject = %q, want empty", claims.Subject)
	}
}

func TestTokenProvider_ValidatePhoneProofInvalid(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := p.ValidatePhoneProof("invalid-token"); err != ErrInvalidToken {
		t.Errorf("ValidatePhoneProof invalid token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidatePhoneProofExpired(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	issued := time.Now().Add(-time.Hour)
	p.now = func() time.Time { return issued }
	proof, err := p.IssuePhoneProof("u1", "+33612345678", "FR")
	if err != nil {
		t.Fatalf("IssuePhoneProof: %v", err)
	}
	p.now = time.Now
	if _, err := p.ValidatePhoneProof(proof.Token); err != ErrInvalidToken {
		t.Errorf("expired proof: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidatePhoneProofWrongAudience(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	proof, err := p.IssuePhoneProof("u1", "+33612345678", "FR")
	if err != nil {
		t.Fatalf("IssuePhoneProof: %v", err)
	}
	other := NewTokenProvider(p.privateKey, p.publicKey, "freightdesk-test", "freightdesk-web", time.Minute)
	if _, err := other.ValidatePhoneProof(proof.Token); err != ErrInvalidToken {
		t.Errorf("wrong audience: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ES256(t *testing.T) {
	k, err := GenerateEphemeralKey()
	if err != nil {
		t.Fatalf("GenerateEphemeralKey: %v", err)
	}
	p := NewTokenProvider(k, k.Public(), "iss", "aud", time.Minute)
	proof, err := p.IssuePhoneProof("u1", "+221771234567", "SN")
	if err != nil {
		t.Fatalf("IssuePhoneProof: %v", err)
	}
	if _, err := p.ValidatePhoneProof(proof.Token); err != nil {
		t.Errorf("ValidatePhoneProof ES256: %v", err)
	}
}

func TestTokenProvider_RejectsOtherAlgorithm(t *testing.T) {
	rsaProvider, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	k, err := GenerateEphemeralKey()
	if err != nil {
		t.Fatalf("GenerateEphemeralKey: %v", err)
	}
	ecProvider := NewTokenProvider(k, k.Public(), "freightdesk-test", "freightdesk-mobile", time.Minute)
	proof, err := ecProvider.IssuePhoneProof("u1", "+22376123456", "ML")
	if err != nil {
		t.Fatalf("IssuePhoneProof: %v", err)
	}
	if _, err := rsaProvider.ValidatePhoneProof(proof.Token); err != ErrInvalidToken {
		t.Errorf("ES256 proof against RSA key: want ErrInvalidToken, got %v", err)
	}
}
