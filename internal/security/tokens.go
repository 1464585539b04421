package security

import (
	"crypto"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any proof that fails parsing or validation.
var ErrInvalidToken = errors.New("invalid token")

// PhoneProofClaims holds JWT claims for a phone proof: a short-lived token stating that the
// subject completed SMS verification of Phone. Subject is the user id, empty for a number
// that has no account yet (registration continues with the proof).
type PhoneProofClaims struct {
	jwt.RegisteredClaims
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// PhoneProof is a signed phone proof and its metadata.
type PhoneProof struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenProvider issues and validates phone proof JWTs using RS256 or ES256 (private/public key).
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	proofTTL   time.Duration
	now        func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
// issuer and audience are set on claims and validated on parse.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, proofTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		proofTTL:   proofTTL,
		now:        time.Now,
	}
}

// IssuePhoneProof issues a proof that phone (international form) was verified.
func (p *TokenProvider) IssuePhoneProof(userID, phone, country string) (PhoneProof, error) {
	jti := uuid.NewString()
	now := p.now().UTC()
	expiresAt := now.Add(p.proofTTL)
	claims := PhoneProofClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Phone:   phone,
		Country: country,
	}
	token, err := p.sign(claims)
	if err != nil {
		return PhoneProof{}, err
	}
	return PhoneProof{Token: token, ID: jti, ExpiresAt: expiresAt}, nil
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	method := jwt.GetSigningMethod(KeyAlg(p.privateKey.Public()))
	if method == nil {
		return "", ErrInvalidToken
	}
	return jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
}

// ValidatePhoneProof checks signature, expiry, issuer and audience. Only the algorithm of the
// configured key is accepted.
func (p *TokenProvider) ValidatePhoneProof(tokenString string) (*PhoneProofClaims, error) {
	alg := KeyAlg(p.publicKey)
	if alg == "" {
		return nil, ErrInvalidToken
	}
	claims := &PhoneProofClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return p.publicKey, nil },
		jwt.WithValidMethods([]string{alg}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || claims.Phone == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
