// Package handler exposes the phone verification flow over gRPC (VerificationService) and HTTP (gin).
package handler

import (
	"context"
	"log"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	verificationv1 "freightdesk/backend/api/verification/v1"
	"freightdesk/backend/internal/devotp"
	"freightdesk/backend/internal/phone"
	"freightdesk/backend/internal/security"
	"freightdesk/backend/internal/verification/service"
)

// Verifier is the verification flow used by the handlers.
type Verifier interface {
	InitiatePhoneVerificationFor(ctx context.Context, rawPhone, country string, isRegistration bool) (*service.InitiateResult, error)
	CompletePhoneVerification(ctx context.Context, rawPhone, code string) (*service.CompleteResult, error)
}

// ProofIssuer issues phone proof tokens after a successful verification.
type ProofIssuer interface {
	IssuePhoneProof(userID, phone, country string) (security.PhoneProof, error)
}

// Server implements VerificationService and the HTTP routes over the same flow.
type Server struct {
	verificationv1.UnimplementedVerificationServiceServer
	svc      Verifier
	proofs   ProofIssuer
	devCodes devotp.Store
}

// NewServer returns a Server. proofs may be nil; then no phone proof is returned.
// devCodes is set only in dev OTP mode; initiate responses then carry the code.
func NewServer(svc Verifier, proofs ProofIssuer, devCodes devotp.Store) *Server {
	return &Server{svc: svc, proofs: proofs, devCodes: devCodes}
}

// initiateRequest and completeRequest are the decoded requests shared by both transports.
type initiateRequest struct {
	Phone          string `json:"phone" binding:"required"`
	Country        string `json:"country"`
	IsRegistration bool   `json:"is_registration"`
}

type completeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type phoneView struct {
	International string `json:"international"`
	Display       string `json:"display"`
	Country       string `json:"country"`
}

type initiateResponse struct {
	Message              string    `json:"message"`
	RequiresRegistration bool      `json:"requires_registration"`
	Phone                phoneView `json:"phone"`
	ExpiresAt            time.Time `json:"expires_at"`
	DevCode              string    `json:"dev_code,omitempty"`
}

type completeResponse struct {
	Verified            bool       `json:"verified"`
	Phone               phoneView  `json:"phone"`
	UserID              string     `json:"user_id,omitempty"`
	NewAccount          bool       `json:"new_account"`
	PhoneProof          string     `json:"phone_proof,omitempty"`
	PhoneProofExpiresAt *time.Time `json:"phone_proof_expires_at,omitempty"`
}

func viewOf(p *phone.Result) phoneView {
	return phoneView{International: p.International, Display: p.Display, Country: p.Country}
}

func (s *Server) initiate(ctx context.Context, req initiateRequest) (*initiateResponse, error) {
	res, err := s.svc.InitiatePhoneVerificationFor(ctx, req.Phone, req.Country, req.IsRegistration)
	if err != nil {
		return nil, err
	}
	out := &initiateResponse{
		Message:              res.Message,
		RequiresRegistration: res.RequiresRegistration,
		Phone:                viewOf(res.Phone),
		ExpiresAt:            res.ExpiresAt.UTC(),
	}
	if s.devCodes != nil {
		if code, ok := s.devCodes.Get(ctx, res.Phone.International); ok {
			out.DevCode = code
		}
	}
	return out, nil
}

// complete verifies the code and then signs the phone proof. The code is spent by then, so a signing
// failure surfaces as INTERNAL and the client starts over with a new initiate; the phone's issuance
// history was cleared with the code, so that initiate is not rate limited.
func (s *Server) complete(ctx context.Context, req completeRequest) (*completeResponse, error) {
	res, err := s.svc.CompletePhoneVerification(ctx, req.Phone, req.Code)
	if err != nil {
		return nil, err
	}
	out := &completeResponse{
		Verified:   res.Verified,
		Phone:      viewOf(res.Phone),
		UserID:     res.UserID,
		NewAccount: res.NewAccount,
	}
	if s.devCodes != nil {
		s.devCodes.Delete(ctx, res.Phone.International)
	}
	if s.proofs != nil {
		proof, err := s.proofs.IssuePhoneProof(res.UserID, res.Phone.International, res.Phone.Country)
		if err != nil {
			log.Printf("verification: issue phone proof for %s: %v", phone.Mask(res.Phone.International), err)
			return nil, err
		}
		exp := proof.ExpiresAt.UTC()
		out.PhoneProof = proof.Token
		out.PhoneProofExpiresAt = &exp
	}
	return out, nil
}

// InitiatePhoneVerification implements VerificationService.
func (s *Server) InitiatePhoneVerification(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	in := initiateRequest{
		Phone:          f[verificationv1.FieldPhone].GetStringValue(),
		Country:        f[verificationv1.FieldCountry].GetStringValue(),
		IsRegistration: f[verificationv1.FieldIsRegistration].GetBoolValue(),
	}
	if in.Phone == "" {
		return nil, status.Error(codes.InvalidArgument, "phone is required")
	}
	res, err := s.initiate(ctx, in)
	if err != nil {
		return nil, grpcError(err)
	}
	out := map[string]interface{}{
		verificationv1.FieldMessage:              res.Message,
		verificationv1.FieldRequiresRegistration: res.RequiresRegistration,
		verificationv1.FieldInternational:        res.Phone.International,
		verificationv1.FieldDisplay:              res.Phone.Display,
		verificationv1.FieldCountry:              res.Phone.Country,
		verificationv1.FieldExpiresAt:            res.ExpiresAt.Format(time.RFC3339),
	}
	if res.DevCode != "" {
		out[verificationv1.FieldDevCode] = res.DevCode
	}
	return structpb.NewStruct(out)
}

// CompletePhoneVerification implements VerificationService.
func (s *Server) CompletePhoneVerification(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	in := completeRequest{
		Phone: f[verificationv1.FieldPhone].GetStringValue(),
		Code:  f[verificationv1.FieldCode].GetStringValue(),
	}
	if in.Phone == "" || in.Code == "" {
		return nil, status.Error(codes.InvalidArgument, "phone and code are required")
	}
	res, err := s.complete(ctx, in)
	if err != nil {
		return nil, grpcError(err)
	}
	out := map[string]interface{}{
		verificationv1.FieldVerified:      res.Verified,
		verificationv1.FieldInternational: res.Phone.International,
		verificationv1.FieldCountry:       res.Phone.Country,
		verificationv1.FieldNewAccount:    res.NewAccount,
	}
	if res.UserID != "" {
		out[verificationv1.FieldUserID] = res.UserID
	}
	if res.PhoneProof != "" {
		out[verificationv1.FieldPhoneProof] = res.PhoneProof
		out[verificationv1.FieldPhoneProofExpiresAt] = res.PhoneProofExpiresAt.Format(time.RFC3339)
	}
	return structpb.NewStruct(out)
}
